package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"pagalpdf/internal/domain"
	"pagalpdf/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Anything that does
// not carry its own status code is an internal failure and gets a generic
// message; the detail stays in the log.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	logger.Error("unhandled error", "error", err)
	httputil.RespondError(w, http.StatusInternalServerError, "Internal server error.")
}
