package handler

import (
	"net/http"

	"pagalpdf/internal/httputil"
)

// RuntimeStatus reports the cached interpreter resolution, if any.
type RuntimeStatus interface {
	Cached() (string, bool)
}

// HealthHandler serves the liveness endpoint. It reports whether an
// interpreter has been resolved but never probes on the hot path; a cold
// cache just means no worker conversion has run yet.
type HealthHandler struct {
	runtime RuntimeStatus
	version string
}

func NewHealthHandler(runtime RuntimeStatus, version string) *HealthHandler {
	return &HealthHandler{runtime: runtime, version: version}
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Python  string `json:"python,omitempty"`
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Version: h.version}
	if path, ok := h.runtime.Cached(); ok {
		resp.Python = path
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}
