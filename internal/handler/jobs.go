package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"pagalpdf/internal/domain"
	"pagalpdf/internal/domain/models"
	"pagalpdf/internal/httputil"
)

// FailureStore reads back the conversion audit log.
type FailureStore interface {
	RecentFailures(ctx context.Context, limit int) ([]*models.JobRecord, error)
}

// JobsHandler serves the operator view of the audit log: the most recent
// failed conversions, for spotting a broken worker or a missing server
// dependency without shell access.
type JobsHandler struct {
	store  FailureStore
	logger *slog.Logger
}

func NewJobsHandler(store FailureStore, logger *slog.Logger) *JobsHandler {
	return &JobsHandler{store: store, logger: logger}
}

type jobFailure struct {
	ID         string    `json:"id"`
	Operation  string    `json:"operation"`
	Filename   string    `json:"filename"`
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecentFailures handles GET /api/jobs/failures.
func (h *JobsHandler) RecentFailures(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			handleError(w, h.logger, &domain.ValidationError{Message: "limit must be between 1 and 100."})
			return
		}
		limit = n
	}

	recs, err := h.store.RecentFailures(r.Context(), limit)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	failures := make([]jobFailure, 0, len(recs))
	for _, rec := range recs {
		failures = append(failures, jobFailure{
			ID:         rec.ID,
			Operation:  rec.Operation,
			Filename:   rec.Filename,
			Outcome:    rec.Outcome,
			Detail:     rec.Detail,
			DurationMs: rec.Duration.Milliseconds(),
			CreatedAt:  rec.CreatedAt,
		})
	}

	httputil.RespondJSON(w, http.StatusOK, failures)
}
