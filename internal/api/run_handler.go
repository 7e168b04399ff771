package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/nutri-api/internal/api/shared"
	"github.com/phrazzld/nutri-api/internal/journal"
)

// RunHandler serves the run journal. A nil store means the journal is
// disabled and every request answers 404.
type RunHandler struct {
	store  journal.Store
	logger *slog.Logger
}

// NewRunHandler creates a RunHandler.
func NewRunHandler(store journal.Store, logger *slog.Logger) *RunHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunHandler{store: store, logger: logger.With("component", "run_handler")}
}

// Routes registers the handler on r.
func (h *RunHandler) Routes(r chi.Router) {
	r.Get("/runs", h.ListRuns)
}

// ListRuns handles GET /api/runs?flow=&limit= requests
func (h *RunHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		handleAPIError(w, r, ErrJournalDisabled)
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid limit: must be an integer", err)
		return
	}

	runs, err := h.store.ListRecent(r.Context(), r.URL.Query().Get("flow"), limit)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}
	if runs == nil {
		runs = []journal.Run{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RunListResponse{Runs: runs})
}
