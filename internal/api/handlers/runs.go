package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eburton/receiptmatch/internal/api/dto"
	"github.com/eburton/receiptmatch/internal/infrastructure/storage"
)

// RunsHandler handles reconciliation-run HTTP requests.
type RunsHandler struct {
	*Base
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(store *storage.Store) *RunsHandler {
	return &RunsHandler{
		Base: NewBase(store),
	}
}

// List handles GET /api/runs - returns run history, newest first.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := ParseIntParam(r, "limit", 20)

	runs, err := h.store.ListRuns(limit)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.Internal())
		return
	}

	response := dto.RunListResponse{
		Runs:  make([]dto.RunResponse, 0, len(runs)),
		Count: len(runs),
	}
	for _, run := range runs {
		response.Runs = append(response.Runs, dto.FromRun(run))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/runs/{id} - returns a single run by ID.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequest("run ID is required"))
		return
	}

	run, err := h.store.GetRun(id)
	if errors.Is(err, storage.ErrNotFound) {
		h.WriteError(w, http.StatusNotFound, dto.NotFound("run"))
		return
	}
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.Internal())
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.FromRun(run))
}
