package handlers

import (
	"net/http"

	"github.com/eburton/receiptmatch/internal/api/dto"
	"github.com/eburton/receiptmatch/internal/infrastructure/storage"
)

// StatsHandler handles stats HTTP requests.
type StatsHandler struct {
	*Base
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(store *storage.Store) *StatsHandler {
	return &StatsHandler{
		Base: NewBase(store),
	}
}

// Get handles GET /api/stats - returns aggregate proposal statistics.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.Internal())
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.FromStats(stats))
}
