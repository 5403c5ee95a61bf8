package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eburton/receiptmatch/internal/api/dto"
	"github.com/eburton/receiptmatch/internal/infrastructure/storage"
)

// ProposalsHandler handles match-proposal HTTP requests. Proposals are the
// review surface: a human accepts or rejects each one here before anything
// is exported back to the budgeting tool.
type ProposalsHandler struct {
	*Base
}

// NewProposalsHandler creates a new proposals handler.
func NewProposalsHandler(store *storage.Store) *ProposalsHandler {
	return &ProposalsHandler{
		Base: NewBase(store),
	}
}

// List handles GET /api/proposals - returns proposals, optionally filtered
// by run_id and status query parameters.
func (h *ProposalsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := storage.ProposalFilter{
		RunID:  r.URL.Query().Get("run_id"),
		Status: r.URL.Query().Get("status"),
		Limit:  ParseIntParam(r, "limit", 100),
	}

	proposals, err := h.store.ListProposals(filter)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.Internal())
		return
	}

	response := dto.ProposalListResponse{
		Proposals: make([]dto.ProposalResponse, 0, len(proposals)),
		Count:     len(proposals),
	}
	for _, p := range proposals {
		response.Proposals = append(response.Proposals, dto.FromProposal(p))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/proposals/{id} - returns a single proposal by ID.
func (h *ProposalsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequest("proposal ID is required"))
		return
	}

	p, err := h.store.GetProposal(id)
	if errors.Is(err, storage.ErrNotFound) {
		h.WriteError(w, http.StatusNotFound, dto.NotFound("proposal"))
		return
	}
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.Internal())
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.FromProposal(p))
}

// UpdateStatus handles PUT /api/proposals/{id}/status - records a review
// decision on a proposal.
func (h *ProposalsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequest("proposal ID is required"))
		return
	}

	var req dto.UpdateProposalStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequest("invalid request body"))
		return
	}

	switch req.Status {
	case storage.StatusAccepted, storage.StatusRejected, storage.StatusProposed:
	default:
		h.WriteError(w, http.StatusBadRequest, dto.Invalid("status must be accepted, rejected, or proposed"))
		return
	}

	err := h.store.UpdateProposalStatus(id, req.Status)
	if errors.Is(err, storage.ErrNotFound) {
		h.WriteError(w, http.StatusNotFound, dto.NotFound("proposal"))
		return
	}
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.Internal())
		return
	}

	p, err := h.store.GetProposal(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.Internal())
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.FromProposal(p))
}
