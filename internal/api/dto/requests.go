package dto

// UpdateProposalStatusRequest is the body for PUT /api/proposals/{id}/status.
type UpdateProposalStatusRequest struct {
	Status string `json:"status"`
}
