package dto

import (
	"time"

	"github.com/eburton/receiptmatch/internal/infrastructure/storage"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// RunResponse represents a reconciliation run in API responses.
type RunResponse struct {
	ID               string     `json:"id"`
	StartedAt        time.Time  `json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
	TransactionCount int        `json:"transaction_count"`
	MatchedCount     int        `json:"matched_count"`
	UnmatchedCount   int        `json:"unmatched_count"`
	SkippedCount     int        `json:"skipped_count"`
	DryRun           bool       `json:"dry_run"`
}

// RunListResponse is returned when listing runs.
type RunListResponse struct {
	Runs  []RunResponse `json:"runs"`
	Count int           `json:"count"`
}

// SplitResponse is one line of a proposal's split decomposition.
type SplitResponse struct {
	AmountCents int64  `json:"amount_cents"`
	Memo        string `json:"memo"`
}

// ProposalResponse represents a match proposal in API responses.
type ProposalResponse struct {
	ID                string          `json:"id"`
	RunID             string          `json:"run_id"`
	TransactionID     string          `json:"transaction_id"`
	TransactionDate   string          `json:"transaction_date"`
	Account           string          `json:"account"`
	Payee             string          `json:"payee"`
	AmountCents       int64           `json:"amount_cents"`
	Method            string          `json:"method,omitempty"`
	Confidence        float64         `json:"confidence"`
	MatchedTotalCents int64           `json:"matched_total_cents"`
	UnmatchedCents    int64           `json:"unmatched_cents"`
	Message           string          `json:"message,omitempty"`
	Splits            []SplitResponse `json:"splits"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	ReviewedAt        *time.Time      `json:"reviewed_at,omitempty"`
}

// ProposalListResponse is returned when listing proposals.
type ProposalListResponse struct {
	Proposals []ProposalResponse `json:"proposals"`
	Count     int                `json:"count"`
}

// StatsResponse summarizes stored proposals.
type StatsResponse struct {
	TotalProposals    int            `json:"total_proposals"`
	ByStatus          map[string]int `json:"by_status"`
	ByMethod          map[string]int `json:"by_method"`
	TotalMatchedCents int64          `json:"total_matched_cents"`
	AvgConfidence     float64        `json:"avg_confidence"`
}

// FromRun converts a storage run to an API response.
func FromRun(run *storage.Run) RunResponse {
	return RunResponse{
		ID:               run.ID,
		StartedAt:        run.StartedAt,
		FinishedAt:       run.FinishedAt,
		TransactionCount: run.TransactionCount,
		MatchedCount:     run.MatchedCount,
		UnmatchedCount:   run.UnmatchedCount,
		SkippedCount:     run.SkippedCount,
		DryRun:           run.DryRun,
	}
}

// FromProposal converts a storage proposal to an API response.
func FromProposal(p *storage.Proposal) ProposalResponse {
	splits := make([]SplitResponse, 0, len(p.Splits))
	for _, s := range p.Splits {
		splits = append(splits, SplitResponse{
			AmountCents: s.Amount.Cents(),
			Memo:        s.Memo,
		})
	}
	return ProposalResponse{
		ID:                p.ID,
		RunID:             p.RunID,
		TransactionID:     p.TransactionID,
		TransactionDate:   p.TransactionDate,
		Account:           p.Account,
		Payee:             p.Payee,
		AmountCents:       p.AmountCents.Cents(),
		Method:            p.Method,
		Confidence:        p.Confidence,
		MatchedTotalCents: p.MatchedTotalCents.Cents(),
		UnmatchedCents:    p.UnmatchedCents.Cents(),
		Message:           p.Message,
		Splits:            splits,
		Status:            p.Status,
		CreatedAt:         p.CreatedAt,
		ReviewedAt:        p.ReviewedAt,
	}
}

// FromStats converts storage stats to an API response.
func FromStats(s *storage.Stats) StatsResponse {
	return StatsResponse{
		TotalProposals:    s.TotalProposals,
		ByStatus:          s.ByStatus,
		ByMethod:          s.ByMethod,
		TotalMatchedCents: s.TotalMatched.Cents(),
		AvgConfidence:     s.AvgConfidence,
	}
}
