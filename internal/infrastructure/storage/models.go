package storage

import (
	"time"

	"github.com/eburton/receiptmatch/internal/domain/money"
	"github.com/eburton/receiptmatch/internal/domain/splitter"
)

// Proposal review statuses. Proposals never write back to the ledger;
// acceptance is a human decision recorded for the exporter to act on.
const (
	StatusProposed = "proposed"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusNoMatch  = "no_match"
)

// Run records one batch reconciliation pass over a ledger snapshot.
type Run struct {
	ID               string     `json:"id"`
	StartedAt        time.Time  `json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
	TransactionCount int        `json:"transaction_count"`
	MatchedCount     int        `json:"matched_count"`
	UnmatchedCount   int        `json:"unmatched_count"`
	SkippedCount     int        `json:"skipped_count"`
	DryRun           bool       `json:"dry_run"`
}

// Proposal is one stored match proposal: a transaction, how it was
// explained, and the split decomposition awaiting review.
type Proposal struct {
	ID                string               `json:"id"`
	RunID             string               `json:"run_id"`
	TransactionID     string               `json:"transaction_id"`
	TransactionDate   string               `json:"transaction_date"`
	Account           string               `json:"account"`
	Payee             string               `json:"payee"`
	AmountCents       money.Money          `json:"amount_cents"`
	Method            string               `json:"method"`
	Confidence        float64              `json:"confidence"`
	MatchedTotalCents money.Money          `json:"matched_total_cents"`
	UnmatchedCents    money.Money          `json:"unmatched_cents"`
	Message           string               `json:"message,omitempty"`
	Splits            []splitter.SplitEdit `json:"splits"`
	Status            string               `json:"status"`
	CreatedAt         time.Time            `json:"created_at"`
	ReviewedAt        *time.Time           `json:"reviewed_at,omitempty"`
}

// Stats summarizes the stored proposals.
type Stats struct {
	TotalProposals int            `json:"total_proposals"`
	ByStatus       map[string]int `json:"by_status"`
	ByMethod       map[string]int `json:"by_method"`
	TotalMatched   money.Money    `json:"total_matched_cents"`
	AvgConfidence  float64        `json:"avg_confidence"`
}

// ProposalFilter narrows ListProposals.
type ProposalFilter struct {
	RunID  string
	Status string
	Limit  int
}
