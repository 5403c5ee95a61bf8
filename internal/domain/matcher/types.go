// Package matcher correlates ledger transactions with candidate purchase
// groups and storefront receipts.
//
// Matching is strict on amounts and fuzzy on dates: a candidate whose total
// differs from the transaction by even one cent scores zero, while date
// distance decays the confidence of exact-amount candidates. Split payments
// (one charge funded by several purchase units) are found by a bounded
// combination search.
//
// Example usage:
//
//	m := matcher.New(matcher.DefaultConfig(), logger)
//	result := m.MatchTransaction(txn, candidates)
//	if result.Best != nil {
//		// Propose result.Best for review
//	}
package matcher

import (
	"github.com/eburton/receiptmatch/internal/domain/ledger"
	"github.com/eburton/receiptmatch/internal/domain/money"
	"github.com/eburton/receiptmatch/internal/domain/order"
	"github.com/eburton/receiptmatch/internal/domain/receipt"
)

// Method tags how a match explains the transaction.
type Method int

const (
	// MethodCompleteOrder is one purchase unit fully covering one
	// transaction.
	MethodCompleteOrder Method = iota
	// MethodMultiDay is a complete match whose group spans more than one
	// ship date.
	MethodMultiDay
	// MethodSplitPayment is one transaction funded by two or more purchase
	// units whose totals combine to the exact amount.
	MethodSplitPayment
)

// String returns the tag recorded in proposals.
func (m Method) String() string {
	switch m {
	case MethodCompleteOrder:
		return "complete_order"
	case MethodMultiDay:
		return "multi_day"
	case MethodSplitPayment:
		return "split_payment"
	default:
		return "unknown"
	}
}

// SourcePredicate reports whether a transaction plausibly belongs to a
// retail source at all, based on payee-name patterns. Normalization of the
// patterns lives with the caller.
type SourcePredicate func(txn ledger.Transaction) bool

// Config holds matcher tuning.
type Config struct {
	// DateWindowDays bounds candidate enumeration to groups within this
	// many days of the transaction date.
	DateWindowDays int
	// AmountToleranceCents is the grouping candidate tolerance (one
	// dollar by default, absorbing post-purchase price adjustments).
	AmountToleranceCents int64
	// CompleteThreshold is the minimum confidence for a complete-order
	// best match.
	CompleteThreshold float64
	// SplitPaymentThreshold is the minimum confidence for a split-payment
	// best match. Lower than CompleteThreshold: split payments carry more
	// inherent uncertainty yet leave no remainder unexplained.
	SplitPaymentThreshold float64
	// MaxComboSize caps how many purchase units a split-payment
	// combination may contain.
	MaxComboSize int
	// MaxComboCandidates caps the candidate pool fed to the combination
	// search so it stays bounded.
	MaxComboCandidates int

	// IsMarketplace and IsStorefront scope candidates to transactions that
	// plausibly belong to each source. A nil predicate admits nothing.
	IsMarketplace SourcePredicate
	IsStorefront  SourcePredicate
}

// DefaultConfig returns the standard tuning. Predicates must still be set
// by the caller.
func DefaultConfig() Config {
	return Config{
		DateWindowDays:        2,
		AmountToleranceCents:  order.DefaultToleranceCents,
		CompleteThreshold:     0.75,
		SplitPaymentThreshold: 0.65,
		MaxComboSize:          3,
		MaxComboCandidates:    16,
	}
}

// Candidates is the read-only snapshot of source records searched for one
// or many transactions. Marketplace order items are keyed by the owning
// ledger account; storefront receipts are not account-scoped.
type Candidates struct {
	OrdersByAccount map[string][]order.Item
	Receipts        []receipt.Receipt
}

// Match is one proposed correspondence between a transaction and one or
// more purchase groups or receipts.
type Match struct {
	Method     Method
	Confidence float64
	Account    string
	// Groups and Receipts are the purchase units funding the transaction.
	// A complete match has exactly one entry between the two slices.
	Groups   []order.Group
	Receipts []receipt.Receipt
	// Total is the combined matched amount (always positive).
	Total money.Money
	// Unmatched is the remainder the match leaves unexplained. Zero for
	// complete matches and for split-payment combinations, which reach the
	// exact amount by construction.
	Unmatched money.Money
}

// Result is the outcome of matching one transaction. Zero matches is a
// normal terminal state, not an error.
type Result struct {
	Transaction ledger.Transaction
	// Matches holds every scored candidate, highest confidence first.
	Matches []Match
	// Best is the top candidate if it cleared its method threshold.
	Best *Match
	// Message explains an absent best match in human terms.
	Message string
}

// HasMatches reports whether any candidate scored above zero.
func (r Result) HasMatches() bool {
	return len(r.Matches) > 0
}
