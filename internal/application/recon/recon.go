// Package recon runs a reconciliation pass: every ledger transaction from
// a recognized retail source is matched against the order and receipt
// snapshots, decomposed into per-item splits, and stored as a proposal for
// human review.
package recon

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/eburton/receiptmatch/internal/domain/ledger"
	"github.com/eburton/receiptmatch/internal/domain/matcher"
	"github.com/eburton/receiptmatch/internal/domain/money"
	"github.com/eburton/receiptmatch/internal/domain/order"
	"github.com/eburton/receiptmatch/internal/domain/splitter"
	"github.com/eburton/receiptmatch/internal/infrastructure/config"
	"github.com/eburton/receiptmatch/internal/infrastructure/storage"
)

// Options holds per-run settings.
type Options struct {
	// DryRun computes proposals without persisting them. A run record is
	// still written so dry runs show up in history.
	DryRun bool
}

// Result summarizes one reconciliation pass.
type Result struct {
	RunID            string
	TransactionCount int
	MatchedCount     int
	UnmatchedCount   int
	SkippedCount     int
	Proposals        []*storage.Proposal
}

// Orchestrator wires the matcher, splitter, and review store together.
type Orchestrator struct {
	config  matcher.Config
	matcher *matcher.Matcher
	store   *storage.Store
	logger  *slog.Logger
}

// New creates an orchestrator. The store may be nil for compute-only use.
func New(cfg matcher.Config, store *storage.Store, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		config:  cfg,
		matcher: matcher.New(cfg, logger),
		store:   store,
		logger:  logger,
	}
}

// PayeePredicate builds a source predicate matching any of the given
// case-insensitive payee substrings.
func PayeePredicate(patterns []string) matcher.SourcePredicate {
	lowered := make([]string, len(patterns))
	for i, p := range patterns {
		lowered[i] = strings.ToLower(p)
	}
	return func(txn ledger.Transaction) bool {
		payee := strings.ToLower(txn.Payee)
		for _, p := range lowered {
			if p != "" && strings.Contains(payee, p) {
				return true
			}
		}
		return false
	}
}

// MatcherConfig builds a matcher config from the application config,
// attaching payee predicates for both sources.
func MatcherConfig(matching config.MatchingConfig, sources config.SourcesConfig) matcher.Config {
	cfg := matcher.DefaultConfig()
	if matching.DateWindowDays > 0 {
		cfg.DateWindowDays = matching.DateWindowDays
	}
	if matching.AmountToleranceCents > 0 {
		cfg.AmountToleranceCents = matching.AmountToleranceCents
	}
	if matching.CompleteThreshold > 0 {
		cfg.CompleteThreshold = matching.CompleteThreshold
	}
	if matching.SplitPaymentThreshold > 0 {
		cfg.SplitPaymentThreshold = matching.SplitPaymentThreshold
	}
	if matching.MaxComboSize > 0 {
		cfg.MaxComboSize = matching.MaxComboSize
	}
	if matching.MaxComboCandidates > 0 {
		cfg.MaxComboCandidates = matching.MaxComboCandidates
	}
	cfg.IsMarketplace = PayeePredicate(sources.Marketplace.PayeePatterns)
	cfg.IsStorefront = PayeePredicate(sources.Storefront.PayeePatterns)
	return cfg
}

// Run reconciles every transaction against the candidate snapshots.
func (o *Orchestrator) Run(ctx context.Context, txns []ledger.Transaction, cands matcher.Candidates, opts Options) (*Result, error) {
	result := &Result{}

	var run *storage.Run
	if o.store != nil {
		var err error
		run, err = o.store.CreateRun(opts.DryRun)
		if err != nil {
			return nil, fmt.Errorf("starting run: %w", err)
		}
		result.RunID = run.ID
	}

	usedIDs := make(map[string]bool)
	var unmatched []ledger.Transaction

	for _, txn := range txns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.TransactionCount++

		if !o.recognized(txn) {
			result.SkippedCount++
			continue
		}

		r := o.matcher.MatchTransaction(txn, cands)
		if r.Best == nil {
			result.UnmatchedCount++
			unmatched = append(unmatched, txn)
			result.Proposals = append(result.Proposals, o.noMatchProposal(run, txn, r.Message))
			continue
		}

		result.MatchedCount++
		usedIDs[txn.ID] = true
		result.Proposals = append(result.Proposals, o.matchProposal(run, txn, r.Best))
	}

	// Second pass: orders billed once per shipment show up as several
	// smaller charges that the per-transaction pass could not explain.
	// Proposals found here supersede the no-match entries written above.
	multi := o.multiTransactionPass(cands, unmatched, usedIDs)
	if len(multi) > 0 {
		kept := result.Proposals[:0]
		for _, p := range result.Proposals {
			if p.Status == storage.StatusNoMatch && usedIDs[p.TransactionID] {
				continue
			}
			kept = append(kept, p)
		}
		result.Proposals = kept
		for _, p := range multi {
			if run != nil {
				p.RunID = run.ID
			}
			result.MatchedCount++
			result.UnmatchedCount--
			result.Proposals = append(result.Proposals, p)
		}
	}

	if o.store != nil {
		if !opts.DryRun {
			for _, p := range result.Proposals {
				if err := o.store.SaveProposal(p); err != nil {
					return nil, fmt.Errorf("saving proposal: %w", err)
				}
			}
		}
		run.TransactionCount = result.TransactionCount
		run.MatchedCount = result.MatchedCount
		run.UnmatchedCount = result.UnmatchedCount
		run.SkippedCount = result.SkippedCount
		if err := o.store.FinishRun(run); err != nil {
			return nil, fmt.Errorf("finishing run: %w", err)
		}
	}

	o.logger.Info("reconciliation pass complete",
		slog.Int("transactions", result.TransactionCount),
		slog.Int("matched", result.MatchedCount),
		slog.Int("unmatched", result.UnmatchedCount),
		slog.Int("skipped", result.SkippedCount))
	return result, nil
}

func (o *Orchestrator) recognized(txn ledger.Transaction) bool {
	if o.config.IsMarketplace != nil && o.config.IsMarketplace(txn) {
		return true
	}
	if o.config.IsStorefront != nil && o.config.IsStorefront(txn) {
		return true
	}
	return false
}

// multiTransactionPass tries to explain leftover charges as per-shipment
// billing: one order, one charge per shipment.
func (o *Orchestrator) multiTransactionPass(cands matcher.Candidates, unmatched []ledger.Transaction, usedIDs map[string]bool) []*storage.Proposal {
	if len(unmatched) == 0 {
		return nil
	}

	var proposals []*storage.Proposal
	for account, items := range cands.OrdersByAccount {
		for orderID, group := range order.GroupByOrder(items) {
			shipments := order.GroupByShipment(group.Items)
			if len(shipments) < 2 {
				continue
			}

			amounts := make([]money.Money, len(shipments))
			for i, s := range shipments {
				amounts[i] = s.Total
			}

			mr, err := o.matcher.FindMultiTransaction(group, amounts, unmatched, usedIDs)
			if err != nil || !mr.AllFound {
				continue
			}

			o.logger.Info("matched order billed per shipment",
				slog.String("order_id", orderID),
				slog.Int("charges", len(amounts)))

			for i, tm := range mr.Matches {
				usedIDs[tm.Transaction.ID] = true
				match := &matcher.Match{
					Method:     matcher.MethodMultiDay,
					Confidence: tm.Confidence,
					Account:    account,
					Groups:     []order.Group{shipments[i]},
					Total:      shipments[i].Total,
				}
				proposals = append(proposals, o.matchProposal(nil, tm.Transaction, match))
			}
		}
	}

	// Proposals created here replace the no-match entries written in the
	// first pass; the caller adjusts counters accordingly.
	return proposals
}

func (o *Orchestrator) matchProposal(run *storage.Run, txn ledger.Transaction, match *matcher.Match) *storage.Proposal {
	p := &storage.Proposal{
		TransactionID:     txn.ID,
		TransactionDate:   txn.Date.String(),
		Account:           txn.Account,
		Payee:             txn.Payee,
		AmountCents:       txn.Amount,
		Method:            match.Method.String(),
		Confidence:        match.Confidence,
		MatchedTotalCents: match.Total,
		UnmatchedCents:    match.Unmatched,
		Status:            storage.StatusProposed,
	}
	if run != nil {
		p.RunID = run.ID
	}

	splits, err := splitsForMatch(txn, match)
	if err != nil {
		o.logger.Warn("split calculation failed, proposing without splits",
			slog.String("transaction_id", txn.ID),
			slog.String("error", err.Error()))
		p.Message = err.Error()
	} else {
		p.Splits = splits
	}
	return p
}

func (o *Orchestrator) noMatchProposal(run *storage.Run, txn ledger.Transaction, message string) *storage.Proposal {
	p := &storage.Proposal{
		TransactionID:   txn.ID,
		TransactionDate: txn.Date.String(),
		Account:         txn.Account,
		Payee:           txn.Payee,
		AmountCents:     txn.Amount,
		Message:         message,
		Status:          storage.StatusNoMatch,
	}
	if run != nil {
		p.RunID = run.ID
	}
	return p
}

// splitsForMatch decomposes the transaction into per-item splits. A single
// matched unit is allocated directly against the transaction amount; a
// split-payment combination allocates each unit against its own share so
// the concatenation still sums to the transaction exactly.
func splitsForMatch(txn ledger.Transaction, match *matcher.Match) ([]splitter.SplitEdit, error) {
	single := len(match.Groups)+len(match.Receipts) == 1

	var splits []splitter.SplitEdit
	for _, g := range match.Groups {
		amount := txn.Amount
		if !single {
			amount = unitShare(txn.Amount, g.Total)
		}
		part, err := splitter.FromOrderItems(amount, g.Items)
		if err != nil {
			return nil, err
		}
		splits = append(splits, part...)
	}
	for _, r := range match.Receipts {
		amount := txn.Amount
		if !single {
			amount = unitShare(txn.Amount, r.Amount())
		}
		part, err := splitter.FromReceiptItems(amount, r.Items, r.ItemSubtotal(), r.Tax)
		if err != nil {
			return nil, err
		}
		splits = append(splits, part...)
	}
	return splits, nil
}

// unitShare signs a positive unit total to match the transaction's sign.
func unitShare(txnAmount, unitTotal money.Money) money.Money {
	if txnAmount.IsNegative() {
		return unitTotal.Neg()
	}
	return unitTotal
}
