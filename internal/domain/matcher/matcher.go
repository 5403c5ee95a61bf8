package matcher

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/eburton/receiptmatch/internal/domain/ledger"
	"github.com/eburton/receiptmatch/internal/domain/money"
	"github.com/eburton/receiptmatch/internal/domain/order"
	"github.com/eburton/receiptmatch/internal/domain/receipt"
)

// Matcher searches candidate purchase records for one transaction at a
// time. It never mutates the candidate snapshot, so one Matcher may be
// shared across goroutines by an orchestrator that fans out transactions.
type Matcher struct {
	config Config
	logger *slog.Logger
}

// New creates a matcher with the given config.
func New(config Config, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{config: config, logger: logger}
}

// MatchTransaction produces the ranked candidate set for one transaction
// and selects the best match if it clears its method-specific threshold.
//
// A transaction matching zero source records is a normal terminal state:
// the result carries a message instead of a best match.
func (m *Matcher) MatchTransaction(txn ledger.Transaction, cands Candidates) Result {
	result := Result{Transaction: txn}

	isMarketplace := m.config.IsMarketplace != nil && m.config.IsMarketplace(txn)
	isStorefront := m.config.IsStorefront != nil && m.config.IsStorefront(txn)
	if !isMarketplace && !isStorefront {
		result.Message = "not a recognized marketplace or storefront transaction"
		return result
	}

	var units []candidateUnit
	if isMarketplace {
		units = append(units, m.orderUnits(txn, cands.OrdersByAccount[txn.Account])...)
	}
	if isStorefront {
		units = append(units, m.receiptUnits(txn, cands.Receipts)...)
	}

	if len(units) == 0 {
		result.Message = "no candidate within tolerance"
		return result
	}

	// Complete matches: one unit fully covering the transaction. The exact
	// amount gate inside Score drops tolerance-admitted near misses.
	for _, u := range units {
		if !u.completeEligible {
			continue
		}
		method := MethodCompleteOrder
		if u.multiDay {
			method = MethodMultiDay
		}
		conf := Score(txn.Amount, u.total, txn.Date, u.dates, method, u.multiDay)
		if conf > 0 {
			result.Matches = append(result.Matches, u.toMatch(method, conf, txn))
		}
	}

	// Split payments: combinations of units reaching the exact amount.
	// Searched even when a complete match exists so the ranked list shows
	// the alternative, but the complete match wins ties by construction.
	result.Matches = append(result.Matches, m.findSplitPayments(txn, units)...)

	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Confidence > result.Matches[j].Confidence
	})

	for i := range result.Matches {
		if result.Matches[i].Confidence >= m.threshold(result.Matches[i].Method) {
			result.Best = &result.Matches[i]
			break
		}
	}
	if result.Best == nil {
		if len(result.Matches) == 0 {
			result.Message = "no candidate within tolerance"
		} else {
			result.Message = fmt.Sprintf(
				"best candidate confidence %.2f below threshold", result.Matches[0].Confidence)
		}
	}

	return result
}

// threshold returns the minimum confidence a best match must clear.
// Complete matches require a higher bar than split payments.
func (m *Matcher) threshold(method Method) float64 {
	if method == MethodSplitPayment {
		return m.config.SplitPaymentThreshold
	}
	return m.config.CompleteThreshold
}

// orderUnits enumerates marketplace groups near the transaction, at all
// three granularities, inside the configured date window. A group is kept
// when it could cover the whole transaction (total within the candidate
// tolerance) or fund part of it (total below the transaction amount, a
// split-payment combination member).
func (m *Matcher) orderUnits(txn ledger.Transaction, items []order.Item) []candidateUnit {
	if len(items) == 0 {
		return nil
	}

	want := txn.Amount.Abs()

	var units []candidateUnit
	groups := order.AllGroups(items)
	for i := range groups {
		g := groups[i]
		dates := g.ShipDates
		// Unshipped groups fall back to the order date for proximity.
		if len(dates) == 0 {
			dates = []ledger.Date{g.OrderDate}
		}
		if !m.withinWindow(txn.Date, dates) {
			continue
		}
		complete := m.withinTolerance(g.Total, want)
		if !complete && g.Total.Cmp(want) >= 0 {
			continue
		}
		units = append(units, candidateUnit{
			group:            &groups[i],
			account:          txn.Account,
			total:            g.Total,
			dates:            dates,
			multiDay:         g.MultiDay(),
			completeEligible: complete,
		})
	}
	return units
}

// receiptUnits enumerates storefront receipts near the transaction that
// could cover or part-fund it.
func (m *Matcher) receiptUnits(txn ledger.Transaction, receipts []receipt.Receipt) []candidateUnit {
	want := txn.Amount.Abs()

	var units []candidateUnit
	for _, r := range receipts {
		if len(r.Items) == 0 && r.Amount().IsZero() {
			m.logger.Warn("skipping malformed receipt with no items or amounts",
				"receipt_date", r.Date.String())
			continue
		}
		amount := r.Amount()
		complete := m.withinTolerance(amount, want)
		if !complete && amount.Cmp(want) >= 0 {
			continue
		}
		dates := []ledger.Date{r.Date}
		if !m.withinWindow(txn.Date, dates) {
			continue
		}
		rcpt := r
		units = append(units, candidateUnit{
			receipt:          &rcpt,
			account:          txn.Account,
			total:            amount,
			dates:            dates,
			completeEligible: complete,
		})
	}
	return units
}

// withinTolerance reports whether a unit total sits inside the candidate
// tolerance of the target amount.
func (m *Matcher) withinTolerance(total, want money.Money) bool {
	return total.Sub(want).Abs().Cents() <= m.config.AmountToleranceCents
}

// withinWindow reports whether any candidate date falls inside the
// enumeration window around the transaction date.
func (m *Matcher) withinWindow(txnDate ledger.Date, dates []ledger.Date) bool {
	return minDayDiff(txnDate, dates) <= m.config.DateWindowDays
}

// candidateUnit is one purchase unit (a group or a receipt) considered for
// matching, either alone or inside a split-payment combination.
type candidateUnit struct {
	group   *order.Group
	receipt *receipt.Receipt
	account string
	total   money.Money
	dates   []ledger.Date
	// multiDay marks a group spanning more than one ship date.
	multiDay bool
	// completeEligible marks a unit whose total is close enough to the
	// transaction amount to cover it alone. Other units only participate
	// in split-payment combinations.
	completeEligible bool
}

// toMatch materializes a single-unit match.
func (u candidateUnit) toMatch(method Method, confidence float64, txn ledger.Transaction) Match {
	match := Match{
		Method:     method,
		Confidence: confidence,
		Account:    u.account,
		Total:      u.total,
		Unmatched:  txn.Amount.Abs().Sub(u.total),
	}
	if u.group != nil {
		match.Groups = []order.Group{*u.group}
	}
	if u.receipt != nil {
		match.Receipts = []receipt.Receipt{*u.receipt}
	}
	return match
}
