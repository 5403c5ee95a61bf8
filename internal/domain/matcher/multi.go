package matcher

import (
	"fmt"

	"github.com/eburton/receiptmatch/internal/domain/ledger"
	"github.com/eburton/receiptmatch/internal/domain/money"
	"github.com/eburton/receiptmatch/internal/domain/order"
)

// TransactionMatch pairs one charge amount with the ledger transaction
// funding it.
type TransactionMatch struct {
	Transaction ledger.Transaction
	Amount      money.Money
	DayDiff     int
	Confidence  float64
}

// MultiResult holds the outcome of matching one purchase group against
// several ledger transactions (the inverse of a split payment: the retailer
// charged the card once per shipment).
type MultiResult struct {
	Group order.Group
	// Matches aligns with the charge amounts passed in; nil entries mean
	// no transaction was found for that amount.
	Matches  []*TransactionMatch
	AllFound bool
}

// FindMultiTransaction finds one distinct transaction per charge amount for
// a group that was billed in several charges. Transactions already claimed
// in usedIDs are skipped, and no transaction is used twice within one call.
// When every amount is matched the combined sum is validated against the
// group total.
func (m *Matcher) FindMultiTransaction(
	group order.Group,
	amounts []money.Money,
	txns []ledger.Transaction,
	usedIDs map[string]bool,
) (*MultiResult, error) {
	if len(amounts) == 0 {
		return nil, fmt.Errorf("no charge amounts provided")
	}

	result := &MultiResult{
		Group:    group,
		Matches:  make([]*TransactionMatch, 0, len(amounts)),
		AllFound: true,
	}

	matchedThisRound := make(map[string]bool)

	for i, amount := range amounts {
		if amount.Cmp(money.Zero) <= 0 {
			return nil, fmt.Errorf("invalid charge amount at index %d: %s (must be positive)", i, amount)
		}

		match := m.bestTransactionForAmount(amount, group, txns, usedIDs, matchedThisRound)
		if match != nil {
			matchedThisRound[match.Transaction.ID] = true
			result.Matches = append(result.Matches, match)
		} else {
			result.AllFound = false
			// Keep index alignment with amounts
			result.Matches = append(result.Matches, nil)
		}
	}

	if result.AllFound {
		if err := validateMultiSum(result, group.Total); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// bestTransactionForAmount scans for the closest-dated expense transaction
// with the exact charge amount.
func (m *Matcher) bestTransactionForAmount(
	amount money.Money,
	group order.Group,
	txns []ledger.Transaction,
	usedIDs map[string]bool,
	matchedThisRound map[string]bool,
) *TransactionMatch {
	dates := group.ShipDates
	if len(dates) == 0 {
		dates = []ledger.Date{group.OrderDate}
	}

	var best *TransactionMatch
	for i := range txns {
		txn := txns[i]
		if usedIDs[txn.ID] || matchedThisRound[txn.ID] {
			continue
		}
		// Charges are expenses; skip inflows.
		if !txn.Amount.IsNegative() {
			continue
		}
		if txn.Amount.Abs() != amount {
			continue
		}

		dayDiff := minDayDiff(txn.Date, dates)
		if dayDiff > m.config.DateWindowDays {
			continue
		}

		if best == nil || dayDiff < best.DayDiff {
			best = &TransactionMatch{
				Transaction: txn,
				Amount:      amount,
				DayDiff:     dayDiff,
				Confidence:  Score(txn.Amount, amount, txn.Date, dates, MethodCompleteOrder, group.MultiDay()),
			}
		}
	}
	return best
}

// validateMultiSum ensures the matched charges sum exactly to the group
// total. Exact integer cents, no tolerance.
func validateMultiSum(result *MultiResult, groupTotal money.Money) error {
	var sum money.Money
	for i, match := range result.Matches {
		if match == nil {
			return fmt.Errorf("cannot validate sum with missing match at index %d", i)
		}
		sum = sum.Add(match.Transaction.Amount.Abs())
	}

	if sum != groupTotal {
		return fmt.Errorf("charge sum %s does not match group total %s", sum, groupTotal)
	}
	return nil
}
