package matcher

import (
	"github.com/eburton/receiptmatch/internal/domain/ledger"
	"github.com/eburton/receiptmatch/internal/domain/money"
)

// Scoring shape: amount correctness is a hard gate, date distance is the
// continuous signal, match topology is a secondary tie-breaker.
const (
	// dateDecayPerDay is subtracted from confidence for each day between
	// the transaction and the nearest ship date. 10 days out lands at 0.5.
	dateDecayPerDay = 0.05
	// splitPaymentFactor discounts split-payment matches relative to a
	// complete match at the same amount/date fit.
	splitPaymentFactor = 0.92
	// multiDayBonus rewards groups spanning several ship dates that still
	// land an exact amount: less likely to be coincidence.
	multiDayBonus = 0.05
)

// Score computes a confidence in [0, 1] for pairing a transaction with a
// candidate whose combined total is groupTotal.
//
// The amount gate is exact: retail totals are exact, so a one-cent
// discrepancy means the grouping is wrong, not that the match is fuzzy.
// Candidates failing the gate score 0.0 with no partial credit.
func Score(
	txnAmount money.Money,
	groupTotal money.Money,
	txnDate ledger.Date,
	shipDates []ledger.Date,
	method Method,
	multiDay bool,
) float64 {
	if txnAmount.Abs() != groupTotal.Abs() {
		return 0.0
	}

	confidence := 1.0 - dateDecayPerDay*float64(minDayDiff(txnDate, shipDates))
	if confidence < 0 {
		confidence = 0
	}

	if method == MethodSplitPayment {
		confidence *= splitPaymentFactor
	}

	if multiDay {
		confidence += multiDayBonus
	}

	return clamp01(confidence)
}

// minDayDiff returns the smallest absolute day distance between the
// transaction date and any candidate date. An empty date list counts as
// maximally distant.
func minDayDiff(txnDate ledger.Date, dates []ledger.Date) int {
	if len(dates) == 0 {
		return int(^uint(0) >> 1)
	}
	min := txnDate.DaysBetween(dates[0])
	for _, d := range dates[1:] {
		if diff := txnDate.DaysBetween(d); diff < min {
			min = diff
		}
	}
	return min
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
