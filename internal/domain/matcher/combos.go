package matcher

import (
	"github.com/eburton/receiptmatch/internal/domain/ledger"
	"github.com/eburton/receiptmatch/internal/domain/money"
	"github.com/eburton/receiptmatch/internal/domain/order"
)

// findSplitPayments searches combinations of 2..MaxComboSize candidate
// units whose totals sum exactly to the transaction amount. The search is
// bounded, not exhaustive over all subsets: the pool is capped at
// MaxComboCandidates units, all already scoped to the same account and the
// narrow date window by enumeration.
func (m *Matcher) findSplitPayments(txn ledger.Transaction, units []candidateUnit) []Match {
	if len(units) < 2 || m.config.MaxComboSize < 2 {
		return nil
	}

	// Combination members are whole purchase units: whole-order groups and
	// receipts. Shipment/day slices of an order are framings of a single
	// charge, not co-funders of one, and admitting them would only produce
	// duplicate combinations of the same money.
	var pool []candidateUnit
	for _, u := range units {
		if u.group != nil && u.group.Granularity != order.ByOrder {
			continue
		}
		if u.total.Cmp(money.Zero) <= 0 {
			continue
		}
		pool = append(pool, u)
	}
	if limit := m.config.MaxComboCandidates; limit > 0 && len(pool) > limit {
		pool = pool[:limit]
	}

	target := txn.Amount.Abs()

	var matches []Match
	var combo []int
	var search func(start int, sum money.Money)
	search = func(start int, sum money.Money) {
		if len(combo) >= 2 && sum == target {
			matches = append(matches, m.comboMatch(txn, pool, combo))
			return
		}
		if len(combo) == m.config.MaxComboSize || sum.Cmp(target) >= 0 {
			return
		}
		for i := start; i < len(pool); i++ {
			// Units built from the same order id overlap; combining them
			// would count items twice.
			if overlaps(pool, combo, i) {
				continue
			}
			combo = append(combo, i)
			search(i+1, sum.Add(pool[i].total))
			combo = combo[:len(combo)-1]
		}
	}
	search(0, money.Zero)

	return matches
}

// overlaps reports whether pool[next] shares an order id with any unit
// already in the combination.
func overlaps(pool []candidateUnit, combo []int, next int) bool {
	ng := pool[next].group
	if ng == nil {
		return false
	}
	for _, idx := range combo {
		if g := pool[idx].group; g != nil && g.OrderID == ng.OrderID {
			return true
		}
	}
	return false
}

// comboMatch materializes a split-payment match from combination indexes.
// The unmatched remainder is zero by construction.
func (m *Matcher) comboMatch(txn ledger.Transaction, pool []candidateUnit, combo []int) Match {
	match := Match{
		Method:  MethodSplitPayment,
		Account: txn.Account,
	}

	var dates []ledger.Date
	daySet := make(map[string]bool)
	for _, idx := range combo {
		u := pool[idx]
		match.Total = match.Total.Add(u.total)
		if u.group != nil {
			match.Groups = append(match.Groups, *u.group)
		}
		if u.receipt != nil {
			match.Receipts = append(match.Receipts, *u.receipt)
		}
		for _, d := range u.dates {
			if !daySet[d.String()] {
				daySet[d.String()] = true
				dates = append(dates, d)
			}
		}
	}

	multiDay := len(dates) > 1
	match.Confidence = Score(txn.Amount, match.Total, txn.Date, dates, MethodSplitPayment, multiDay)
	match.Unmatched = txn.Amount.Abs().Sub(match.Total)
	return match
}
