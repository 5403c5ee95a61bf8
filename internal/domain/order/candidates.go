package order

import "github.com/eburton/receiptmatch/internal/domain/money"

// DefaultToleranceCents is how far a group total may sit from the target
// amount and still be offered as a candidate. One dollar absorbs small
// post-purchase pricing adjustments without pulling in unrelated orders.
const DefaultToleranceCents = 100

// AllGroups materializes every grouping of the items at all three
// granularities. The same items appear in several groups (a whole order
// overlaps its own shipments); downstream scoring decides which framing
// fits. Whole-order groups are walked in first-seen order id order rather
// than map order so enumeration stays deterministic.
func AllGroups(items []Item) []Group {
	if len(items) == 0 {
		return nil
	}

	var out []Group
	wholeOrders := GroupByOrder(items)
	for _, orderID := range orderIDs(items) {
		out = append(out, wholeOrders[orderID])
	}
	out = append(out, GroupByShipment(items)...)
	out = append(out, GroupByDay(items)...)
	return out
}

// Candidates enumerates every group, at every granularity, whose total is
// within tolCents of the target's absolute value.
func Candidates(items []Item, target money.Money, tolCents int64) []Group {
	want := target.Abs()
	tol := money.FromCents(tolCents)

	var out []Group
	for _, g := range AllGroups(items) {
		if g.Total.Sub(want).Abs().Cmp(tol) <= 0 {
			out = append(out, g)
		}
	}
	return out
}
