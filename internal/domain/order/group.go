package order

import (
	"sort"
	"time"

	"github.com/eburton/receiptmatch/internal/domain/ledger"
	"github.com/eburton/receiptmatch/internal/domain/money"
)

// Granularity selects how order items are clustered into purchase groups.
type Granularity int

const (
	// ByOrder merges every item of an order into one group regardless of
	// ship date.
	ByOrder Granularity = iota
	// ByShipment groups items shipped at the identical instant; different
	// timestamps on the same day stay separate.
	ByShipment
	// ByDay merges items shipped on the same calendar date, keeping the
	// distinct timestamps observed.
	ByDay
)

// String returns the tag used in proposal records and logs.
func (g Granularity) String() string {
	switch g {
	case ByOrder:
		return "order"
	case ByShipment:
		return "shipment"
	case ByDay:
		return "day"
	default:
		return "unknown"
	}
}

// Group is a materialized cluster of items at one granularity.
// Invariant: Total == sum of item Totals. Items keep their source order so
// memo generation downstream is stable.
type Group struct {
	OrderID     string        `json:"order_id"`
	Items       []Item        `json:"items"`
	Total       money.Money   `json:"total"`
	OrderDate   ledger.Date   `json:"order_date"`
	ShipDates   []ledger.Date `json:"ship_dates"`           // distinct, ascending
	ShipTimes   []time.Time   `json:"ship_times,omitempty"` // distinct instants, ByDay only
	Granularity Granularity   `json:"granularity"`
}

// MultiDay reports whether the group spans more than one distinct ship date.
func (g Group) MultiDay() bool {
	return len(g.ShipDates) > 1
}

// GroupByOrder clusters items into one group per order identifier. Input may
// span several orders; output is keyed by order id. Empty input yields an
// empty map.
func GroupByOrder(items []Item) map[string]Group {
	groups := make(map[string]Group, len(items))
	for _, orderID := range orderIDs(items) {
		groups[orderID] = buildGroup(orderID, itemsOf(items, orderID), ByOrder)
	}
	return groups
}

// GroupByShipment clusters items into one group per (order id, exact ship
// instant) pair. Unshipped items of an order form their own group.
func GroupByShipment(items []Item) []Group {
	var groups []Group
	for _, orderID := range orderIDs(items) {
		orderItems := itemsOf(items, orderID)

		var instants []time.Time
		seen := make(map[time.Time]bool)
		for _, it := range orderItems {
			if !seen[it.ShipTime] {
				seen[it.ShipTime] = true
				instants = append(instants, it.ShipTime)
			}
		}
		sort.Slice(instants, func(i, j int) bool { return instants[i].Before(instants[j]) })

		for _, instant := range instants {
			var shipped []Item
			for _, it := range orderItems {
				if it.ShipTime.Equal(instant) {
					shipped = append(shipped, it)
				}
			}
			groups = append(groups, buildGroup(orderID, shipped, ByShipment))
		}
	}
	return groups
}

// GroupByDay clusters items into one group per (order id, ship calendar
// date) pair, merging same-day shipments and recording the distinct
// timestamps observed.
func GroupByDay(items []Item) []Group {
	var groups []Group
	for _, orderID := range orderIDs(items) {
		orderItems := itemsOf(items, orderID)

		var days []ledger.Date
		seen := make(map[string]bool)
		for _, it := range orderItems {
			key := it.ShipDate().String()
			if !seen[key] {
				seen[key] = true
				days = append(days, it.ShipDate())
			}
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

		for _, day := range days {
			var shipped []Item
			for _, it := range orderItems {
				if it.ShipDate().Equal(day) {
					shipped = append(shipped, it)
				}
			}
			g := buildGroup(orderID, shipped, ByDay)
			g.ShipTimes = distinctTimes(shipped)
			groups = append(groups, g)
		}
	}
	return groups
}

// buildGroup assembles a group from items that already belong together.
func buildGroup(orderID string, items []Item, granularity Granularity) Group {
	g := Group{
		OrderID:     orderID,
		Items:       items,
		Granularity: granularity,
	}
	for _, it := range items {
		g.Total = g.Total.Add(it.Total)
		if g.OrderDate.IsZero() || it.OrderDate.Before(g.OrderDate) {
			g.OrderDate = it.OrderDate
		}
	}
	g.ShipDates = distinctShipDates(items)
	return g
}

// orderIDs returns the distinct order identifiers in first-seen order.
func orderIDs(items []Item) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, it := range items {
		if !seen[it.OrderID] {
			seen[it.OrderID] = true
			ids = append(ids, it.OrderID)
		}
	}
	return ids
}

// itemsOf filters items belonging to one order, keeping source order.
func itemsOf(items []Item, orderID string) []Item {
	var out []Item
	for _, it := range items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out
}

// distinctShipDates returns the deduplicated ship dates, ascending.
// Unshipped items contribute nothing.
func distinctShipDates(items []Item) []ledger.Date {
	var dates []ledger.Date
	seen := make(map[string]bool)
	for _, it := range items {
		if !it.Shipped() {
			continue
		}
		d := it.ShipDate()
		if !seen[d.String()] {
			seen[d.String()] = true
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// distinctTimes returns the deduplicated ship instants, ascending.
func distinctTimes(items []Item) []time.Time {
	var times []time.Time
	seen := make(map[time.Time]bool)
	for _, it := range items {
		if it.Shipped() && !seen[it.ShipTime] {
			seen[it.ShipTime] = true
			times = append(times, it.ShipTime)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times
}
