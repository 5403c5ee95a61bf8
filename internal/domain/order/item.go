// Package order models marketplace order line items and their grouping
// into candidate purchase units.
//
// A single card charge can correspond to a whole order, to one shipment of
// an order, or to everything an order shipped on one calendar day, so the
// same flat item list is grouped at three granularities when enumerating
// match candidates.
package order

import (
	"time"

	"github.com/eburton/receiptmatch/internal/domain/ledger"
	"github.com/eburton/receiptmatch/internal/domain/money"
)

// Item is one line item from the marketplace order-history export.
// Total is authoritative: it already includes this item's share of tax and
// shipping, so group totals are sums of Totals rather than qty*unit price.
type Item struct {
	OrderID   string      `json:"order_id"`
	ProductID string      `json:"product_id"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	UnitPrice money.Money `json:"unit_price"`
	Total     money.Money `json:"total"`
	OrderDate ledger.Date `json:"order_date"`
	ShipTime  time.Time   `json:"ship_time,omitempty"` // zero if not yet shipped
}

// Shipped reports whether the item has a ship timestamp.
func (i Item) Shipped() bool {
	return !i.ShipTime.IsZero()
}

// ShipDate returns the calendar date of the ship timestamp, or the zero
// date for unshipped items.
func (i Item) ShipDate() ledger.Date {
	if !i.Shipped() {
		return ledger.Date{}
	}
	return ledger.DateOf(i.ShipTime)
}
