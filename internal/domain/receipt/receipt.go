// Package receipt models digital-storefront purchase receipts as parsed
// from exported receipt emails.
package receipt

import (
	"github.com/eburton/receiptmatch/internal/domain/ledger"
	"github.com/eburton/receiptmatch/internal/domain/money"
)

// Item is one line on a storefront receipt. Cost is pre-tax; tax is carried
// at the receipt level and allocated proportionally when splitting.
type Item struct {
	Title        string      `json:"title"`
	Cost         money.Money `json:"cost"`
	Quantity     int         `json:"quantity"`
	Subscription bool        `json:"subscription,omitempty"`
}

// Receipt is one storefront receipt. Depending on the email format the
// subtotal, tax, or total may be absent, in which case the field is zero.
type Receipt struct {
	Items    []Item      `json:"items"`
	Subtotal money.Money `json:"subtotal"`
	Tax      money.Money `json:"tax"`
	Total    money.Money `json:"total"`
	Date     ledger.Date `json:"date"`
}

// Amount returns the best available charge amount for matching: the stated
// total when present, otherwise subtotal plus tax, otherwise the item sum.
func (r Receipt) Amount() money.Money {
	if !r.Total.IsZero() {
		return r.Total
	}
	if !r.Subtotal.IsZero() {
		return r.Subtotal.Add(r.Tax)
	}
	var sum money.Money
	for _, it := range r.Items {
		sum = sum.Add(it.Cost)
	}
	return sum.Add(r.Tax)
}

// ItemSubtotal returns the stated subtotal, falling back to the item sum
// when the receipt format omitted it.
func (r Receipt) ItemSubtotal() money.Money {
	if !r.Subtotal.IsZero() {
		return r.Subtotal
	}
	var sum money.Money
	for _, it := range r.Items {
		sum = sum.Add(it.Cost)
	}
	return sum
}
