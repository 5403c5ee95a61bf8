// Package splitter decomposes one ledger transaction into per-item
// sub-entries whose amounts sum exactly to the transaction, in integer
// cents.
//
// Two item shapes are supported. Marketplace order items carry
// already-taxed authoritative totals, which become split amounts directly.
// Storefront receipt items carry pre-tax costs with a receipt-level tax
// total, which is allocated proportionally with the remainder landing on
// the last item.
//
// Every computed split list is validated before being returned: the exact
// sum and sign invariants are never silently repaired, because a violation
// means a bug or bad input that must not become a financial artifact.
package splitter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eburton/receiptmatch/internal/domain/allocator"
	"github.com/eburton/receiptmatch/internal/domain/money"
	"github.com/eburton/receiptmatch/internal/domain/order"
	"github.com/eburton/receiptmatch/internal/domain/receipt"
)

// ErrNoItems is returned when asked to split a transaction over nothing.
var ErrNoItems = errors.New("splitter: no items to split")

// residueToleranceCents bounds the discrepancy absorbed into the last
// split. It matches the candidate amount tolerance: a tolerance-admitted
// match can be off by at most this much, so a larger gap means the items
// do not belong to this transaction at all.
const residueToleranceCents = order.DefaultToleranceCents

// CalcError reports a split calculation whose result violated an
// invariant. It is raised, never corrected.
type CalcError struct {
	Reason string
}

func (e *CalcError) Error() string {
	return "split calculation error: " + e.Reason
}

// SplitEdit is one proposed sub-entry of a transaction.
type SplitEdit struct {
	Amount money.Money `json:"amount"`
	Memo   string      `json:"memo"`
}

// FromOrderItems computes splits for marketplace items. Each item's
// authoritative total (tax and shipping already included) becomes its
// split amount, sign-matched to the transaction. Any sub-dollar residue
// left by a tolerance-admitted match is absorbed by the last split so the
// exact-sum invariant holds.
func FromOrderItems(txnAmount money.Money, items []order.Item) ([]SplitEdit, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	amounts := make([]money.Money, len(items))
	for i, it := range items {
		amounts[i] = signedAs(it.Total, txnAmount)
	}
	if err := checkResidue(money.Sum(amounts), txnAmount); err != nil {
		return nil, err
	}
	amounts, err := allocator.Remainder(amounts, txnAmount)
	if err != nil {
		return nil, err
	}

	splits := make([]SplitEdit, len(items))
	for i, it := range items {
		splits[i] = SplitEdit{
			Amount: amounts[i],
			Memo:   orderMemo(it),
		}
	}

	if err := validate(splits, txnAmount); err != nil {
		return nil, err
	}
	return splits, nil
}

// FromReceiptItems computes splits for storefront receipt items. Tax is
// distributed proportionally to item cost using integer floor division;
// the last item receives the exact remainder, which guarantees the sum
// invariant regardless of rounding.
func FromReceiptItems(txnAmount money.Money, items []receipt.Item, subtotal, tax money.Money) ([]SplitEdit, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	costs := make([]money.Money, len(items))
	for i, it := range items {
		costs[i] = it.Cost
	}
	if subtotal.IsZero() {
		subtotal = money.Sum(costs)
	}

	// Each item owes floor(cost*tax/subtotal); the remainder rule pushes
	// whatever the floors dropped onto the last item.
	taxes := make([]money.Money, len(items))
	if !tax.IsZero() && !subtotal.IsZero() {
		for i, cost := range costs {
			taxes[i] = money.FromCents(cost.Cents() * tax.Cents() / subtotal.Cents())
		}
		var err error
		taxes, err = allocator.Remainder(taxes, tax)
		if err != nil {
			return nil, err
		}
	}

	amounts := make([]money.Money, len(items))
	for i := range items {
		amounts[i] = signedAs(costs[i].Add(taxes[i]), txnAmount)
	}
	if err := checkResidue(money.Sum(amounts), txnAmount); err != nil {
		return nil, err
	}
	amounts, err := allocator.Remainder(amounts, txnAmount)
	if err != nil {
		return nil, err
	}

	splits := make([]SplitEdit, len(items))
	for i, it := range items {
		splits[i] = SplitEdit{
			Amount: amounts[i],
			Memo:   receiptMemo(it, taxes[i]),
		}
	}

	if err := validate(splits, txnAmount); err != nil {
		return nil, err
	}
	return splits, nil
}

// signedAs returns amount carrying the same sign as reference.
func signedAs(amount, reference money.Money) money.Money {
	if reference.IsNegative() {
		return amount.Abs().Neg()
	}
	return amount.Abs()
}

// orderMemo builds the sub-entry memo from item name, quantity, and unit
// price.
func orderMemo(it order.Item) string {
	var b strings.Builder
	b.WriteString(it.Name)
	if it.Quantity > 1 {
		fmt.Fprintf(&b, " (x%d @ %s)", it.Quantity, it.UnitPrice)
	}
	return b.String()
}

// receiptMemo builds the sub-entry memo, marking tax inclusion only when
// tax was actually allocated to the item.
func receiptMemo(it receipt.Item, tax money.Money) string {
	var b strings.Builder
	b.WriteString(it.Title)
	if it.Quantity > 1 {
		fmt.Fprintf(&b, " (x%d)", it.Quantity)
	}
	if !tax.IsZero() {
		fmt.Fprintf(&b, " (incl. tax %s)", tax)
	}
	return b.String()
}

// checkResidue rejects item sums that sit further from the transaction
// amount than the candidate tolerance allows. Only the sub-dollar residue
// of a tolerance-admitted match may be absorbed; a larger gap is a
// calculation error, not something to repair.
func checkResidue(itemSum, txnAmount money.Money) error {
	if itemSum.Sub(txnAmount).Abs().Cents() > residueToleranceCents {
		return &CalcError{Reason: fmt.Sprintf(
			"item amounts sum to %s, transaction amount is %s", itemSum, txnAmount)}
	}
	return nil
}

// validate enforces the exact-sum and sign invariants on a computed split
// list. Violations are surfaced as a CalcError, never fixed.
func validate(splits []SplitEdit, txnAmount money.Money) error {
	var sum money.Money
	for _, s := range splits {
		sum = sum.Add(s.Amount)
		if !txnAmount.SameSign(s.Amount) {
			return &CalcError{Reason: fmt.Sprintf(
				"split amount %s has wrong sign for transaction amount %s", s.Amount, txnAmount)}
		}
	}
	if sum != txnAmount {
		return &CalcError{Reason: fmt.Sprintf(
			"splits sum to %s, transaction amount is %s", sum, txnAmount)}
	}
	return nil
}
