// Package allocator provides exact-cents proportional allocation.
//
// Shares are computed with integer floor division and the last element
// receives the exact remainder, so results always sum to the target total
// with no floating-point drift:
//
//	share_i = total * weight_i / sum(weights)   (floored, all but last)
//	share_last = total - sum(previous shares)
//
// The same remainder-to-last rule is exposed separately for correcting a
// list of amounts that should sum to a known total but, after prior
// rounding, does not quite.
package allocator

import (
	"errors"

	"github.com/eburton/receiptmatch/internal/domain/money"
)

// ErrNoElements is returned when there is nothing to allocate over.
var ErrNoElements = errors.New("allocator: no elements")

// Proportional distributes total across len(weights) shares proportionally
// to the weights. All shares except the last are floor(total*w/sumw); the
// last takes the exact remainder so the result sums to total.
//
// Zero weights are allowed and receive zero (plus any remainder if last).
// If every weight is zero, the entire total lands on the last element.
func Proportional(weights []money.Money, total money.Money) ([]money.Money, error) {
	if len(weights) == 0 {
		return nil, ErrNoElements
	}

	var sumWeights int64
	for _, w := range weights {
		sumWeights += w.Cents()
	}

	shares := make([]money.Money, len(weights))
	var allocated money.Money
	for i, w := range weights[:len(weights)-1] {
		var share money.Money
		if sumWeights != 0 {
			share = money.FromCents(total.Cents() * w.Cents() / sumWeights)
		}
		shares[i] = share
		allocated = allocated.Add(share)
	}
	shares[len(shares)-1] = total.Sub(allocated)

	return shares, nil
}

// Remainder returns a copy of amounts adjusted so the list sums exactly to
// total. Only the last element changes; all others are returned as-is.
func Remainder(amounts []money.Money, total money.Money) ([]money.Money, error) {
	if len(amounts) == 0 {
		return nil, ErrNoElements
	}

	adjusted := make([]money.Money, len(amounts))
	copy(adjusted, amounts)

	diff := total.Sub(money.Sum(amounts))
	last := len(adjusted) - 1
	adjusted[last] = adjusted[last].Add(diff)

	return adjusted, nil
}
