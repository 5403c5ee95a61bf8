package receipt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eburton/receiptmatch/internal/domain/ledger"
	"github.com/eburton/receiptmatch/internal/domain/money"
)

func TestAmount_PrefersStatedTotal(t *testing.T) {
	r := Receipt{
		Items:    []Item{{Title: "Space Sim Deluxe", Cost: money.FromCents(1999)}},
		Subtotal: money.FromCents(1999),
		Tax:      money.FromCents(198),
		Total:    money.FromCents(2197),
		Date:     ledger.NewDate(2024, time.August, 15),
	}
	assert.Equal(t, money.FromCents(2197), r.Amount())
}

func TestAmount_FallsBackToSubtotalPlusTax(t *testing.T) {
	// Some receipt formats omit the grand total
	r := Receipt{
		Items:    []Item{{Title: "Puzzle Pack", Cost: money.FromCents(999)}},
		Subtotal: money.FromCents(999),
		Tax:      money.FromCents(99),
	}
	assert.Equal(t, money.FromCents(1098), r.Amount())
}

func TestAmount_FallsBackToItemSum(t *testing.T) {
	r := Receipt{
		Items: []Item{
			{Title: "Puzzle Pack", Cost: money.FromCents(999)},
			{Title: "Soundtrack", Cost: money.FromCents(499)},
		},
	}
	assert.Equal(t, money.FromCents(1498), r.Amount())
}

func TestItemSubtotal(t *testing.T) {
	r := Receipt{
		Items:    []Item{{Title: "Puzzle Pack", Cost: money.FromCents(999)}},
		Subtotal: money.FromCents(1000), // stated subtotal wins
	}
	assert.Equal(t, money.FromCents(1000), r.ItemSubtotal())

	r.Subtotal = money.Zero
	assert.Equal(t, money.FromCents(999), r.ItemSubtotal())
}
