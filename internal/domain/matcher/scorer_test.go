package matcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eburton/receiptmatch/internal/domain/ledger"
	"github.com/eburton/receiptmatch/internal/domain/money"
)

func aug(day int) ledger.Date {
	return ledger.NewDate(2024, time.August, day)
}

func TestScore_ExactAmountSameDay(t *testing.T) {
	// $45.99 expense, group shipped the same day: near-certain match
	conf := Score(
		money.FromCents(-4599), money.FromCents(4599),
		aug(15), []ledger.Date{aug(15)},
		MethodCompleteOrder, false,
	)
	assert.GreaterOrEqual(t, conf, 0.95)
	assert.LessOrEqual(t, conf, 1.0)
}

func TestScore_TenDaysOut(t *testing.T) {
	conf := Score(
		money.FromCents(-4599), money.FromCents(4599),
		aug(15), []ledger.Date{aug(25)},
		MethodCompleteOrder, false,
	)
	assert.LessOrEqual(t, conf, 0.5)
	assert.Greater(t, conf, 0.0)
}

func TestScore_AmountGate(t *testing.T) {
	// Off by one dollar: zero, no partial credit
	conf := Score(
		money.FromCents(-4599), money.FromCents(4699),
		aug(15), []ledger.Date{aug(15)},
		MethodCompleteOrder, false,
	)
	assert.Equal(t, 0.0, conf)

	// Off by one cent: still zero
	conf = Score(
		money.FromCents(-4599), money.FromCents(4600),
		aug(15), []ledger.Date{aug(15)},
		MethodCompleteOrder, false,
	)
	assert.Equal(t, 0.0, conf)
}

func TestScore_DateMonotonicity(t *testing.T) {
	prev := 1.1
	for days := 0; days <= 30; days++ {
		conf := Score(
			money.FromCents(-4599), money.FromCents(4599),
			aug(1), []ledger.Date{aug(1).AddDays(days)},
			MethodCompleteOrder, false,
		)
		assert.LessOrEqual(t, conf, prev, "confidence must not increase at day gap %d", days)
		prev = conf
	}
}

func TestScore_SmallGapsRetainMostConfidence(t *testing.T) {
	for days := 1; days <= 3; days++ {
		conf := Score(
			money.FromCents(-4599), money.FromCents(4599),
			aug(1), []ledger.Date{aug(1).AddDays(days)},
			MethodCompleteOrder, false,
		)
		assert.GreaterOrEqual(t, conf, 0.8, "small gap of %d days should keep most confidence", days)
	}
}

func TestScore_SplitPaymentScoresBelowComplete(t *testing.T) {
	txn := money.FromCents(-4599)
	total := money.FromCents(4599)
	dates := []ledger.Date{aug(16)}

	complete := Score(txn, total, aug(15), dates, MethodCompleteOrder, false)
	split := Score(txn, total, aug(15), dates, MethodSplitPayment, false)

	assert.Less(t, split, complete)
	assert.Greater(t, split, 0.0)
}

func TestScore_MultiDayBonus(t *testing.T) {
	txn := money.FromCents(-4599)
	total := money.FromCents(4599)
	dates := []ledger.Date{aug(14), aug(16)}

	plain := Score(txn, total, aug(15), dates, MethodCompleteOrder, false)
	bonus := Score(txn, total, aug(15), dates, MethodMultiDay, true)

	assert.Greater(t, bonus, plain)
	assert.LessOrEqual(t, bonus, 1.0)
}

func TestScore_UsesNearestShipDate(t *testing.T) {
	// Group spans two dates; the nearer one drives the score
	near := Score(
		money.FromCents(-4599), money.FromCents(4599),
		aug(15), []ledger.Date{aug(15), aug(25)},
		MethodCompleteOrder, false,
	)
	far := Score(
		money.FromCents(-4599), money.FromCents(4599),
		aug(15), []ledger.Date{aug(25)},
		MethodCompleteOrder, false,
	)
	assert.Greater(t, near, far)
}

func TestScore_NoDatesScoresZero(t *testing.T) {
	conf := Score(
		money.FromCents(-4599), money.FromCents(4599),
		aug(15), nil,
		MethodCompleteOrder, false,
	)
	assert.Equal(t, 0.0, conf)
}

func TestScore_ClampedToUnitInterval(t *testing.T) {
	conf := Score(
		money.FromCents(-4599), money.FromCents(4599),
		aug(15), []ledger.Date{aug(15), aug(16)},
		MethodMultiDay, true,
	)
	assert.LessOrEqual(t, conf, 1.0)
	assert.GreaterOrEqual(t, conf, 0.0)
}
