package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eburton/receiptmatch/internal/domain/ledger"
	"github.com/eburton/receiptmatch/internal/domain/money"
	"github.com/eburton/receiptmatch/internal/domain/order"
)

func multiDayGroup() order.Group {
	items := []order.Item{
		marketItem("111-222", "Keyboard", 4599, shipAt(15, 8)),
		marketItem("111-222", "Mouse", 1999, shipAt(16, 9)),
	}
	return order.GroupByOrder(items)["111-222"]
}

func TestFindMultiTransaction_AllChargesFound(t *testing.T) {
	m := New(testConfig(), nil)
	group := multiDayGroup()

	txns := []ledger.Transaction{
		expense("t1", -4599, 15, "Marketplace Order", "Checking"),
		expense("t2", -1999, 16, "Marketplace Order", "Checking"),
		expense("t3", -899, 15, "Corner Coffee", "Checking"),
	}

	result, err := m.FindMultiTransaction(
		group,
		[]money.Money{money.FromCents(4599), money.FromCents(1999)},
		txns,
		map[string]bool{},
	)
	require.NoError(t, err)
	assert.True(t, result.AllFound)
	require.Len(t, result.Matches, 2)
	assert.Equal(t, "t1", result.Matches[0].Transaction.ID)
	assert.Equal(t, "t2", result.Matches[1].Transaction.ID)
}

func TestFindMultiTransaction_MissingCharge(t *testing.T) {
	m := New(testConfig(), nil)
	group := multiDayGroup()

	txns := []ledger.Transaction{
		expense("t1", -4599, 15, "Marketplace Order", "Checking"),
	}

	result, err := m.FindMultiTransaction(
		group,
		[]money.Money{money.FromCents(4599), money.FromCents(1999)},
		txns,
		map[string]bool{},
	)
	require.NoError(t, err)
	assert.False(t, result.AllFound)
	require.Len(t, result.Matches, 2)
	assert.NotNil(t, result.Matches[0])
	assert.Nil(t, result.Matches[1])
}

func TestFindMultiTransaction_NoTransactionReuse(t *testing.T) {
	m := New(testConfig(), nil)
	group := order.GroupByOrder([]order.Item{
		marketItem("111-222", "Widget A", 1999, shipAt(15, 8)),
		marketItem("111-222", "Widget B", 1999, shipAt(16, 9)),
	})["111-222"]

	// Only one ledger transaction for two identical charge amounts
	txns := []ledger.Transaction{
		expense("t1", -1999, 15, "Marketplace Order", "Checking"),
	}

	result, err := m.FindMultiTransaction(
		group,
		[]money.Money{money.FromCents(1999), money.FromCents(1999)},
		txns,
		map[string]bool{},
	)
	require.NoError(t, err)
	assert.False(t, result.AllFound)
	assert.NotNil(t, result.Matches[0])
	assert.Nil(t, result.Matches[1])
}

func TestFindMultiTransaction_SkipsUsedTransactions(t *testing.T) {
	m := New(testConfig(), nil)
	group := multiDayGroup()

	txns := []ledger.Transaction{
		expense("t1", -4599, 15, "Marketplace Order", "Checking"),
		expense("t2", -1999, 16, "Marketplace Order", "Checking"),
	}

	result, err := m.FindMultiTransaction(
		group,
		[]money.Money{money.FromCents(4599), money.FromCents(1999)},
		txns,
		map[string]bool{"t1": true},
	)
	require.NoError(t, err)
	assert.False(t, result.AllFound)
	assert.Nil(t, result.Matches[0])
	assert.NotNil(t, result.Matches[1])
}

func TestFindMultiTransaction_SumValidation(t *testing.T) {
	m := New(testConfig(), nil)
	group := multiDayGroup() // totals 6598

	txns := []ledger.Transaction{
		expense("t1", -4599, 15, "Marketplace Order", "Checking"),
	}

	// A single charge that matches a transaction but not the group total
	_, err := m.FindMultiTransaction(
		group,
		[]money.Money{money.FromCents(4599)},
		txns,
		map[string]bool{},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match group total")
}

func TestFindMultiTransaction_InvalidInputs(t *testing.T) {
	m := New(testConfig(), nil)
	group := multiDayGroup()

	_, err := m.FindMultiTransaction(group, nil, nil, nil)
	assert.Error(t, err)

	_, err = m.FindMultiTransaction(group, []money.Money{money.FromCents(-100)}, nil, map[string]bool{})
	assert.Error(t, err)
}
