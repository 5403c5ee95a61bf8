package recon

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eburton/receiptmatch/internal/domain/ledger"
	"github.com/eburton/receiptmatch/internal/domain/matcher"
	"github.com/eburton/receiptmatch/internal/domain/money"
	"github.com/eburton/receiptmatch/internal/domain/order"
	"github.com/eburton/receiptmatch/internal/domain/receipt"
	"github.com/eburton/receiptmatch/internal/infrastructure/config"
	"github.com/eburton/receiptmatch/internal/infrastructure/storage"
)

func testConfig() matcher.Config {
	cfg := matcher.DefaultConfig()
	cfg.IsMarketplace = PayeePredicate([]string{"amazon"})
	cfg.IsStorefront = PayeePredicate([]string{"steam"})
	return cfg
}

func testStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func marketplaceTxn(id string, cents int64, date ledger.Date) ledger.Transaction {
	return ledger.Transaction{
		ID:      id,
		Date:    date,
		Amount:  money.FromCents(cents),
		Payee:   "Amazon",
		Account: "Chase Freedom",
	}
}

func TestPayeePredicate(t *testing.T) {
	pred := PayeePredicate([]string{"amazon", "amzn"})

	assert.True(t, pred(ledger.Transaction{Payee: "Amazon.com"}))
	assert.True(t, pred(ledger.Transaction{Payee: "AMZN Mktp US"}))
	assert.False(t, pred(ledger.Transaction{Payee: "Whole Foods"}))
	assert.False(t, PayeePredicate(nil)(ledger.Transaction{Payee: "Amazon"}))
}

func TestMatcherConfig_DefaultsAndOverrides(t *testing.T) {
	cfg := MatcherConfig(config.MatchingConfig{DateWindowDays: 7}, config.SourcesConfig{
		Marketplace: config.SourceConfig{PayeePatterns: []string{"amazon"}},
		Storefront:  config.SourceConfig{PayeePatterns: []string{"steam"}},
	})

	assert.Equal(t, 7, cfg.DateWindowDays)
	assert.Equal(t, int64(100), cfg.AmountToleranceCents)
	assert.Equal(t, 0.75, cfg.CompleteThreshold)
	assert.True(t, cfg.IsMarketplace(ledger.Transaction{Payee: "Amazon"}))
	assert.True(t, cfg.IsStorefront(ledger.Transaction{Payee: "Steam Games"}))
}

func TestRun_CompleteOrderMatch(t *testing.T) {
	date := ledger.NewDate(2025, time.March, 10)
	cands := matcher.Candidates{
		OrdersByAccount: map[string][]order.Item{
			"Chase Freedom": {
				{
					OrderID:   "112-001",
					Name:      "USB Cable",
					Quantity:  1,
					UnitPrice: money.FromCents(2599),
					Total:     money.FromCents(2599),
					OrderDate: date,
					ShipTime:  date.Time(),
				},
				{
					OrderID:   "112-001",
					Name:      "Phone Stand",
					Quantity:  1,
					UnitPrice: money.FromCents(2000),
					Total:     money.FromCents(2000),
					OrderDate: date,
					ShipTime:  date.Time(),
				},
			},
		},
	}
	txns := []ledger.Transaction{marketplaceTxn("txn-1", -4599, date)}

	store := testStore(t)
	o := New(testConfig(), store, nil)

	result, err := o.Run(context.Background(), txns, cands, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.TransactionCount)
	assert.Equal(t, 1, result.MatchedCount)
	assert.Equal(t, 0, result.UnmatchedCount)
	require.Len(t, result.Proposals, 1)

	p := result.Proposals[0]
	assert.Equal(t, "complete_order", p.Method)
	assert.Equal(t, storage.StatusProposed, p.Status)
	require.Len(t, p.Splits, 2)
	assert.Equal(t, money.FromCents(-4599), p.Splits[0].Amount.Add(p.Splits[1].Amount))

	// Persisted for review.
	saved, err := store.ListProposals(storage.ProposalFilter{RunID: result.RunID})
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestRun_SkipsUnrecognizedPayees(t *testing.T) {
	txns := []ledger.Transaction{
		{ID: "txn-1", Payee: "Whole Foods", Amount: money.FromCents(-5000), Date: ledger.NewDate(2025, time.March, 10)},
	}

	o := New(testConfig(), nil, nil)
	result, err := o.Run(context.Background(), txns, matcher.Candidates{}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.SkippedCount)
	assert.Equal(t, 0, result.MatchedCount)
	assert.Empty(t, result.Proposals)
}

func TestRun_NoMatchProposal(t *testing.T) {
	date := ledger.NewDate(2025, time.March, 10)
	txns := []ledger.Transaction{marketplaceTxn("txn-1", -4599, date)}

	store := testStore(t)
	o := New(testConfig(), store, nil)

	result, err := o.Run(context.Background(), txns, matcher.Candidates{}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.UnmatchedCount)
	require.Len(t, result.Proposals, 1)
	assert.Equal(t, storage.StatusNoMatch, result.Proposals[0].Status)
	assert.NotEmpty(t, result.Proposals[0].Message)
}

func TestRun_DryRunDoesNotPersistProposals(t *testing.T) {
	date := ledger.NewDate(2025, time.March, 10)
	cands := matcher.Candidates{
		Receipts: []receipt.Receipt{
			{
				Items:    []receipt.Item{{Title: "Game A", Cost: money.FromCents(1999), Quantity: 1}},
				Subtotal: money.FromCents(1999),
				Tax:      money.FromCents(165),
				Total:    money.FromCents(2164),
				Date:     date,
			},
		},
	}
	txns := []ledger.Transaction{
		{ID: "txn-1", Date: date, Amount: money.FromCents(-2164), Payee: "Steam Games", Account: "Chase Freedom"},
	}

	store := testStore(t)
	o := New(testConfig(), store, nil)

	result, err := o.Run(context.Background(), txns, cands, Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.MatchedCount)
	require.Len(t, result.Proposals, 1)

	saved, err := store.ListProposals(storage.ProposalFilter{})
	require.NoError(t, err)
	assert.Empty(t, saved)

	// The run itself is still recorded.
	run, err := store.GetRun(result.RunID)
	require.NoError(t, err)
	assert.True(t, run.DryRun)
	assert.Equal(t, 1, run.MatchedCount)
}

func TestRun_MultiTransactionSecondPass(t *testing.T) {
	orderDate := ledger.NewDate(2025, time.March, 1)
	items := []order.Item{
		{
			OrderID:   "112-007",
			Name:      "Desk Lamp",
			Quantity:  1,
			UnitPrice: money.FromCents(2599),
			Total:     money.FromCents(2599),
			OrderDate: orderDate,
			ShipTime:  orderDate.Time(),
		},
		{
			OrderID:   "112-007",
			Name:      "Bookshelf",
			Quantity:  1,
			UnitPrice: money.FromCents(2000),
			Total:     money.FromCents(2000),
			OrderDate: orderDate,
			ShipTime:  orderDate.AddDays(4).Time(),
		},
	}
	cands := matcher.Candidates{
		OrdersByAccount: map[string][]order.Item{"Chase Freedom": items},
	}

	// Ten days out: inside a 30-day window but scored well below the
	// complete-order threshold, so the first pass leaves both unexplained.
	cfg := testConfig()
	cfg.DateWindowDays = 30
	txns := []ledger.Transaction{
		marketplaceTxn("txn-ship-1", -2599, orderDate.AddDays(10)),
		marketplaceTxn("txn-ship-2", -2000, orderDate.AddDays(14)),
	}

	o := New(cfg, nil, nil)
	result, err := o.Run(context.Background(), txns, cands, Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.MatchedCount)
	assert.Equal(t, 0, result.UnmatchedCount)
	require.Len(t, result.Proposals, 2)
	for _, p := range result.Proposals {
		assert.Equal(t, "multi_day", p.Method)
		assert.Equal(t, storage.StatusProposed, p.Status)
		require.Len(t, p.Splits, 1)
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := New(testConfig(), nil, nil)
	_, err := o.Run(ctx, []ledger.Transaction{marketplaceTxn("txn-1", -100, ledger.NewDate(2025, time.March, 10))}, matcher.Candidates{}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
