// Package snapshot reads the flat data exports the reconciler works
// from: a budgeting ledger register dump, marketplace order history
// CSVs, and storefront receipt exports. Readers are strict about files
// and soft about rows: a missing file is an error, a malformed row is
// logged and skipped.
package snapshot

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/eburton/receiptmatch/internal/domain/ledger"
	"github.com/eburton/receiptmatch/internal/domain/money"
)

// ledgerRecord is the raw register row. Amounts are milliunits
// (1000 = $1), the budgeting tool's native unit.
type ledgerRecord struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Amount   int64  `json:"amount"`
	Payee    string `json:"payee"`
	Account  string `json:"account"`
	Memo     string `json:"memo"`
	Category string `json:"category"`
}

// ReadLedger loads a ledger register export and converts amounts from
// milliunits to cents.
func ReadLedger(path string, logger *slog.Logger) ([]ledger.Transaction, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ledger snapshot %s: %w", path, err)
	}

	var records []ledgerRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing ledger snapshot %s: %w", path, err)
	}

	txns := make([]ledger.Transaction, 0, len(records))
	for i, rec := range records {
		if rec.ID == "" {
			logger.Warn("skipping ledger record without id", slog.Int("index", i))
			continue
		}
		date, err := ledger.ParseDate(rec.Date)
		if err != nil {
			logger.Warn("skipping ledger record with bad date",
				slog.String("id", rec.ID),
				slog.String("date", rec.Date))
			continue
		}
		txns = append(txns, ledger.Transaction{
			ID:       rec.ID,
			Date:     date,
			Amount:   money.FromMilliunits(rec.Amount),
			Payee:    rec.Payee,
			Account:  rec.Account,
			Memo:     rec.Memo,
			Category: rec.Category,
		})
	}

	logger.Debug("loaded ledger snapshot",
		slog.String("path", path),
		slog.Int("transactions", len(txns)))
	return txns, nil
}
