package snapshot

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/eburton/receiptmatch/internal/domain/receipt"
)

// ReadReceipts loads a storefront receipt export. Receipts with no items
// and no stated amounts carry no matchable information and are skipped.
func ReadReceipts(path string, logger *slog.Logger) ([]receipt.Receipt, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading receipt snapshot %s: %w", path, err)
	}

	var receipts []receipt.Receipt
	if err := json.Unmarshal(data, &receipts); err != nil {
		return nil, fmt.Errorf("parsing receipt snapshot %s: %w", path, err)
	}

	kept := receipts[:0]
	for i, r := range receipts {
		if r.Amount().IsZero() {
			logger.Warn("skipping receipt with no amount", slog.Int("index", i))
			continue
		}
		kept = append(kept, r)
	}

	logger.Debug("loaded receipt snapshot",
		slog.String("path", path),
		slog.Int("receipts", len(kept)))
	return kept, nil
}
