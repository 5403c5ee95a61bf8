package snapshot

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/eburton/receiptmatch/internal/domain/ledger"
	"github.com/eburton/receiptmatch/internal/domain/money"
	"github.com/eburton/receiptmatch/internal/domain/order"
)

// Order-history CSV columns, in export order.
const (
	colOrderID = iota
	colProductID
	colName
	colQuantity
	colUnitPrice
	colTotal
	colOrderDate
	colShipDate
	orderColumns
)

// ReadOrders loads one account's marketplace order-history CSV. Rows that
// fail to parse are logged and skipped so one bad export line does not
// block the rest of the run.
func ReadOrders(path string, logger *slog.Logger) ([]order.Item, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening order snapshot %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = orderColumns

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("reading header from %s: %w", path, err)
	}

	var items []order.Item
	line := 1
	for {
		line++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("skipping unreadable order row",
				slog.String("path", path),
				slog.Int("line", line),
				slog.String("error", err.Error()))
			continue
		}

		item, err := parseOrderRow(record)
		if err != nil {
			logger.Warn("skipping malformed order row",
				slog.String("path", path),
				slog.Int("line", line),
				slog.String("error", err.Error()))
			continue
		}
		items = append(items, item)
	}

	logger.Debug("loaded order snapshot",
		slog.String("path", path),
		slog.Int("items", len(items)))
	return items, nil
}

// ReadOrdersByAccount loads the per-account order CSVs named in the
// snapshot config.
func ReadOrdersByAccount(paths map[string]string, logger *slog.Logger) (map[string][]order.Item, error) {
	byAccount := make(map[string][]order.Item, len(paths))
	for account, path := range paths {
		items, err := ReadOrders(path, logger)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", account, err)
		}
		byAccount[account] = items
	}
	return byAccount, nil
}

func parseOrderRow(record []string) (order.Item, error) {
	if record[colOrderID] == "" {
		return order.Item{}, fmt.Errorf("missing order id")
	}

	quantity, err := strconv.Atoi(record[colQuantity])
	if err != nil {
		return order.Item{}, fmt.Errorf("bad quantity %q: %w", record[colQuantity], err)
	}

	unitPrice, err := money.Parse(record[colUnitPrice])
	if err != nil {
		return order.Item{}, fmt.Errorf("bad unit price %q: %w", record[colUnitPrice], err)
	}

	total, err := money.Parse(record[colTotal])
	if err != nil {
		return order.Item{}, fmt.Errorf("bad total %q: %w", record[colTotal], err)
	}

	orderDate, err := ledger.ParseDate(record[colOrderDate])
	if err != nil {
		return order.Item{}, fmt.Errorf("bad order date %q: %w", record[colOrderDate], err)
	}

	// Ship date is empty for unshipped items.
	var shipTime time.Time
	if record[colShipDate] != "" {
		shipTime, err = time.Parse(time.RFC3339, record[colShipDate])
		if err != nil {
			shipDate, derr := ledger.ParseDate(record[colShipDate])
			if derr != nil {
				return order.Item{}, fmt.Errorf("bad ship date %q: %w", record[colShipDate], err)
			}
			shipTime = shipDate.Time()
		}
	}

	return order.Item{
		OrderID:   record[colOrderID],
		ProductID: record[colProductID],
		Name:      record[colName],
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Total:     total,
		OrderDate: orderDate,
		ShipTime:  shipTime,
	}, nil
}
