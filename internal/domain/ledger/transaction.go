package ledger

import "github.com/eburton/receiptmatch/internal/domain/money"

// Transaction is one entry from the budgeting ledger's register export.
// Amounts are signed cents: negative is an expense. Transactions are
// read-only to the matching engine; splitting proposes new sub-entries and
// never mutates the original.
type Transaction struct {
	ID       string      `json:"id"`
	Date     Date        `json:"date"`
	Amount   money.Money `json:"amount"`
	Payee    string      `json:"payee"`
	Account  string      `json:"account"`
	Memo     string      `json:"memo,omitempty"`
	Category string      `json:"category,omitempty"`
}

// IsExpense reports whether the transaction is an outflow.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}
