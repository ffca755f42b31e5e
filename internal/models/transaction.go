package models

import (
	"github.com/shopspring/decimal"
)

// Transaction is one ledger row prepared for categorization.
type Transaction struct {
	// Row is the 1-based data row in the source sheet (header excluded).
	Row int `json:"row"`
	// Remark is the free-text remark as read from the ledger.
	Remark string `json:"remark"`
	// ExpandedRemark is Remark after abbreviation expansion. It equals
	// Remark when expansion is disabled or changed nothing.
	ExpandedRemark string `json:"expanded_remark"`
	// Amount is parsed from the optional amount column.
	Amount    decimal.Decimal `json:"amount"`
	HasAmount bool            `json:"has_amount"`
	// Fields keeps every source column by header name.
	Fields map[string]string `json:"fields,omitempty"`
}

// Text returns the remark the model should see: the expanded form when
// available, the raw remark otherwise.
func (t Transaction) Text() string {
	if t.ExpandedRemark != "" {
		return t.ExpandedRemark
	}
	return t.Remark
}

// WasExpanded reports whether abbreviation expansion changed the remark.
func (t Transaction) WasExpanded() bool {
	return t.ExpandedRemark != "" && t.ExpandedRemark != t.Remark
}

// TransactionsFromTable builds transactions from a ledger sheet. remarkIdx
// selects the remark column; amountIdx may be -1 when the ledger has no
// amount column.
func TransactionsFromTable(table Table, remarkIdx, amountIdx int) []Transaction {
	txs := make([]Transaction, 0, len(table.Rows))
	for r := range table.Rows {
		fields := make(map[string]string, len(table.Headers))
		for c, h := range table.Headers {
			fields[h] = table.Cell(r, c)
		}
		tx := Transaction{
			Row:    r + 1,
			Remark: table.Cell(r, remarkIdx),
			Fields: fields,
		}
		if amountIdx >= 0 {
			tx.Amount, tx.HasAmount = ParseAmount(table.Cell(r, amountIdx))
		}
		txs = append(txs, tx)
	}
	return txs
}

// Texts returns Text() for every transaction, in order.
func Texts(txs []Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.Text()
	}
	return out
}
