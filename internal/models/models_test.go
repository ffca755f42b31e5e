package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Accessors(t *testing.T) {
	table := Table{
		Headers: []string{"DATE", " REMARK_CLEAN ", "AMOUNT"},
		Rows: [][]string{
			{"2024-01-02", "ck tien dien", "150.000"},
			{"2024-01-03"},
		},
	}

	assert.Equal(t, 1, table.ColumnIndex("REMARK_CLEAN"))
	assert.Equal(t, -1, table.ColumnIndex("MISSING"))
	assert.Equal(t, "ck tien dien", table.Cell(0, 1))
	assert.Equal(t, "", table.Cell(1, 2))
	assert.Equal(t, "", table.Cell(5, 0))
	assert.Equal(t, []string{"2024-01-02", "2024-01-03"}, table.Column(0))
	assert.Len(t, table.Head(1).Rows, 1)
	assert.Len(t, table.Head(10).Rows, 2)
	assert.Equal(t, 3, table.Width())
	assert.False(t, table.IsEmpty())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		present bool
	}{
		{"150.000", "150000", true},
		{"1.234.567", "1234567", true},
		{"1.234.567,89", "1234567.89", true},
		{"1,234,567.89", "1234567.89", true},
		{"12.5", "12.5", true},
		{"12,50", "12.5", true},
		{"-2,000", "-2000", true},
		{"(1,000)", "-1000", true},
		{"250000 VND", "250000", true},
		{"$ 19.99", "19.99", true},
		{"", "0", false},
		{"n/a", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseAmount(tt.raw)
			assert.Equal(t, tt.present, ok)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1500.00", FormatAmount(decimal.NewFromInt(1500), true))
	assert.Equal(t, "", FormatAmount(decimal.Zero, false))
}

func TestTransactionsFromTable(t *testing.T) {
	table := Table{
		Headers: []string{"REMARK_CLEAN", "AMOUNT"},
		Rows: [][]string{
			{"ck tien dien", "150.000"},
			{"mua sach", ""},
		},
	}

	txs := TransactionsFromTable(table, 0, 1)
	require.Len(t, txs, 2)
	assert.Equal(t, 1, txs[0].Row)
	assert.Equal(t, "ck tien dien", txs[0].Remark)
	assert.True(t, txs[0].HasAmount)
	assert.Equal(t, "150000", txs[0].Amount.String())
	assert.Equal(t, "150.000", txs[0].Fields["AMOUNT"])
	assert.False(t, txs[1].HasAmount)

	noAmount := TransactionsFromTable(table, 0, -1)
	assert.False(t, noAmount[0].HasAmount)
}

func TestTransaction_Text(t *testing.T) {
	tx := Transaction{Remark: "ck tien dien"}
	assert.Equal(t, "ck tien dien", tx.Text())
	assert.False(t, tx.WasExpanded())

	tx.ExpandedRemark = "chuyển khoản tien dien"
	assert.Equal(t, "chuyển khoản tien dien", tx.Text())
	assert.True(t, tx.WasExpanded())
	assert.Equal(t, []string{"chuyển khoản tien dien"}, Texts([]Transaction{tx}))
}

func TestResult_CategoryCounts(t *testing.T) {
	r := Result{
		Categories: []string{"Utilities", "Shopping"},
		Categorized: []CategorizedTransaction{
			{Transaction: "a", Category: "Utilities"},
			{Transaction: "b", Category: "Utilities"},
			{Transaction: "c", Category: "Other", Fallback: true},
		},
	}
	counts := r.CategoryCounts()
	assert.Equal(t, 2, counts["Utilities"])
	assert.Equal(t, 1, counts["Other"])
	assert.True(t, r.Categorized[2].IsFallback())
}

func TestCategorizationStats_String(t *testing.T) {
	s := CategorizationStats{Transactions: 3, Categorized: 2, Fallback: 1, Batches: 1, Duration: 1500 * time.Millisecond}
	s.Expansion.Add(ExpansionStats{Tokens: 10, Substituted: 2, LLMResolved: 1})
	assert.Equal(t, "3 transactions, 2 categorized, 1 fallback, 1 batch(es), 3 abbreviation(s) expanded in 1.5s", s.String())
}
