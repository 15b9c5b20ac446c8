package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

func TestSummarize(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

	txs := []transaction.Transaction{
		{Date: day(12), Amount: 4599, Direction: transaction.DirectionOutflow, Category: "Groceries"},
		{Date: day(1), Amount: 250000, Direction: transaction.DirectionInflow, Category: "Income"},
		{Date: day(20), Amount: 1200, Direction: transaction.DirectionOutflow},
	}

	s := summarize(txs)

	assert.Equal(t, 3, s.rows)
	assert.Equal(t, int64(250000), s.inflow)
	assert.Equal(t, int64(5799), s.outflow)
	assert.Equal(t, day(1), s.first)
	assert.Equal(t, day(20), s.last)
	assert.Equal(t, 1, s.uncategorized)
	assert.Contains(t, s.String(), "3 rows from 2024-03-01 to 2024-03-20")

	rows := previewRows(txs)
	assert.Equal(t, "-45.99", rows[0][1])
	assert.Equal(t, "2500.00", rows[1][1])
}

func TestSummarize_Empty(t *testing.T) {
	s := summarize(nil)

	assert.Zero(t, s.rows)
	assert.Contains(t, s.String(), "no transactions")
}
