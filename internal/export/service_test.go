package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cashflow/internal/analytics"
	"github.com/MrJamesThe3rd/cashflow/internal/export"
	"github.com/MrJamesThe3rd/cashflow/internal/metrics"
	"github.com/MrJamesThe3rd/cashflow/internal/series"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

func row(desc string, date time.Time, amount int64, dir transaction.Direction, account string) *transaction.Transaction {
	tx := transaction.Transaction{Date: date, Description: desc, Amount: amount, Direction: dir, Account: account}
	tx.ID = transaction.DeriveID(tx)

	return &tx
}

func newService(t *testing.T, rows []*transaction.Transaction) *export.Service {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(rows, nil).AnyTimes()

	a := analytics.NewService(transaction.NewService(repo, nil), nil, analytics.Options{
		Clock: func() time.Time { return time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC) },
	})

	return export.NewService(a)
}

func TestService_Export(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	rows := []*transaction.Transaction{
		row("PAYROLL", jan, 100000, transaction.DirectionInflow, "Checking"),
		row("Transfer to Savings", jan, 20000, transaction.DirectionOutflow, "Checking"),
		row("Transfer from Checking", jan, 20000, transaction.DirectionInflow, "Savings"),
	}

	dir := t.TempDir()
	q := analytics.Query{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	paths, err := newService(t, rows).Export(context.Background(), q, series.GrainMonth, dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	f, err := os.Open(filepath.Join(dir, export.TransactionsFile))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"2024-01-10", "Transfer to Savings", "-200.00", "true", "false"},
		[]string{records[2][1], records[2][2], records[2][6], records[2][7], records[2][8]})

	seriesCSV, err := os.ReadFile(filepath.Join(dir, export.SeriesFile))
	require.NoError(t, err)
	assert.Contains(t, string(seriesCSV), "Jan 2024,2024-01-01,1000.00,0.00,1000.00")

	summary, err := os.ReadFile(filepath.Join(dir, export.SummaryFile))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "* Jan 2024 | +1000.00 | -0.00 | 1000.00")
}

func TestService_SeriesCSV(t *testing.T) {
	var buf bytes.Buffer

	points := []series.Point{
		{BucketStart: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), Income: 5000, Expense: 7550, Savings: -2550},
	}

	require.NoError(t, newService(t, nil).SeriesCSV(&buf, points, series.GrainQuarter))
	assert.Equal(t, "period,start,income,expenses,savings\nQ2 2024,2024-04-01,50.00,75.50,-25.50\n", buf.String())
}

func TestService_Summary(t *testing.T) {
	m := metrics.Calculate([]transaction.Transaction{
		*row("Hosting", time.Date(2023, 10, 27, 0, 0, 0, 0, time.UTC), 1250, transaction.DirectionOutflow, ""),
		*row("Salary", time.Date(2023, 10, 27, 0, 0, 0, 0, time.UTC), 5000, transaction.DirectionInflow, ""),
	})

	body := newService(t, nil).Summary(m, nil, series.GrainMonth)

	for _, sub := range []string{
		"Income:   50.00",
		"Expenses: 12.50",
		"Net:      37.50",
		"Savings rate: 75.0%",
	} {
		assert.Contains(t, body, sub)
	}
}
