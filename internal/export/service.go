package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cashflow/internal/analytics"
	"github.com/MrJamesThe3rd/cashflow/internal/metrics"
	"github.com/MrJamesThe3rd/cashflow/internal/series"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

// File names written by Export.
const (
	TransactionsFile = "transactions.csv"
	SeriesFile       = "series.csv"
	SummaryFile      = "summary.txt"
)

// Service renders analytics results as CSV files and a plain-text report.
type Service struct {
	analytics *analytics.Service
}

func NewService(a *analytics.Service) *Service {
	return &Service{analytics: a}
}

// Export writes the classified transactions, the series and the summary of q
// into outputDir and returns the written paths.
func (s *Service) Export(ctx context.Context, q analytics.Query, grain series.Grain, outputDir string) ([]string, error) {
	if grain == "" {
		grain = s.analytics.Grain()
	}

	txns, err := s.analytics.Classified(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("classifying transactions: %w", err)
	}

	points, err := s.analytics.Series(ctx, q, grain)
	if err != nil {
		return nil, fmt.Errorf("building series: %w", err)
	}

	m, err := s.analytics.Metrics(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("calculating metrics: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	writers := []struct {
		name  string
		write func(io.Writer) error
	}{
		{TransactionsFile, func(w io.Writer) error { return s.TransactionsCSV(w, txns) }},
		{SeriesFile, func(w io.Writer) error { return s.SeriesCSV(w, points, grain) }},
		{SummaryFile, func(w io.Writer) error {
			_, err := io.WriteString(w, s.Summary(m, points, grain))
			return err
		}},
	}

	paths := make([]string, 0, len(writers))

	for _, wr := range writers {
		path := filepath.Join(outputDir, wr.name)
		if err := writeFile(path, wr.write); err != nil {
			return nil, fmt.Errorf("writing %s: %w", wr.name, err)
		}

		paths = append(paths, path)
	}

	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// TransactionsCSV writes one row per transaction with its classification
// flags. Amounts are signed major units.
func (s *Service) TransactionsCSV(w io.Writer, txns []transaction.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"id", "date", "description", "merchant", "category", "account", "amount", "transfer", "refund"}); err != nil {
		return err
	}

	for _, tx := range txns {
		amount := tx.Amount
		if tx.IsOutflow() {
			amount = -amount
		}

		if err := cw.Write([]string{
			tx.ID.String(),
			tx.Date.Format(time.DateOnly),
			tx.Description,
			tx.Merchant,
			tx.Category,
			tx.Account,
			formatMinor(amount),
			strconv.FormatBool(tx.Flags.Transfer),
			strconv.FormatBool(tx.Flags.Refund),
		}); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// SeriesCSV writes one row per bucket: label, start date, income, expense,
// savings.
func (s *Service) SeriesCSV(w io.Writer, points []series.Point, grain series.Grain) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"period", "start", "income", "expenses", "savings"}); err != nil {
		return err
	}

	for _, p := range points {
		if err := cw.Write([]string{
			series.Label(p.BucketStart, grain),
			p.BucketStart.Format(time.DateOnly),
			formatMinor(p.Income),
			formatMinor(p.Expense),
			formatMinor(p.Savings),
		}); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// Summary renders metrics and the series as a short plain-text report.
func (s *Service) Summary(m metrics.FinancialMetrics, points []series.Point, grain series.Grain) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Income:   %s\n", formatMinor(m.TotalIncome))
	fmt.Fprintf(&sb, "Expenses: %s\n", formatMinor(m.TotalExpenses))
	fmt.Fprintf(&sb, "Net:      %s\n", formatMinor(m.NetSavings))
	fmt.Fprintf(&sb, "Savings rate: %.1f%%\n", m.SavingsRate)
	fmt.Fprintf(&sb, "Monthly net:  %s\n", m.MonthlyNet().Div(decimal.NewFromInt(100)).StringFixed(2))

	if len(points) > 0 {
		sb.WriteString("\n")
	}

	for _, p := range points {
		fmt.Fprintf(&sb, "* %s | +%s | -%s | %s\n",
			series.Label(p.BucketStart, grain),
			formatMinor(p.Income),
			formatMinor(p.Expense),
			formatMinor(p.Savings),
		)
	}

	return sb.String()
}

func formatMinor(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
