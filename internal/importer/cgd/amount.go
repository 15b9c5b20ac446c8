package cgd

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

// parseEuropeanAmount reads "1.234,56" as 1234.56 and "-588,74" as -588.74.
func parseEuropeanAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	return decimal.NewFromString(clean)
}

// amountCell renders a non-zero European amount cell with a dot separator.
func amountCell(row []string, idx int) (string, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return "", false
	}

	d, err := parseEuropeanAmount(s)
	if err != nil || d.IsZero() {
		return "", false
	}

	return d.StringFixed(2), true
}

// fillAmount copies the row's amount into rec. It reports false for rows
// that move no money.
func (p Profile) fillAmount(cols colIndex, row []string, rec *transaction.RawRecord) bool {
	if p.Layout == signedColumn {
		s, ok := amountCell(row, cols[p.Amount])
		rec.Amount = s

		return ok
	}

	if s, ok := amountCell(row, cols[p.Debit]); ok {
		rec.Debit = s
		return true
	}

	if s, ok := amountCell(row, cols[p.Credit]); ok {
		rec.Credit = s
		return true
	}

	return false
}

func (p Profile) fillBalance(cols colIndex, row []string, rec *transaction.RawRecord) {
	idx := cols.lookup(p.Balance)
	if idx < 0 {
		return
	}

	if b, err := parseEuropeanAmount(cellValue(row, idx)); err == nil {
		rec.Balance = b.StringFixed(2)
	}
}
