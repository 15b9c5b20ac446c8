package metrics

import (
	"time"

	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

type SpendingPattern struct {
	Day              time.Weekday
	Amount           int64
	TransactionCount int
}

// SpendingPatterns totals outflows per weekday, Sunday first. All seven days
// are always present.
func SpendingPatterns(txns []transaction.Transaction) []SpendingPattern {
	out := make([]SpendingPattern, 7)
	for d := range out {
		out[d].Day = time.Weekday(d)
	}

	for _, tx := range txns {
		if !tx.IsOutflow() || tx.Date.IsZero() {
			continue
		}

		d := tx.Date.Weekday()
		out[d].Amount += tx.Amount
		out[d].TransactionCount++
	}

	return out
}
