package metrics

import (
	"cmp"
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

// UncategorizedLabel groups outflows without a category.
const UncategorizedLabel = "Other"

type CategorySpending struct {
	Category         string
	Amount           int64
	Percentage       float64
	TransactionCount int
}

// CategoryBreakdown groups outflows by category, largest first. Ties are
// ordered by category name.
func CategoryBreakdown(txns []transaction.Transaction) []CategorySpending {
	index := make(map[string]int)

	var (
		out   []CategorySpending
		total int64
	)

	for _, tx := range txns {
		if !tx.IsOutflow() {
			continue
		}

		name := strings.TrimSpace(tx.Category)
		if name == "" {
			name = UncategorizedLabel
		}

		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, CategorySpending{Category: name})
		}

		out[i].Amount += tx.Amount
		out[i].TransactionCount++
		total += tx.Amount
	}

	for i := range out {
		if total > 0 {
			out[i].Percentage = float64(out[i].Amount) / float64(total) * 100
		}
	}

	slices.SortFunc(out, func(a, b CategorySpending) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}

		return cmp.Compare(a.Category, b.Category)
	})

	return out
}
