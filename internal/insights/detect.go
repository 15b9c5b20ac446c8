package insights

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/MrJamesThe3rd/cashflow/internal/matching"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

const (
	// minRecurring is the number of charges from one merchant that makes a
	// series recurring.
	minRecurring = 3

	// recurringSpread bounds the mean absolute deviation of a recurring
	// series, relative to its mean.
	recurringSpread = 0.2

	// unusualSigma is how many standard deviations above the mean an outflow
	// must be to count as unusual.
	unusualSigma = 2
)

// DetectRecurring returns the indices, ascending, of outflows charged by the
// same merchant at least three times with amounts that stay close to their
// mean.
func DetectRecurring(txns []transaction.Transaction) []int {
	groups := make(map[string][]int)

	var order []string

	for i, tx := range txns {
		if !tx.IsOutflow() {
			continue
		}

		key := merchantKey(tx)
		if key == "" {
			continue
		}

		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}

		groups[key] = append(groups[key], i)
	}

	recurring := make([]bool, len(txns))

	for _, key := range order {
		idx := groups[key]
		if len(idx) < minRecurring {
			continue
		}

		amounts := make([]float64, len(idx))
		for j, i := range idx {
			amounts[j] = float64(txns[i].Amount)
		}

		mean := stat.Mean(amounts, nil)

		var deviation float64
		for _, a := range amounts {
			deviation += math.Abs(a - mean)
		}

		deviation /= float64(len(amounts))

		if deviation < mean*recurringSpread {
			for _, i := range idx {
				recurring[i] = true
			}
		}
	}

	return indices(recurring)
}

// DetectUnusual returns the indices, ascending, of outflows larger than the
// population mean plus two standard deviations of all outflows.
func DetectUnusual(txns []transaction.Transaction) []int {
	var (
		amounts []float64
		idx     []int
	)

	for i, tx := range txns {
		if tx.IsOutflow() {
			amounts = append(amounts, float64(tx.Amount))
			idx = append(idx, i)
		}
	}

	if len(amounts) == 0 {
		return nil
	}

	mean, std := stat.PopMeanStdDev(amounts, nil)
	limit := mean + unusualSigma*std

	var out []int

	for j, a := range amounts {
		if a > limit {
			out = append(out, idx[j])
		}
	}

	return out
}

func merchantKey(tx transaction.Transaction) string {
	m := tx.Merchant
	if m == "" {
		m = matching.ExtractMerchant(tx.Description)
	}

	return strings.ToLower(strings.TrimSpace(m))
}

func indices(mask []bool) []int {
	var out []int

	for i, set := range mask {
		if set {
			out = append(out, i)
		}
	}

	return out
}
