package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

// Summary is the combined dashboard view of a transaction list.
type Summary struct {
	Metrics    FinancialMetrics
	MonthlyNet decimal.Decimal
	Goal       *GoalProgress
}

// Summarize computes metrics and, when goal is set, its progress at now.
func Summarize(txns []transaction.Transaction, goal *Goal, now time.Time) Summary {
	m := Calculate(txns)

	s := Summary{
		Metrics:    m,
		MonthlyNet: m.MonthlyNet(),
	}

	if goal != nil {
		s.Goal = new(Progress(*goal, m, now))
	}

	return s
}
