package metrics

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// UnreachableMonths is reported as MonthsToGoal when nothing is being saved.
// It is a marker, not a duration.
const UnreachableMonths = 999

// Goal is a savings target supplied by the caller. Amounts are minor units.
type Goal struct {
	Name          string
	TargetAmount  int64
	CurrentAmount int64
	Deadline      time.Time
}

type GoalProgress struct {
	CurrentAmount          int64
	TargetAmount           int64
	ProgressPercentage     float64
	MonthsToGoal           float64
	ProjectedCompletion    *time.Time // nil when unreachable
	MonthsUntilDeadline    float64
	RequiredMonthlySavings decimal.Decimal
	ConfidenceScore        float64
	IsOnTrack              bool
}

// Reachable reports whether MonthsToGoal is a real projection.
func (p GoalProgress) Reachable() bool {
	return p.MonthsToGoal != UnreachableMonths
}

// Progress projects goal against the saving pace in m as seen at now.
func Progress(goal Goal, m FinancialMetrics, now time.Time) GoalProgress {
	fraction := 1.0
	if goal.TargetAmount > 0 {
		fraction = math.Min(1, float64(goal.CurrentAmount)/float64(goal.TargetAmount))
	}

	remaining := decimal.NewFromInt(max(0, goal.TargetAmount-goal.CurrentAmount))
	monthly := m.MonthlyNet()

	p := GoalProgress{
		CurrentAmount:       goal.CurrentAmount,
		TargetAmount:        goal.TargetAmount,
		ProgressPercentage:  fraction * 100,
		MonthsToGoal:        UnreachableMonths,
		MonthsUntilDeadline: goal.Deadline.Sub(now).Hours() / 24 / daysPerMonth,
	}

	if monthly.IsPositive() {
		p.MonthsToGoal = remaining.Div(monthly).InexactFloat64()
		p.ProjectedCompletion = new(now.AddDate(0, int(math.Ceil(p.MonthsToGoal)), 0))
	}

	if p.MonthsUntilDeadline > 0 {
		p.RequiredMonthlySavings = remaining.Div(decimal.NewFromFloat(p.MonthsUntilDeadline))
	}

	p.IsOnTrack = p.Reachable() && p.MonthsToGoal <= p.MonthsUntilDeadline

	consistency := 0.0
	if m.SavingsRate > 0 {
		consistency = 1
	}

	p.ConfidenceScore = math.Min(100, (consistency*0.6+fraction*0.4)*100)

	return p
}
