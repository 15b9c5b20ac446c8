package analytics

import (
	"time"

	"github.com/MrJamesThe3rd/cashflow/internal/insights"
	"github.com/MrJamesThe3rd/cashflow/internal/metrics"
	"github.com/MrJamesThe3rd/cashflow/internal/series"
)

type pointResponse struct {
	Label       string `json:"label"`
	BucketStart string `json:"bucket_start"`
	Income      int64  `json:"income"`
	Expense     int64  `json:"expense"`
	Savings     int64  `json:"savings"`
}

type seriesResponse struct {
	Grain  series.Grain    `json:"grain"`
	Points []pointResponse `json:"points"`
}

func toSeriesResponse(points []series.Point, g series.Grain) seriesResponse {
	resp := seriesResponse{Grain: g, Points: make([]pointResponse, len(points))}
	for i, p := range points {
		resp.Points[i] = pointResponse{
			Label:       series.Label(p.BucketStart, g),
			BucketStart: p.BucketStart.Format(time.DateOnly),
			Income:      p.Income,
			Expense:     p.Expense,
			Savings:     p.Savings,
		}
	}

	return resp
}

type metricsResponse struct {
	TotalIncome          int64   `json:"total_income"`
	TotalExpenses        int64   `json:"total_expenses"`
	NetSavings           int64   `json:"net_savings"`
	SavingsRate          float64 `json:"savings_rate"`
	AverageDailySpending float64 `json:"average_daily_spending"`
	MonthlyIncome        float64 `json:"monthly_income"`
	MonthlyExpenses      float64 `json:"monthly_expenses"`
	Days                 int64   `json:"days"`
}

func toMetricsResponse(m metrics.FinancialMetrics) metricsResponse {
	return metricsResponse{
		TotalIncome:          m.TotalIncome,
		TotalExpenses:        m.TotalExpenses,
		NetSavings:           m.NetSavings,
		SavingsRate:          m.SavingsRate,
		AverageDailySpending: m.AverageDailySpending.Round(2).InexactFloat64(),
		MonthlyIncome:        m.MonthlyIncome.Round(2).InexactFloat64(),
		MonthlyExpenses:      m.MonthlyExpenses.Round(2).InexactFloat64(),
		Days:                 m.Days,
	}
}

type categoryResponse struct {
	Category         string  `json:"category"`
	Amount           int64   `json:"amount"`
	Percentage       float64 `json:"percentage"`
	TransactionCount int     `json:"transaction_count"`
}

func toCategoryResponses(cats []metrics.CategorySpending) []categoryResponse {
	out := make([]categoryResponse, len(cats))
	for i, c := range cats {
		out[i] = categoryResponse(c)
	}

	return out
}

type patternResponse struct {
	Day              string `json:"day"`
	Amount           int64  `json:"amount"`
	TransactionCount int    `json:"transaction_count"`
}

func toPatternResponses(patterns []metrics.SpendingPattern) []patternResponse {
	out := make([]patternResponse, len(patterns))
	for i, p := range patterns {
		out[i] = patternResponse{Day: p.Day.String(), Amount: p.Amount, TransactionCount: p.TransactionCount}
	}

	return out
}

type insightResponse struct {
	ID               string            `json:"id"`
	Kind             insights.Kind     `json:"kind"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	PotentialSavings *int64            `json:"potential_savings,omitempty"`
	Category         string            `json:"category,omitempty"`
	Actionable       bool              `json:"actionable"`
	Priority         insights.Priority `json:"priority"`
	CreatedAt        time.Time         `json:"created_at"`
}

func toInsightResponses(in []insights.Insight) []insightResponse {
	out := make([]insightResponse, len(in))
	for i, x := range in {
		out[i] = insightResponse(x)
	}

	return out
}

type goalResponse struct {
	CurrentAmount          int64      `json:"current_amount"`
	TargetAmount           int64      `json:"target_amount"`
	ProgressPercentage     float64    `json:"progress_percentage"`
	MonthsToGoal           *float64   `json:"months_to_goal"`
	ProjectedCompletion    *time.Time `json:"projected_completion"`
	MonthsUntilDeadline    float64    `json:"months_until_deadline"`
	RequiredMonthlySavings float64    `json:"required_monthly_savings"`
	ConfidenceScore        float64    `json:"confidence_score"`
	IsOnTrack              bool       `json:"is_on_track"`
}

// toGoalResponse reports an unreachable goal as a null months_to_goal.
func toGoalResponse(p metrics.GoalProgress) goalResponse {
	resp := goalResponse{
		CurrentAmount:          p.CurrentAmount,
		TargetAmount:           p.TargetAmount,
		ProgressPercentage:     p.ProgressPercentage,
		ProjectedCompletion:    p.ProjectedCompletion,
		MonthsUntilDeadline:    p.MonthsUntilDeadline,
		RequiredMonthlySavings: p.RequiredMonthlySavings.Round(2).InexactFloat64(),
		ConfidenceScore:        p.ConfidenceScore,
		IsOnTrack:              p.IsOnTrack,
	}

	if p.Reachable() {
		resp.MonthsToGoal = new(p.MonthsToGoal)
	}

	return resp
}

type summaryResponse struct {
	Metrics    metricsResponse `json:"metrics"`
	MonthlyNet float64         `json:"monthly_net"`
	Goal       *goalResponse   `json:"goal,omitempty"`
}
