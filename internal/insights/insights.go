// Package insights turns spending aggregates into short, rule based advice.
package insights

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cashflow/internal/metrics"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

type Kind string

const (
	KindOpportunity Kind = "opportunity"
	KindWarning     Kind = "warning"
	KindAchievement Kind = "achievement"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Insight struct {
	ID               string
	Kind             Kind
	Title            string
	Description      string
	PotentialSavings *int64 // minor units
	Category         string
	Actionable       bool
	Priority         Priority
	CreatedAt        time.Time
}

// Thresholds tune when a rule fires. Percentages are of total outflow, the
// savings rate is of income.
type Thresholds struct {
	DiningShare      float64
	ShoppingShare    float64
	Subscriptions    int
	SavingsRate      float64
	SavingsPotential float64
}

var DefaultThresholds = Thresholds{
	DiningShare:      15,
	ShoppingShare:    20,
	Subscriptions:    3,
	SavingsRate:      30,
	SavingsPotential: 0.3,
}

// Generate evaluates the rules in a fixed order: dining, subscriptions,
// shopping, unusual charges, savings rate.
func Generate(txns []transaction.Transaction, categories []metrics.CategorySpending, now time.Time) []Insight {
	return GenerateWith(DefaultThresholds, txns, categories, now)
}

func GenerateWith(th Thresholds, txns []transaction.Transaction, categories []metrics.CategorySpending, now time.Time) []Insight {
	var out []Insight

	potential := func(amount int64) *int64 {
		return new(decimal.NewFromInt(amount).Mul(decimal.NewFromFloat(th.SavingsPotential)).Round(0).IntPart())
	}

	if c, ok := find(categories, "Dining"); ok && c.Percentage > th.DiningShare {
		out = append(out, Insight{
			ID:               "dining",
			Kind:             KindOpportunity,
			Title:            "Reduce dining expenses",
			Description:      fmt.Sprintf("You spend %.1f%% of your budget on dining. Consider meal prepping to save money.", c.Percentage),
			PotentialSavings: potential(c.Amount),
			Category:         c.Category,
			Actionable:       true,
			Priority:         PriorityHigh,
			CreatedAt:        now,
		})
	}

	var (
		subs     int
		subTotal int64
	)

	for _, i := range DetectRecurring(txns) {
		if txns[i].Category == "Subscriptions" {
			subs++
			subTotal += txns[i].Amount
		}
	}

	if subs >= th.Subscriptions {
		out = append(out, Insight{
			ID:               "subscriptions",
			Kind:             KindOpportunity,
			Title:            "Review your subscriptions",
			Description:      fmt.Sprintf("You have %d recurring subscriptions. Cancel unused ones to save money.", subs),
			PotentialSavings: potential(subTotal),
			Category:         "Subscriptions",
			Actionable:       true,
			Priority:         PriorityMedium,
			CreatedAt:        now,
		})
	}

	if c, ok := find(categories, "Shopping"); ok && c.Percentage > th.ShoppingShare {
		out = append(out, Insight{
			ID:          "shopping",
			Kind:        KindWarning,
			Title:       "High shopping expenses",
			Description: fmt.Sprintf("Shopping accounts for %.1f%% of your spending. Set a monthly budget to control costs.", c.Percentage),
			Category:    c.Category,
			Actionable:  true,
			Priority:    PriorityMedium,
			CreatedAt:   now,
		})
	}

	if n := len(DetectUnusual(txns)); n > 0 {
		out = append(out, Insight{
			ID:          "unusual",
			Kind:        KindWarning,
			Title:       "Unusual large transactions detected",
			Description: fmt.Sprintf("Found %d unusually large transactions. Review them to ensure they are expected.", n),
			Priority:    PriorityHigh,
			CreatedAt:   now,
		})
	}

	if rate := metrics.Calculate(txns).SavingsRate; rate > th.SavingsRate {
		out = append(out, Insight{
			ID:          "savings-rate",
			Kind:        KindAchievement,
			Title:       "Excellent savings rate",
			Description: fmt.Sprintf("Your savings rate of %.1f%% is outstanding.", rate),
			Priority:    PriorityLow,
			CreatedAt:   now,
		})
	}

	return out
}

func find(categories []metrics.CategorySpending, name string) (metrics.CategorySpending, bool) {
	for _, c := range categories {
		if c.Category == name {
			return c, true
		}
	}

	return metrics.CategorySpending{}, false
}
