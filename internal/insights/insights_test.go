package insights_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cashflow/internal/insights"
	"github.com/MrJamesThe3rd/cashflow/internal/metrics"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

func charge(merchant string, amount int64, category string) transaction.Transaction {
	return transaction.Transaction{
		Date:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Merchant:  merchant,
		Amount:    amount,
		Direction: transaction.DirectionOutflow,
		Category:  category,
	}
}

func TestDetectRecurring(t *testing.T) {
	txns := []transaction.Transaction{
		charge("Netflix", 1599, "Subscriptions"),
		charge("Uber", 500, "Transportation"),
		charge("NETFLIX", 1599, "Subscriptions"),
		charge("Uber", 2000, "Transportation"),
		charge("Gym", 4000, "Fitness"),
		charge("Netflix", 1699, "Subscriptions"),
		charge("Uber", 900, "Transportation"),
		charge("Gym", 4000, "Fitness"),
		{Merchant: "Netflix", Amount: 1599, Direction: transaction.DirectionInflow},
	}

	assert.Equal(t, []int{0, 2, 5}, insights.DetectRecurring(txns))
}

func TestDetectRecurring_FallsBackToDescription(t *testing.T) {
	var txns []transaction.Transaction
	for range 3 {
		txns = append(txns, transaction.Transaction{
			Description: "ACH SPOTIFY USA 1234",
			Amount:      999,
			Direction:   transaction.DirectionOutflow,
		})
	}

	assert.Equal(t, []int{0, 1, 2}, insights.DetectRecurring(txns))
}

func TestDetectUnusual(t *testing.T) {
	var txns []transaction.Transaction
	for range 9 {
		txns = append(txns, charge("Cafe", 100, "Dining"))
	}

	txns = append(txns,
		transaction.Transaction{Amount: 50000, Direction: transaction.DirectionInflow},
		charge("Jeweller", 10000, "Shopping"),
	)

	assert.Equal(t, []int{10}, insights.DetectUnusual(txns))
	assert.Empty(t, insights.DetectUnusual(nil))
	assert.Empty(t, insights.DetectUnusual([]transaction.Transaction{charge("A", 5, "")}))
}

func TestGenerate(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name       string
		txns       []transaction.Transaction
		categories []metrics.CategorySpending
		wantIDs    []string
		check      func(t *testing.T, got []insights.Insight)
	}

	var unusual []transaction.Transaction
	for range 9 {
		unusual = append(unusual, charge("Cafe", 100, ""))
	}

	unusual = append(unusual, charge("Jeweller", 10000, ""))

	tests := []testCase{
		{
			name: "Nothing",
		},
		{
			name:       "Dining",
			categories: []metrics.CategorySpending{{Category: "Dining", Amount: 5000, Percentage: 40}},
			wantIDs:    []string{"dining"},
			check: func(t *testing.T, got []insights.Insight) {
				assert.Equal(t, insights.KindOpportunity, got[0].Kind)
				require.NotNil(t, got[0].PotentialSavings)
				assert.Equal(t, int64(1500), *got[0].PotentialSavings)
				assert.Contains(t, got[0].Description, "40.0%")
				assert.Equal(t, now, got[0].CreatedAt)
			},
		},
		{
			name:       "DiningBelowThreshold",
			categories: []metrics.CategorySpending{{Category: "Dining", Amount: 5000, Percentage: 15}},
		},
		{
			name: "Subscriptions",
			txns: []transaction.Transaction{
				charge("Netflix", 1599, "Subscriptions"),
				charge("Netflix", 1599, "Subscriptions"),
				charge("Netflix", 1599, "Subscriptions"),
			},
			wantIDs: []string{"subscriptions"},
			check: func(t *testing.T, got []insights.Insight) {
				require.NotNil(t, got[0].PotentialSavings)
				assert.Equal(t, int64(1439), *got[0].PotentialSavings)
			},
		},
		{
			name:       "Shopping",
			categories: []metrics.CategorySpending{{Category: "Shopping", Amount: 5000, Percentage: 25}},
			wantIDs:    []string{"shopping"},
			check: func(t *testing.T, got []insights.Insight) {
				assert.Equal(t, insights.KindWarning, got[0].Kind)
				assert.Nil(t, got[0].PotentialSavings)
			},
		},
		{
			name:    "Unusual",
			txns:    unusual,
			wantIDs: []string{"unusual"},
		},
		{
			name: "SavingsRate",
			txns: []transaction.Transaction{
				{Amount: 100000, Direction: transaction.DirectionInflow},
				charge("Rent", 10000, "Housing"),
			},
			wantIDs: []string{"savings-rate"},
			check: func(t *testing.T, got []insights.Insight) {
				assert.Equal(t, insights.KindAchievement, got[0].Kind)
				assert.Contains(t, got[0].Description, "90.0%")
			},
		},
		{
			name:       "RuleOrder",
			categories: []metrics.CategorySpending{{Category: "Shopping", Percentage: 50}, {Category: "Dining", Percentage: 50}},
			wantIDs:    []string{"dining", "shopping"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := insights.Generate(tt.txns, tt.categories, now)

			ids := make([]string, 0, len(got))
			for _, in := range got {
				ids = append(ids, in.ID)
			}

			if len(tt.wantIDs) == 0 {
				assert.Empty(t, ids)
				return
			}

			assert.Equal(t, tt.wantIDs, ids)

			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}
