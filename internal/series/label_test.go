package series_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cashflow/internal/series"
)

func TestLabel(t *testing.T) {
	type testCase struct {
		grain series.Grain
		start time.Time
		want  string
	}

	tests := []testCase{
		{grain: series.GrainWeek, start: day(2024, 1, 8), want: "Jan 08"},
		{grain: series.GrainMonth, start: day(2024, 3, 1), want: "Mar 2024"},
		{grain: series.GrainQuarter, start: day(2024, 4, 1), want: "Q2 2024"},
		{grain: series.GrainQuarter, start: day(2024, 10, 1), want: "Q4 2024"},
		{grain: series.GrainYear, start: day(2025, 1, 1), want: "2025"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, series.Label(tt.start, tt.grain))
		})
	}
}

func TestToChart(t *testing.T) {
	points := []series.Point{
		{BucketStart: day(2024, 3, 1), Income: 100000, Expense: 12345, Savings: 87655},
		{BucketStart: day(2024, 4, 1), Income: 0, Expense: 50, Savings: -50},
	}

	got := series.ToChart(points, series.GrainMonth)
	require.Len(t, got, 2)

	assert.Equal(t, "Mar 2024", got[0].Name)
	assert.InDelta(t, 1000.0, got[0].Income, 1e-9)
	assert.InDelta(t, 123.45, got[0].Expenses, 1e-9)
	assert.InDelta(t, 876.55, got[0].Savings, 1e-9)
	assert.InDelta(t, -0.5, got[1].Savings, 1e-9)
}
