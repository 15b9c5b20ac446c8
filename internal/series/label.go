package series

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Label renders a bucket start for display: "Jan 02" for weeks, "Jan 2006"
// for months, "Q1 2006" for quarters and "2006" for years.
func Label(bucketStart time.Time, g Grain) string {
	switch g {
	case GrainMonth:
		return bucketStart.Format("Jan 2006")
	case GrainQuarter:
		return fmt.Sprintf("Q%d %d", (int(bucketStart.Month())-1)/3+1, bucketStart.Year())
	case GrainYear:
		return bucketStart.Format("2006")
	default:
		return bucketStart.Format("Jan 02")
	}
}

// ChartPoint is a Point in major units, labelled for plotting.
type ChartPoint struct {
	Name     string  `json:"name"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Savings  float64 `json:"savings"`
}

func ToChart(points []Point, g Grain) []ChartPoint {
	out := make([]ChartPoint, len(points))
	for i, p := range points {
		out[i] = ChartPoint{
			Name:     Label(p.BucketStart, g),
			Income:   Major(p.Income),
			Expenses: Major(p.Expense),
			Savings:  Major(p.Savings),
		}
	}

	return out
}

// Major converts minor units to a major-unit float for display.
func Major(minor int64) float64 {
	return decimal.New(minor, -2).InexactFloat64()
}
