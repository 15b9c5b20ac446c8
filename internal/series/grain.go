package series

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidGrain = errors.New("invalid grain")

// Grain is the width of a series bucket.
type Grain string

const (
	GrainWeek    Grain = "week"
	GrainMonth   Grain = "month"
	GrainQuarter Grain = "quarter"
	GrainYear    Grain = "year"
)

var Grains = []Grain{GrainWeek, GrainMonth, GrainQuarter, GrainYear}

func ParseGrain(s string) (Grain, error) {
	g := Grain(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Grains {
		if g == known {
			return g, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidGrain, s)
}

// Next returns the grain after g, wrapping around.
func (g Grain) Next() Grain {
	for i, known := range Grains {
		if known == g {
			return Grains[(i+1)%len(Grains)]
		}
	}

	return GrainMonth
}

// bucketStart returns the first day of the bucket holding the civil date d.
// Weeks start on Monday.
func bucketStart(d time.Time, g Grain) time.Time {
	y, m, day := d.Date()

	switch g {
	case GrainWeek:
		offset := (int(d.Weekday()) + 6) % 7
		return time.Date(y, m, day-offset, 0, 0, 0, 0, time.UTC)
	case GrainQuarter:
		return time.Date(y, ((m-1)/3)*3+1, 1, 0, 0, 0, 0, time.UTC)
	case GrainYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	}
}

// next advances a bucket start to the following bucket.
func next(start time.Time, g Grain) time.Time {
	switch g {
	case GrainWeek:
		return start.AddDate(0, 0, 7)
	case GrainQuarter:
		return start.AddDate(0, 3, 0)
	case GrainYear:
		return start.AddDate(1, 0, 0)
	default:
		return start.AddDate(0, 1, 0)
	}
}

// calendarDate keeps the date t names in its own location.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// civil drops the clock and zone of instant t as seen in loc.
func civil(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
