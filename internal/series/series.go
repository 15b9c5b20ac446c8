package series

import (
	"time"

	"github.com/MrJamesThe3rd/cashflow/internal/classify"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

// Options select the window and bucket width of a series. Start and End are
// inclusive calendar dates, read in their own location. A zero End means
// today in Timezone and a zero Start means one year before End. Timezone
// also labels the bucket starts.
type Options struct {
	Grain    Grain
	Start    time.Time
	End      time.Time
	Timezone string
}

// Point holds the totals of one bucket in minor units. Expense is already net
// of refunds.
type Point struct {
	BucketStart time.Time
	Income      int64
	Expense     int64
	Savings     int64
}

type Builder struct {
	classifier *classify.Classifier
	now        func() time.Time
}

func NewBuilder(classifier *classify.Classifier) *Builder {
	if classifier == nil {
		classifier = classify.New(nil, classify.Options{})
	}

	return &Builder{classifier: classifier, now: time.Now}
}

// WithClock replaces the clock used to default an empty window.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build aggregates txns into one point per bucket between opts.Start and
// opts.End. Pending rows and transfers are ignored; refunds are netted
// against the expenses of the bucket they land in. Every bucket of the
// window is present, zero filled.
func (b *Builder) Build(txns []transaction.Transaction, opts Options) []Point {
	loc := location(opts.Timezone)

	grain := opts.Grain
	if grain == "" {
		grain = GrainMonth
	}

	last := calendarDate(opts.End)
	if opts.End.IsZero() {
		last = civil(b.now(), loc)
	}

	first := calendarDate(opts.Start)
	if opts.Start.IsZero() {
		first = last.AddDate(-1, 0, 0)
	}

	if first.After(last) {
		return []Point{}
	}

	var inRange []transaction.Transaction

	for _, tx := range txns {
		if tx.IsPending || tx.Date.Before(first) || tx.Date.After(last) {
			continue
		}

		inRange = append(inRange, tx)
	}

	type totals struct {
		income, expense, refund int64
	}

	var keys []time.Time

	index := make(map[time.Time]int)

	for k := bucketStart(first, grain); !k.After(last); k = next(k, grain) {
		index[k] = len(keys)
		keys = append(keys, k)
	}

	acc := make([]totals, len(keys))

	for _, tx := range b.classifier.Classify(inRange) {
		if tx.Flags.Transfer {
			continue
		}

		i, ok := index[bucketStart(tx.Date, grain)]
		if !ok {
			continue
		}

		switch {
		case tx.IsInflow() && tx.Flags.Refund:
			acc[i].refund += tx.Amount
		case tx.IsInflow():
			acc[i].income += tx.Amount
		case tx.IsOutflow():
			acc[i].expense += tx.Amount
		}
	}

	points := make([]Point, len(keys))
	for i, k := range keys {
		net := max(0, acc[i].expense-acc[i].refund)

		points[i] = Point{
			BucketStart: time.Date(k.Year(), k.Month(), k.Day(), 0, 0, 0, 0, loc),
			Income:      acc[i].income,
			Expense:     net,
			Savings:     acc[i].income - net,
		}
	}

	return points
}

func location(name string) *time.Location {
	if name == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}

	return loc
}
