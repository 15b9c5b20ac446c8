// Package analytics loads stored transactions and runs the classification,
// series and metrics pipeline over them.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/cashflow/internal/classify"
	"github.com/MrJamesThe3rd/cashflow/internal/insights"
	"github.com/MrJamesThe3rd/cashflow/internal/logger"
	"github.com/MrJamesThe3rd/cashflow/internal/metrics"
	"github.com/MrJamesThe3rd/cashflow/internal/series"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

// Source lists stored transactions. *transaction.Service satisfies it.
type Source interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type Options struct {
	Timezone string
	Grain    series.Grain
	Clock    func() time.Time
}

type Service struct {
	source     Source
	classifier *classify.Classifier
	builder    *series.Builder
	timezone   string
	grain      series.Grain
	now        func() time.Time
}

func NewService(source Source, classifier *classify.Classifier, opts Options) *Service {
	if classifier == nil {
		classifier = classify.New(nil, classify.Options{})
	}

	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	if opts.Grain == "" {
		opts.Grain = series.GrainMonth
	}

	return &Service{
		source:     source,
		classifier: classifier,
		builder:    series.NewBuilder(classifier).WithClock(opts.Clock),
		timezone:   opts.Timezone,
		grain:      opts.Grain,
		now:        opts.Clock,
	}
}

// Query narrows the stored rows an analytics call reads. Zero values mean
// unbounded.
type Query struct {
	Start   time.Time
	End     time.Time
	Account string
}

// Filter converts q into a store filter.
func (q Query) Filter() transaction.ListFilter {
	var f transaction.ListFilter

	if !q.Start.IsZero() {
		f.StartDate = new(q.Start)
	}

	if !q.End.IsZero() {
		f.EndDate = new(q.End)
	}

	if q.Account != "" {
		f.Account = new(q.Account)
	}

	return f
}

func (s *Service) load(ctx context.Context, q Query) ([]transaction.Transaction, error) {
	rows, err := s.source.List(ctx, q.Filter())
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	return transaction.Values(rows), nil
}

// Classified returns the stored rows with transfer and refund flags set.
func (s *Service) Classified(ctx context.Context, q Query) ([]transaction.Transaction, error) {
	txns, err := s.load(ctx, q)
	if err != nil {
		return nil, err
	}

	out := s.classifier.Classify(txns)

	transfers, refunds := classify.Count(out)
	logger.FromContext(ctx).Debug().
		Int("rows", len(out)).
		Int("transfers", transfers).
		Int("refunds", refunds).
		Msg("classified transactions")

	return out, nil
}

// Series buckets the rows of q by grain. An empty grain uses the configured
// default.
func (s *Service) Series(ctx context.Context, q Query, grain series.Grain) ([]series.Point, error) {
	if grain == "" {
		grain = s.grain
	}

	txns, err := s.load(ctx, q)
	if err != nil {
		return nil, err
	}

	points := s.builder.Build(txns, series.Options{
		Grain:    grain,
		Start:    q.Start,
		End:      q.End,
		Timezone: s.timezone,
	})

	logger.FromContext(ctx).Debug().
		Int("rows", len(txns)).
		Str("grain", string(grain)).
		Int("buckets", len(points)).
		Msg("built series")

	return points, nil
}

// Metrics aggregates raw totals. Transfers and refunds are not excluded.
func (s *Service) Metrics(ctx context.Context, q Query) (metrics.FinancialMetrics, error) {
	txns, err := s.load(ctx, q)
	if err != nil {
		return metrics.FinancialMetrics{}, err
	}

	return metrics.Calculate(txns), nil
}

func (s *Service) Categories(ctx context.Context, q Query) ([]metrics.CategorySpending, error) {
	txns, err := s.load(ctx, q)
	if err != nil {
		return nil, err
	}

	return metrics.CategoryBreakdown(txns), nil
}

func (s *Service) Patterns(ctx context.Context, q Query) ([]metrics.SpendingPattern, error) {
	txns, err := s.load(ctx, q)
	if err != nil {
		return nil, err
	}

	return metrics.SpendingPatterns(txns), nil
}

func (s *Service) GoalProgress(ctx context.Context, q Query, goal metrics.Goal) (metrics.GoalProgress, error) {
	m, err := s.Metrics(ctx, q)
	if err != nil {
		return metrics.GoalProgress{}, err
	}

	return metrics.Progress(goal, m, s.now()), nil
}

func (s *Service) Insights(ctx context.Context, q Query) ([]insights.Insight, error) {
	txns, err := s.load(ctx, q)
	if err != nil {
		return nil, err
	}

	return insights.Generate(txns, metrics.CategoryBreakdown(txns), s.now()), nil
}

// Summary combines metrics with an optional goal projection.
func (s *Service) Summary(ctx context.Context, q Query, goal *metrics.Goal) (metrics.Summary, error) {
	txns, err := s.load(ctx, q)
	if err != nil {
		return metrics.Summary{}, err
	}

	return metrics.Summarize(txns, goal, s.now()), nil
}

// Grain reports the default grain used when a call does not name one.
func (s *Service) Grain() series.Grain {
	return s.grain
}
