package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	BeginImport(ctx context.Context, minDate, maxDate time.Time) (ImportTx, error)
}

type ImportTx interface {
	FindExisting(ctx context.Context, ids []uuid.UUID) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo       Repository
	normalizer *Normalizer
}

func NewService(repo Repository, normalizer *Normalizer) *Service {
	if normalizer == nil {
		normalizer = NewNormalizer(DefaultAccount)
	}

	return &Service{repo: repo, normalizer: normalizer}
}

type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Account   *string
}

// Normalize exposes the service's normalizer to collaborators that need a
// preview of what would be stored.
func (s *Service) Normalize(raws []RawRecord) []Transaction {
	return s.normalizer.NormalizeAll(raws)
}

func (s *Service) Create(ctx context.Context, raw RawRecord) (*Transaction, error) {
	tx := s.normalizer.Normalize(raw)
	if err := s.repo.CreateTransaction(ctx, &tx); err != nil {
		return nil, err
	}

	return &tx, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) Update(ctx context.Context, tx *Transaction) error {
	return s.repo.UpdateTransaction(ctx, tx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

type ImportResult struct {
	Imported  []*Transaction
	New       []Transaction
	Conflicts []Conflict
}

// Conflict pairs an incoming row with an already stored transaction that has
// the same derived id.
type Conflict struct {
	Incoming Transaction
	Existing *Transaction
}

// ImportBatch normalizes raws and stores them unless some of them are already
// present. When conflicts exist nothing is written and the caller decides
// which rows to keep through CreateBatch.
func (s *Service) ImportBatch(ctx context.Context, raws []RawRecord) (*ImportResult, error) {
	if len(raws) == 0 {
		return &ImportResult{}, nil
	}

	incoming := s.normalizer.NormalizeAll(raws)
	minDate, maxDate := dateRange(incoming)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	ids := make([]uuid.UUID, len(incoming))
	for i, tx := range incoming {
		ids[i] = tx.ID
	}

	existing, err := itx.FindExisting(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find existing: %w", err)
	}

	lookup := make(map[uuid.UUID]*Transaction, len(existing))
	for _, e := range existing {
		lookup[e.ID] = e
	}

	var fresh []Transaction

	var conflicts []Conflict

	for _, tx := range incoming {
		if e, found := lookup[tx.ID]; found {
			conflicts = append(conflicts, Conflict{Incoming: tx, Existing: e})
			continue
		}

		fresh = append(fresh, tx)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: fresh, Conflicts: conflicts}, nil
	}

	txs := toPointers(fresh)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: txs}, nil
}

// CreateBatch stores raws without duplicate detection.
func (s *Service) CreateBatch(ctx context.Context, raws []RawRecord) ([]*Transaction, error) {
	if len(raws) == 0 {
		return nil, nil
	}

	incoming := s.normalizer.NormalizeAll(raws)
	minDate, maxDate := dateRange(incoming)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	txs := toPointers(incoming)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return txs, nil
}

func dateRange(txs []Transaction) (time.Time, time.Time) {
	minDate := txs[0].Date
	maxDate := txs[0].Date

	for _, tx := range txs[1:] {
		if tx.Date.Before(minDate) {
			minDate = tx.Date
		}

		if tx.Date.After(maxDate) {
			maxDate = tx.Date
		}
	}

	return minDate, maxDate
}

func toPointers(txs []Transaction) []*Transaction {
	out := make([]*Transaction, len(txs))
	for i := range txs {
		tx := txs[i]
		out[i] = &tx
	}

	return out
}

// Values dereferences a stored list for the analytics pipeline.
func Values(txs []*Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx == nil {
			continue
		}

		out = append(out, *tx)
	}

	return out
}
