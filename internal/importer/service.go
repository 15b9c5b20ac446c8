package importer

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/MrJamesThe3rd/cashflow/internal/classify"
	"github.com/MrJamesThe3rd/cashflow/internal/importer/cgd"
	"github.com/MrJamesThe3rd/cashflow/internal/importer/generic"
	"github.com/MrJamesThe3rd/cashflow/internal/logger"
	"github.com/MrJamesThe3rd/cashflow/internal/matching"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=resolver_mock.go -package=importer

// MerchantResolver names the merchant behind a bank description.
type MerchantResolver interface {
	Resolve(ctx context.Context, description string) (string, error)
}

type Service struct {
	importers map[Bank]Importer
	rules     *classify.Rules
	merchants MerchantResolver
}

// NewService registers the built-in bank parsers. A nil merchants resolver
// falls back to plain prefix stripping.
func NewService(rules *classify.Rules, merchants MerchantResolver, defaultAccount string) *Service {
	if rules == nil {
		rules = classify.DefaultRules()
	}

	return &Service{
		importers: map[Bank]Importer{
			BankCGD:     cgd.NewParser(),
			BankGeneric: generic.NewParser(defaultAccount),
		},
		rules:     rules,
		merchants: merchants,
	}
}

// Register adds or replaces the parser for bank.
func (s *Service) Register(bank Bank, imp Importer) {
	s.importers[bank] = imp
}

// Banks lists the supported banks in name order.
func (s *Service) Banks() []Bank {
	banks := make([]Bank, 0, len(s.importers))
	for b := range s.importers {
		banks = append(banks, b)
	}

	slices.Sort(banks)

	return banks
}

// Import parses r with the bank's parser and fills in a category and merchant
// for rows whose export did not carry one.
func (s *Service) Import(ctx context.Context, bank Bank, r io.Reader) ([]transaction.RawRecord, error) {
	imp, ok := s.importers[bank]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBank, bank)
	}

	recs, err := imp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s export: %w", bank, err)
	}

	for i := range recs {
		s.enrich(ctx, &recs[i])
	}

	logger.FromContext(ctx).Debug().
		Str("bank", string(bank)).
		Int("rows", len(recs)).
		Msg("parsed bank export")

	return recs, nil
}

func (s *Service) enrich(ctx context.Context, rec *transaction.RawRecord) {
	if rec.Category == "" {
		rec.Category = s.rules.Categorize(rec.Description)
	}

	if rec.Merchant != "" {
		return
	}

	if s.merchants == nil {
		rec.Merchant = matching.ExtractMerchant(rec.Description)
		return
	}

	merchant, err := s.merchants.Resolve(ctx, rec.Description)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("description", rec.Description).Msg("merchant lookup failed")

		merchant = matching.ExtractMerchant(rec.Description)
	}

	rec.Merchant = merchant
}
