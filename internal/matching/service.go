package matching

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindAlias(ctx context.Context, description string) (string, error)
	CreateAlias(ctx context.Context, rawPattern, merchant string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the merchant learned for a description containing a known
// pattern, or an empty string when nothing matches.
func (s *Service) Suggest(ctx context.Context, description string) (string, error) {
	return s.repo.FindAlias(ctx, description)
}

// Learn remembers that descriptions containing rawPattern belong to merchant.
func (s *Service) Learn(ctx context.Context, rawPattern, merchant string) error {
	return s.repo.CreateAlias(ctx, rawPattern, merchant)
}

// Resolve prefers a learned alias and falls back to ExtractMerchant.
func (s *Service) Resolve(ctx context.Context, description string) (string, error) {
	alias, err := s.repo.FindAlias(ctx, description)
	if err != nil {
		return "", fmt.Errorf("finding alias: %w", err)
	}

	if alias != "" {
		return alias, nil
	}

	return ExtractMerchant(description), nil
}
