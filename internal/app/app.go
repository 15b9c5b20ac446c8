// Package app wires the stores and services shared by the API server and the
// TUI.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/cashflow/internal/analytics"
	"github.com/MrJamesThe3rd/cashflow/internal/classify"
	"github.com/MrJamesThe3rd/cashflow/internal/config"
	"github.com/MrJamesThe3rd/cashflow/internal/database"
	"github.com/MrJamesThe3rd/cashflow/internal/export"
	"github.com/MrJamesThe3rd/cashflow/internal/importer"
	"github.com/MrJamesThe3rd/cashflow/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/cashflow/internal/matching/store"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
	txStore "github.com/MrJamesThe3rd/cashflow/internal/transaction/store"
)

type App struct {
	DB *sql.DB

	Transactions *transaction.Service
	Matching     *matching.Service
	Importer     *importer.Service
	Analytics    *analytics.Service
	Export       *export.Service
}

// New connects to the database, ensures the schema and builds every service
// from cfg. The caller owns DB.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}

	grain, err := cfg.Grain()
	if err != nil {
		return nil, err
	}

	db, err := database.New(ctx, cfg.ConnectionString(), cfg.Pool())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	var (
		txSvc       = transaction.NewService(txStore.New(db), transaction.NewNormalizer(cfg.Analytics.DefaultAccount))
		matchSvc    = matching.NewService(matchingStore.New(db))
		importSvc   = importer.NewService(rules, matchSvc, cfg.Analytics.DefaultAccount)
		analyticSvc = analytics.NewService(txSvc, classify.New(rules, cfg.ClassifyOptions()), analytics.Options{
			Timezone: cfg.Analytics.Timezone,
			Grain:    grain,
		})
	)

	return &App{
		DB:           db,
		Transactions: txSvc,
		Matching:     matchSvc,
		Importer:     importSvc,
		Analytics:    analyticSvc,
		Export:       export.NewService(analyticSvc),
	}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
