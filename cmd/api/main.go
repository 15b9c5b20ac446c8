package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/cashflow/internal/app"
	"github.com/MrJamesThe3rd/cashflow/internal/config"
	cashflowHttp "github.com/MrJamesThe3rd/cashflow/internal/http"
	analyticsHandler "github.com/MrJamesThe3rd/cashflow/internal/http/analytics"
	exportHandler "github.com/MrJamesThe3rd/cashflow/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/cashflow/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/cashflow/internal/http/matching"
	txHandler "github.com/MrJamesThe3rd/cashflow/internal/http/transaction"
	"github.com/MrJamesThe3rd/cashflow/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Level: cfg.App.LogLevel, Format: cfg.App.LogFormat})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithContext(ctx, log)

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var (
		transactionH = txHandler.NewHandler(a.Transactions, a.Analytics)
		importH      = importHandler.NewHandler(a.Importer, a.Transactions)
		matchingH    = matchingHandler.NewHandler(a.Matching)
		analyticsH   = analyticsHandler.NewHandler(a.Analytics)
		exportH      = exportHandler.NewHandler(a.Export, a.Analytics)
	)

	router := cashflowHttp.New(cashflowHttp.Options{
		Logger:         log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, transactionH, importH, matchingH, analyticsH, exportH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info().Str("addr", srv.Addr).Str("app", cfg.App.Name).Msg("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
