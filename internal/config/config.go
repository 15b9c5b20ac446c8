package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/cashflow/internal/classify"
	"github.com/MrJamesThe3rd/cashflow/internal/database"
	"github.com/MrJamesThe3rd/cashflow/internal/series"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"Cashflow"`
		Port      int    `envconfig:"PORT" default:"8080"`
		LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
		LogFormat string `envconfig:"LOG_FORMAT" default:"console"`
	}

	DB struct {
		Host            string        `envconfig:"DB_HOST" default:"localhost"`
		Port            int           `envconfig:"DB_PORT" default:"5432"`
		User            string        `envconfig:"DB_USER" default:"postgres"`
		Password        string        `envconfig:"DB_PASSWORD" default:""`
		Name            string        `envconfig:"DB_NAME" default:"cashflow"`
		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"SERVER_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Analytics struct {
		Timezone       string        `envconfig:"ANALYTICS_TIMEZONE" default:"UTC"`
		Grain          string        `envconfig:"ANALYTICS_GRAIN" default:"month"`
		TransferWindow time.Duration `envconfig:"ANALYTICS_TRANSFER_WINDOW" default:"48h"`
		RefundWindow   time.Duration `envconfig:"ANALYTICS_REFUND_WINDOW" default:"1440h"`
		RulesFile      string        `envconfig:"ANALYTICS_RULES_FILE"`
		DefaultAccount string        `envconfig:"ANALYTICS_DEFAULT_ACCOUNT" default:"Checking"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) Pool() database.Pool {
	return database.Pool{
		MaxOpenConns:    c.DB.MaxOpenConns,
		MaxIdleConns:    c.DB.MaxIdleConns,
		ConnMaxLifetime: c.DB.ConnMaxLifetime,
	}
}

// Grain returns the configured default series grain.
func (c *Config) Grain() (series.Grain, error) {
	return series.ParseGrain(c.Analytics.Grain)
}

// Rules loads the classification table, preferring RulesFile when set.
func (c *Config) Rules() (*classify.Rules, error) {
	if c.Analytics.RulesFile == "" {
		return classify.DefaultRules(), nil
	}

	return classify.LoadRules(c.Analytics.RulesFile)
}

func (c *Config) ClassifyOptions() classify.Options {
	return classify.Options{
		TransferWindow: c.Analytics.TransferWindow,
		RefundWindow:   c.Analytics.RefundWindow,
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if _, err := cfg.Grain(); err != nil {
		return nil, fmt.Errorf("invalid ANALYTICS_GRAIN: %w", err)
	}

	return &cfg, nil
}
