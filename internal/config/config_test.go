package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cashflow/internal/config"
	"github.com/MrJamesThe3rd/cashflow/internal/series"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 48*time.Hour, cfg.Analytics.TransferWindow)
	assert.Equal(t, 60*24*time.Hour, cfg.Analytics.RefundWindow)
	assert.Equal(t, "Checking", cfg.Analytics.DefaultAccount)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)

	grain, err := cfg.Grain()
	require.NoError(t, err)
	assert.Equal(t, series.GrainMonth, grain)

	rules, err := cfg.Rules()
	require.NoError(t, err)
	assert.NotEmpty(t, rules.Categories)

	assert.Equal(t, 25, cfg.Pool().MaxOpenConns)
	assert.Equal(t, "postgres://postgres:@localhost:5432/cashflow?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ANALYTICS_GRAIN", "quarter")
	t.Setenv("ANALYTICS_TRANSFER_WINDOW", "24h")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	grain, err := cfg.Grain()
	require.NoError(t, err)
	assert.Equal(t, series.GrainQuarter, grain)
	assert.Equal(t, 24*time.Hour, cfg.ClassifyOptions().TransferWindow)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidGrain(t *testing.T) {
	t.Setenv("ANALYTICS_GRAIN", "fortnight")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestConfig_RulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories:\n  - name: Coffee\n    keywords: [espresso]\n"), 0o600))

	t.Setenv("ANALYTICS_RULES_FILE", path)

	cfg, err := config.Load()
	require.NoError(t, err)

	rules, err := cfg.Rules()
	require.NoError(t, err)
	assert.Equal(t, "Coffee", rules.Categorize("ESPRESSO BAR"))
}
