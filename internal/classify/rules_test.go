package classify_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cashflow/internal/classify"
)

func TestRules_Categorize(t *testing.T) {
	type testCase struct {
		description string
		want        string
	}

	tests := []testCase{
		{description: "DEBIT CARD PURCHASE STARBUCKS STORE 1234", want: "Dining"},
		{description: "Amazon.com order", want: "Shopping"},
		{description: "SHELL OIL 5567", want: "Transportation"},
		{description: "GAS BILL", want: "Transportation"},
		{description: "NETFLIX.COM", want: "Subscriptions"},
		{description: "ADROIT SERVICES PAYROLL", want: "Income"},
		{description: "WHOLE FOODS MARKET", want: "Groceries"},
		{description: "Something else entirely", want: classify.OtherCategory},
		{description: "", want: classify.OtherCategory},
	}

	rules := classify.DefaultRules()

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.Categorize(tt.description))
		})
	}
}

func TestRules_Vocabulary(t *testing.T) {
	rules := classify.DefaultRules()

	assert.True(t, rules.LooksLikeTransfer("Transfer to Savings", ""))
	assert.True(t, rules.LooksLikeTransfer("ROBINHOOD DEPOSIT", ""))
	assert.True(t, rules.LooksLikeTransfer("Payment", "CC Payment"))
	assert.False(t, rules.LooksLikeTransfer("Coffee", "Dining"))

	assert.True(t, rules.LooksLikeRefund("Amazon REFUND"))
	assert.True(t, rules.LooksLikeRefund("chargeback adj"))
	assert.False(t, rules.LooksLikeRefund("Amazon"))

	assert.True(t, rules.IsPairingCategory("Transfer"))
	assert.True(t, rules.IsPairingCategory("CREDIT CARD PAYMENT"))
	assert.False(t, rules.IsPairingCategory("Transfers"))
	assert.False(t, rules.IsPairingCategory(""))
}

func TestLoadRules(t *testing.T) {
	t.Run("EmptyPathUsesDefaults", func(t *testing.T) {
		rules, err := classify.LoadRules("")
		require.NoError(t, err)
		assert.NotEmpty(t, rules.Categories)
	})

	t.Run("CustomFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		data := []byte(`
refund:
  descriptions: [Devolução]
categories:
  - name: Mercado
    keywords: [Continente, Pingo Doce]
`)
		require.NoError(t, os.WriteFile(path, data, 0o600))

		rules, err := classify.LoadRules(path)
		require.NoError(t, err)
		assert.Equal(t, "Mercado", rules.Categorize("COMPRA PINGO DOCE LISBOA"))
		assert.True(t, rules.LooksLikeRefund("DEVOLUÇÃO compra"))
		assert.False(t, rules.LooksLikeTransfer("transfer", ""))
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := classify.LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte("categories: [unclosed"), 0o600))

		_, err := classify.LoadRules(path)
		assert.Error(t, err)
	})
}
