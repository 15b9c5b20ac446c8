package view

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

const dbTimeout = 5 * time.Second

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// FormatAmount renders minor units as a decimal string.
func FormatAmount(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

// FormatSigned renders tx's amount with a minus sign for outflows.
func FormatSigned(tx transaction.Transaction) string {
	if tx.IsOutflow() {
		return FormatAmount(-tx.Amount)
	}

	return FormatAmount(tx.Amount)
}

// FormatFlags renders the classification flags as short markers.
func FormatFlags(tx transaction.Transaction) string {
	var flags []string
	if tx.Flags.Transfer {
		flags = append(flags, "transfer")
	}

	if tx.Flags.Refund {
		flags = append(flags, "refund")
	}

	if tx.IsPending {
		flags = append(flags, "pending")
	}

	return strings.Join(flags, ",")
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

var baseCtx = context.Background()

// UseContext sets the context every view command derives from. It carries
// the program's logger into the services.
func UseContext(ctx context.Context) {
	baseCtx = ctx
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(baseCtx, dbTimeout)
}

func activeStyle(s string) string {
	return accentStyle.Render(s)
}

var hundred = decimal.NewFromInt(100)

// FormatMinorDecimal renders a fractional minor-unit amount in major units.
func FormatMinorDecimal(d decimal.Decimal) string {
	return d.Div(hundred).StringFixed(2)
}
