package transaction

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultAccount labels rows whose source does not name an account.
const DefaultAccount = "Checking"

// idNamespace scopes the name-based UUIDs produced by DeriveID.
var idNamespace = uuid.MustParse("6f1c5a0e-3d2b-5b8e-9c47-0a1e2f3b4c5d")

// dateLayouts are tried in order when parsing a raw date.
var dateLayouts = []string{
	time.DateOnly,
	"01/02/06",
	"01/02/2006",
	"02-01-2006",
	"2006/01/02",
	time.RFC3339,
}

var hundred = decimal.NewFromInt(100)

// Normalizer turns raw rows into canonical transactions. It holds no state
// besides its defaults and is safe for concurrent use.
type Normalizer struct {
	defaultAccount string
}

func NewNormalizer(defaultAccount string) *Normalizer {
	if strings.TrimSpace(defaultAccount) == "" {
		defaultAccount = DefaultAccount
	}

	return &Normalizer{defaultAccount: defaultAccount}
}

// Normalize converts a single raw row. It never fails: an unparsable amount
// becomes zero, an unparsable date becomes the zero time and a missing
// direction defaults to outflow.
func (n *Normalizer) Normalize(raw RawRecord) Transaction {
	amount, dir := resolveAmount(raw)

	tx := Transaction{
		Date:        parseDate(raw.Date),
		PostedAt:    parsePostedAt(raw.PostedAt),
		Description: strings.TrimSpace(raw.Description),
		Merchant:    strings.TrimSpace(raw.Merchant),
		Amount:      amount,
		Direction:   dir,
		Category:    strings.TrimSpace(raw.Category),
		Account:     strings.TrimSpace(raw.Account),
		IsPending:   raw.Pending,
		ExternalID:  strings.TrimSpace(raw.ExternalID),
		Balance:     parseBalance(raw.Balance),
	}

	if tx.Account == "" {
		tx.Account = n.defaultAccount
	}

	tx.ID = DeriveID(tx)

	return tx
}

func (n *Normalizer) NormalizeAll(raws []RawRecord) []Transaction {
	txs := make([]Transaction, len(raws))
	for i, raw := range raws {
		txs[i] = n.Normalize(raw)
	}

	return txs
}

// DeriveID builds the stable identifier of a normalized transaction from its
// date, description, amount and direction.
func DeriveID(tx Transaction) uuid.UUID {
	key := fmt.Sprintf("%s|%s|%d|%s",
		tx.Date.Format(time.DateOnly), tx.Description, tx.Amount, tx.Direction)

	return uuid.NewSHA1(idNamespace, []byte(key))
}

// ParseDirection maps the type vocabulary used by bank exports to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inflow", "credit", "cr", "income", "deposit":
		return DirectionInflow, true
	case "outflow", "debit", "dr", "expense", "withdrawal":
		return DirectionOutflow, true
	}

	return "", false
}

// ParseAmount reads a human formatted amount such as "1,234.56", "$-12.00"
// or the accounting form "$(41.65)".
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = strings.TrimSuffix(strings.TrimPrefix(clean, "("), ")")
	}

	clean = strings.NewReplacer("$", "", "€", "", "£", "", ",", "", " ", "").Replace(clean)

	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = strings.TrimSuffix(strings.TrimPrefix(clean, "("), ")")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}

	if negative {
		d = d.Neg()
	}

	return d, nil
}

var maxMinor = decimal.NewFromInt(math.MaxInt64)

// ToMinorUnits converts a major-unit amount to rounded, unsigned minor units.
// Amounts that do not fit an int64 become zero, like unparsable ones.
func ToMinorUnits(d decimal.Decimal) int64 {
	v, ok := minorUnits(d.Abs())
	if !ok {
		return 0
	}

	return v
}

// minorUnits reports false when d in minor units falls outside int64.
func minorUnits(d decimal.Decimal) (int64, bool) {
	m := d.Mul(hundred).Round(0)
	if m.Abs().GreaterThan(maxMinor) {
		return 0, false
	}

	return m.IntPart(), true
}

func resolveAmount(raw RawRecord) (int64, Direction) {
	explicit, hasType := ParseDirection(raw.Type)

	var (
		value decimal.Decimal
		dir   = DirectionOutflow
		found bool
	)

	if d, err := ParseAmount(raw.Amount); err == nil {
		value, found = d, true
		if d.IsPositive() {
			dir = DirectionInflow
		}
	} else if d, err := ParseAmount(raw.Debit); err == nil && !d.IsZero() {
		value, found = d, true
	} else if d, err := ParseAmount(raw.Credit); err == nil && !d.IsZero() {
		value, found = d, true
		dir = DirectionInflow
	}

	if hasType {
		dir = explicit
	}

	if !found {
		return 0, dir
	}

	return ToMinorUnits(value), dir
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}

		y, m, d := t.Date()

		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	return time.Time{}
}

func parsePostedAt(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}

	t = t.UTC()

	return &t
}

func parseBalance(s string) *int64 {
	d, err := ParseAmount(s)
	if err != nil {
		return nil
	}

	v, ok := minorUnits(d)
	if !ok {
		return nil
	}

	return &v
}
