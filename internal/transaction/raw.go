package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawRecord is one tokenized row handed over by an ingestion collaborator.
// All values are kept as text; interpreting them is the Normalizer's job.
type RawRecord struct {
	Date        string
	PostedAt    string
	Description string
	Merchant    string
	Category    string
	Account     string

	// Amount is a signed value. Debit and Credit are used instead when the
	// source splits movements into two columns.
	Amount string
	Debit  string
	Credit string

	// Type is an explicit direction hint such as "credit" or "expense".
	Type string

	Balance    string
	Pending    bool
	ExternalID string
}

// Raw renders t back into a record that normalizes to the same transaction.
// Classification flags are not carried.
func (t Transaction) Raw() RawRecord {
	amount := t.Amount
	if t.IsOutflow() {
		amount = -amount
	}

	raw := RawRecord{
		Date:        t.Date.Format(time.DateOnly),
		Description: t.Description,
		Merchant:    t.Merchant,
		Category:    t.Category,
		Account:     t.Account,
		Amount:      decimal.New(amount, -2).StringFixed(2),
		Pending:     t.IsPending,
		ExternalID:  t.ExternalID,
	}

	if t.PostedAt != nil {
		raw.PostedAt = t.PostedAt.Format(time.RFC3339)
	}

	if t.Balance != nil {
		raw.Balance = decimal.New(*t.Balance, -2).StringFixed(2)
	}

	return raw
}
