package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("transaction not found")

// Direction says whether a transaction increases or decreases the balance
// of its account. Amounts are always stored unsigned.
type Direction string

const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
)

// Classification holds the heuristic flags derived by the classify package.
// Normalization always leaves it zeroed.
type Classification struct {
	Transfer bool
	Refund   bool
}

// Transaction is the canonical, normalized representation of a bank movement.
type Transaction struct {
	ID          uuid.UUID
	Date        time.Time // calendar date, 00:00 UTC
	PostedAt    *time.Time
	Description string
	Merchant    string
	Amount      int64 // minor units, never negative
	Direction   Direction
	Category    string
	Account     string
	IsPending   bool
	ExternalID  string
	Balance     *int64 // passthrough, unused by analytics
	Flags       Classification
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Timestamp is the instant used for ordering and time windows: the posting
// timestamp when known, the calendar date otherwise.
func (t Transaction) Timestamp() time.Time {
	if t.PostedAt != nil {
		return *t.PostedAt
	}

	return t.Date
}

// IsInflow reports whether the transaction adds money to its account.
func (t Transaction) IsInflow() bool { return t.Direction == DirectionInflow }

// IsOutflow reports whether the transaction removes money from its account.
func (t Transaction) IsOutflow() bool { return t.Direction == DirectionOutflow }

// Clone returns a copy of txs that shares no pointers with the input.
func Clone(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	for i, tx := range txs {
		if tx.PostedAt != nil {
			p := *tx.PostedAt
			tx.PostedAt = &p
		}

		if tx.Balance != nil {
			b := *tx.Balance
			tx.Balance = &b
		}

		if tx.UpdatedAt != nil {
			u := *tx.UpdatedAt
			tx.UpdatedAt = &u
		}

		out[i] = tx
	}

	return out
}
