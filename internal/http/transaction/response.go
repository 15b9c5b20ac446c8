package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

// Response is the JSON form of a transaction. Amount is unsigned minor units;
// Direction carries the sign.
type Response struct {
	ID          uuid.UUID             `json:"id"`
	Date        string                `json:"date"`
	PostedAt    *time.Time            `json:"posted_at,omitempty"`
	Description string                `json:"description"`
	Merchant    string                `json:"merchant,omitempty"`
	Amount      int64                 `json:"amount"`
	Direction   transaction.Direction `json:"direction"`
	Category    string                `json:"category,omitempty"`
	Account     string                `json:"account"`
	IsPending   bool                  `json:"is_pending"`
	ExternalID  string                `json:"external_id,omitempty"`
	Balance     *int64                `json:"balance,omitempty"`
	Transfer    bool                  `json:"transfer"`
	Refund      bool                  `json:"refund"`
	CreatedAt   *time.Time            `json:"created_at,omitempty"`
	UpdatedAt   *time.Time            `json:"updated_at,omitempty"`
}

func ToResponse(tx transaction.Transaction) Response {
	resp := Response{
		ID:          tx.ID,
		Date:        tx.Date.Format(time.DateOnly),
		PostedAt:    tx.PostedAt,
		Description: tx.Description,
		Merchant:    tx.Merchant,
		Amount:      tx.Amount,
		Direction:   tx.Direction,
		Category:    tx.Category,
		Account:     tx.Account,
		IsPending:   tx.IsPending,
		ExternalID:  tx.ExternalID,
		Balance:     tx.Balance,
		Transfer:    tx.Flags.Transfer,
		Refund:      tx.Flags.Refund,
		UpdatedAt:   tx.UpdatedAt,
	}

	if !tx.CreatedAt.IsZero() {
		resp.CreatedAt = new(tx.CreatedAt)
	}

	return resp
}

func ToResponseList(txs []transaction.Transaction) []Response {
	resp := make([]Response, len(txs))
	for i, tx := range txs {
		resp[i] = ToResponse(tx)
	}

	return resp
}
