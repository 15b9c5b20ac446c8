package transaction

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cashflow/internal/analytics"
	"github.com/MrJamesThe3rd/cashflow/internal/http/httpx"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

type Handler struct {
	svc       *transaction.Service
	analytics *analytics.Service
}

func NewHandler(svc *transaction.Service, analyticsSvc *analytics.Service) *Handler {
	return &Handler{svc: svc, analytics: analyticsSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}", h.update)
}

// createTransactionRequest mirrors a raw bank row. Amount is a signed decimal
// string unless Type names the direction.
type createTransactionRequest struct {
	Date        string `json:"date"`
	PostedAt    string `json:"posted_at"`
	Description string `json:"description"`
	Merchant    string `json:"merchant"`
	Category    string `json:"category"`
	Account     string `json:"account"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Pending     bool   `json:"pending"`
	ExternalID  string `json:"external_id"`
	Balance     string `json:"balance"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return
	}

	if req.Date == "" || req.Amount == "" {
		httpx.Error(w, r, http.StatusBadRequest, errors.New("date and amount are required"))
		return
	}

	tx, err := h.svc.Create(r.Context(), transaction.RawRecord{
		Date:        req.Date,
		PostedAt:    req.PostedAt,
		Description: req.Description,
		Merchant:    req.Merchant,
		Category:    req.Category,
		Account:     req.Account,
		Amount:      req.Amount,
		Type:        req.Type,
		Pending:     req.Pending,
		ExternalID:  req.ExternalID,
		Balance:     req.Balance,
	})
	if err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	httpx.JSON(w, r, http.StatusCreated, ToResponse(*tx))
}

// list returns stored transactions with their transfer and refund flags.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q, err := httpx.Query(r)
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return
	}

	txs, err := h.analytics.Classified(r.Context(), q)
	if err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, ToResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, errors.New("invalid id"))
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			httpx.Error(w, r, http.StatusNotFound, err)
			return
		}

		httpx.Error(w, r, http.StatusInternalServerError, err)

		return
	}

	httpx.JSON(w, r, http.StatusOK, ToResponse(*tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, errors.New("invalid id"))
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// updateTransactionRequest only touches annotations. Date, description,
// amount and direction define the id and cannot change.
type updateTransactionRequest struct {
	Merchant  *string `json:"merchant,omitempty"`
	Category  *string `json:"category,omitempty"`
	Account   *string `json:"account,omitempty"`
	IsPending *bool   `json:"is_pending,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, errors.New("invalid id"))
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			httpx.Error(w, r, http.StatusNotFound, err)
			return
		}

		httpx.Error(w, r, http.StatusInternalServerError, err)

		return
	}

	if req.Merchant != nil {
		tx.Merchant = *req.Merchant
	}

	if req.Category != nil {
		tx.Category = *req.Category
	}

	if req.Account != nil {
		tx.Account = *req.Account
	}

	if req.IsPending != nil {
		tx.IsPending = *req.IsPending
	}

	if err := h.svc.Update(r.Context(), tx); err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, ToResponse(*tx))
}
