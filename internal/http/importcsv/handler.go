package importcsv

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cashflow/internal/http/httpx"
	txhttp "github.com/MrJamesThe3rd/cashflow/internal/http/transaction"
	"github.com/MrJamesThe3rd/cashflow/internal/importer"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/banks", h.banks)
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type importSuccessResponse struct {
	Imported     int               `json:"imported"`
	Transactions []txhttp.Response `json:"transactions"`
}

// recordDTO is a normalized row sent back to the client for review. Amount
// is a signed decimal string so the row normalizes to the same id again.
type recordDTO struct {
	Date        string `json:"date"`
	PostedAt    string `json:"posted_at,omitempty"`
	Description string `json:"description"`
	Merchant    string `json:"merchant,omitempty"`
	Category    string `json:"category,omitempty"`
	Account     string `json:"account,omitempty"`
	Amount      string `json:"amount"`
	Pending     bool   `json:"pending,omitempty"`
	ExternalID  string `json:"external_id,omitempty"`
	Balance     string `json:"balance,omitempty"`
}

type conflictDTO struct {
	Incoming recordDTO       `json:"incoming"`
	Existing txhttp.Response `json:"existing"`
}

type importConflictResponse struct {
	New       []recordDTO   `json:"new"`
	Conflicts []conflictDTO `json:"conflicts"`
}

type confirmRequest struct {
	Records []recordDTO `json:"records"`
}

func (h *Handler) banks(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, r, http.StatusOK, h.importSvc.Banks())
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return
	}

	bank := importer.Bank(r.FormValue("bank"))
	if bank == "" {
		httpx.Error(w, r, http.StatusBadRequest, errors.New("bank field is required"))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, errors.New("file field is required"))
		return
	}
	defer file.Close()

	raws, err := h.importSvc.Import(r.Context(), bank, file)
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return
	}

	result, err := h.txSvc.ImportBatch(r.Context(), raws)
	if err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]recordDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, tx := range result.New {
			resp.New = append(resp.New, toRecordDTO(tx))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toRecordDTO(c.Incoming),
				Existing: txhttp.ToResponse(*c.Existing),
			})
		}

		httpx.JSON(w, r, http.StatusConflict, resp)

		return
	}

	httpx.JSON(w, r, http.StatusCreated, toSuccessResponse(result.Imported))
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return
	}

	raws := make([]transaction.RawRecord, 0, len(req.Records))
	for _, rec := range req.Records {
		raws = append(raws, rec.raw())
	}

	txs, err := h.txSvc.CreateBatch(r.Context(), raws)
	if err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	httpx.JSON(w, r, http.StatusCreated, toSuccessResponse(txs))
}

func toSuccessResponse(txs []*transaction.Transaction) importSuccessResponse {
	return importSuccessResponse{
		Imported:     len(txs),
		Transactions: txhttp.ToResponseList(transaction.Values(txs)),
	}
}

func toRecordDTO(tx transaction.Transaction) recordDTO {
	raw := tx.Raw()

	return recordDTO{
		Date:        raw.Date,
		PostedAt:    raw.PostedAt,
		Description: raw.Description,
		Merchant:    raw.Merchant,
		Category:    raw.Category,
		Account:     raw.Account,
		Amount:      raw.Amount,
		Pending:     raw.Pending,
		ExternalID:  raw.ExternalID,
		Balance:     raw.Balance,
	}
}

func (d recordDTO) raw() transaction.RawRecord {
	return transaction.RawRecord{
		Date:        d.Date,
		PostedAt:    d.PostedAt,
		Description: d.Description,
		Merchant:    d.Merchant,
		Category:    d.Category,
		Account:     d.Account,
		Amount:      d.Amount,
		Pending:     d.Pending,
		ExternalID:  d.ExternalID,
		Balance:     d.Balance,
	}
}
