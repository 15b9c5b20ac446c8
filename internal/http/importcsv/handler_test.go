package importcsv_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cashflow/internal/http/importcsv"
	"github.com/MrJamesThe3rd/cashflow/internal/importer"
	"github.com/MrJamesThe3rd/cashflow/internal/matching"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

const statement = `Date,Description,Withdrawals,Deposits,Balance
07/02/25,DEBIT CARD PURCHASE STARBUCKS 1234,$6.45,,$100.00
`

type fixture struct {
	repo    *transaction.MockRepository
	itx     *transaction.MockImportTx
	aliases *matching.MockRepository
	router  http.Handler
}

func setup(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:    transaction.NewMockRepository(ctrl),
		itx:     transaction.NewMockImportTx(ctrl),
		aliases: matching.NewMockRepository(ctrl),
	}

	h := importcsv.NewHandler(
		importer.NewService(nil, matching.NewService(f.aliases), "Checking"),
		transaction.NewService(f.repo, nil),
	)

	r := chi.NewRouter()
	h.Routes(r)
	f.router = r

	return f
}

func upload(t *testing.T, bank, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("bank", bank))

	fw, err := mw.CreateFormFile("file", "statement.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func TestHandler_Import(t *testing.T) {
	f := setup(t)

	f.aliases.EXPECT().FindAlias(gomock.Any(), gomock.Any()).Return("Starbucks", nil)
	f.repo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(f.itx, nil)
	f.itx.EXPECT().FindExisting(gomock.Any(), gomock.Len(1)).Return(nil, nil)
	f.itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(1)).Return(nil)
	f.itx.EXPECT().Commit().Return(nil)
	f.itx.EXPECT().Rollback().Return(nil)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, upload(t, "generic", statement))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Imported     int `json:"imported"`
		Transactions []struct {
			Merchant string `json:"merchant"`
			Category string `json:"category"`
			Amount   int64  `json:"amount"`
		} `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 1, resp.Imported)
	assert.Equal(t, "Starbucks", resp.Transactions[0].Merchant)
	assert.Equal(t, "Dining", resp.Transactions[0].Category)
	assert.Equal(t, int64(645), resp.Transactions[0].Amount)
}

func TestHandler_ImportConflictRoundTrip(t *testing.T) {
	f := setup(t)

	f.aliases.EXPECT().FindAlias(gomock.Any(), gomock.Any()).Return("", nil)

	var existing transaction.Transaction

	f.repo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(f.itx, nil)
	f.itx.EXPECT().FindExisting(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, _ any) ([]*transaction.Transaction, error) {
			return []*transaction.Transaction{&existing}, nil
		})
	f.itx.EXPECT().Rollback().Return(nil)

	// The stored row has the id the upload derives.
	recs, err := importer.NewService(nil, nil, "Checking").Import(t.Context(), importer.BankGeneric, strings.NewReader(statement))
	require.NoError(t, err)

	existing = transaction.NewNormalizer("").Normalize(recs[0])

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, upload(t, "generic", statement))
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	var conflict struct {
		Conflicts []struct {
			Incoming json.RawMessage `json:"incoming"`
		} `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conflict))
	require.Len(t, conflict.Conflicts, 1)

	// Confirming the incoming row stores it under the same id.
	f.repo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(f.itx, nil)
	f.itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, txs []*transaction.Transaction) error {
			require.Len(t, txs, 1)
			assert.Equal(t, existing.ID, txs[0].ID)
			assert.Equal(t, int64(645), txs[0].Amount)

			return nil
		})
	f.itx.EXPECT().Commit().Return(nil)
	f.itx.EXPECT().Rollback().Return(nil)

	body := `{"records":[` + string(conflict.Conflicts[0].Incoming) + `]}`

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/confirm", strings.NewReader(body)))
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestHandler_ImportValidation(t *testing.T) {
	type testCase struct {
		name string
		req  func(t *testing.T) *http.Request
	}

	tests := []testCase{
		{
			name: "UnknownBank",
			req:  func(t *testing.T) *http.Request { return upload(t, "nope", statement) },
		},
		{
			name: "MissingBank",
			req:  func(t *testing.T) *http.Request { return upload(t, "", statement) },
		},
		{
			name: "NotMultipart",
			req: func(*testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)

			rec := httptest.NewRecorder()
			f.router.ServeHTTP(rec, tt.req(t))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
