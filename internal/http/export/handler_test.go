package export_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cashflow/internal/analytics"
	"github.com/MrJamesThe3rd/cashflow/internal/export"
	exporthttp "github.com/MrJamesThe3rd/cashflow/internal/http/export"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

func setup(t *testing.T) http.Handler {
	t.Helper()

	tx := transaction.Transaction{
		Date:        time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Description: "PAYROLL ACME",
		Amount:      300000,
		Direction:   transaction.DirectionInflow,
		Account:     "Checking",
	}
	tx.ID = transaction.DeriveID(tx)

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return([]*transaction.Transaction{&tx}, nil).AnyTimes()

	a := analytics.NewService(transaction.NewService(repo, nil), nil, analytics.Options{})

	r := chi.NewRouter()
	exporthttp.NewHandler(export.NewService(a), a).Routes(r)

	return r
}

func TestHandler_Summary(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		wantStatus int
	}

	tests := []testCase{
		{name: "EmptyBody", body: "", wantStatus: http.StatusOK},
		{name: "WithRange", body: `{"start_date":"2024-03-01","end_date":"2024-03-31","grain":"week"}`, wantStatus: http.StatusOK},
		{name: "BadGrain", body: `{"grain":"hourly"}`, wantStatus: http.StatusBadRequest},
		{name: "BadDate", body: `{"start_date":"March"}`, wantStatus: http.StatusBadRequest},
		{name: "Reversed", body: `{"start_date":"2024-04-01","end_date":"2024-03-01"}`, wantStatus: http.StatusBadRequest},
	}

	h := setup(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))

			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp struct {
				Summary string `json:"summary"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp.Summary, "Income:   3000.00")
		})
	}
}

func TestHandler_Download(t *testing.T) {
	rec := httptest.NewRecorder()
	setup(t).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/download", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)

	names := make([]string, len(zr.File))
	for i, f := range zr.File {
		names[i] = f.Name
	}

	assert.ElementsMatch(t, []string{export.TransactionsFile, export.SeriesFile, export.SummaryFile}, names)
}

func TestHandler_CSV(t *testing.T) {
	h := setup(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions.csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,date,description,merchant,category,account,amount,transfer,refund", lines[0])
	assert.Contains(t, lines[1], "2024-03-05,PAYROLL ACME")
	assert.Contains(t, lines[1], "3000.00,false,false")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/series.csv?grain=month", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "period,start,income,expenses,savings"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/series.csv?grain=decade", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
