package analytics_test

import (
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
	"github.com/MrJamesThe3rd/cashflow/internal/classify"
	analyticshttp "github.com/MrJamesThe3rd/cashflow/internal/http/analytics"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

var now = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

func stored(desc string, d int, amount int64, dir transaction.Direction) *transaction.Transaction {
	tx := transaction.Transaction{
		Date:        time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC),
		Description: desc,
		Amount:      amount,
		Direction:   dir,
		Account:     "Checking",
	}
	tx.ID = transaction.DeriveID(tx)

	return &tx
}

func setup(t *testing.T) http.Handler {
	t.Helper()

	rows := []*transaction.Transaction{
		stored("PAYROLL ACME", 5, 300000, transaction.DirectionInflow),
		stored("AMAZON.COM ORDER", 10, 5000, transaction.DirectionOutflow),
		stored("AMAZON.COM REFUND", 15, 2000, transaction.DirectionInflow),
	}

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(rows, nil).AnyTimes()

	svc := analytics.NewService(
		transaction.NewService(repo, nil),
		classify.New(nil, classify.Options{}),
		analytics.Options{Clock: func() time.Time { return now }},
	)

	r := chi.NewRouter()
	analyticshttp.NewHandler(svc).Routes(r)

	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))

	return rec
}

func TestHandler_Series(t *testing.T) {
	rec := do(t, setup(t), http.MethodGet, "/series?start=2024-03-01&end=2024-03-31", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Grain  string `json:"grain"`
		Points []struct {
			Label   string `json:"label"`
			Income  int64  `json:"income"`
			Expense int64  `json:"expense"`
			Savings int64  `json:"savings"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "month", resp.Grain)
	require.Len(t, resp.Points, 1)
	assert.Equal(t, int64(300000), resp.Points[0].Income)
	assert.Equal(t, int64(3000), resp.Points[0].Expense)
	assert.Equal(t, int64(297000), resp.Points[0].Savings)
}

func TestHandler_Chart(t *testing.T) {
	rec := do(t, setup(t), http.MethodGet, "/chart?grain=month&start=2024-03-01&end=2024-03-31", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var points []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	require.Len(t, points, 1)
}

func TestHandler_BadRequests(t *testing.T) {
	type testCase struct {
		name   string
		method string
		target string
		body   string
	}

	tests := []testCase{
		{name: "UnknownGrain", method: http.MethodGet, target: "/series?grain=fortnight"},
		{name: "BadDate", method: http.MethodGet, target: "/metrics?start=03/01/2024"},
		{name: "StartAfterEnd", method: http.MethodGet, target: "/categories?start=2024-04-01&end=2024-03-01"},
		{name: "GoalBadJSON", method: http.MethodPost, target: "/goal", body: `{`},
		{name: "GoalBadDeadline", method: http.MethodPost, target: "/goal", body: `{"target_amount":100,"deadline":"soon"}`},
		{name: "GoalNegative", method: http.MethodPost, target: "/goal", body: `{"target_amount":-1,"deadline":"2025-01-01"}`},
	}

	h := setup(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_Metrics(t *testing.T) {
	rec := do(t, setup(t), http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.EqualValues(t, 302000, resp["total_income"])
	assert.EqualValues(t, 5000, resp["total_expenses"])
	assert.EqualValues(t, 297000, resp["net_savings"])
}

func TestHandler_CategoriesPatternsInsights(t *testing.T) {
	h := setup(t)

	var cats []map[string]any
	rec := do(t, h, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	require.Len(t, cats, 1)
	assert.EqualValues(t, 5000, cats[0]["amount"])

	var patterns []map[string]any
	rec = do(t, h, http.MethodGet, "/patterns", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patterns))
	require.Len(t, patterns, 7)
	assert.Equal(t, "Sunday", patterns[0]["day"])

	rec = do(t, h, http.MethodGet, "/insights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"savings-rate"`)
}

func TestHandler_Summary(t *testing.T) {
	rec := do(t, setup(t), http.MethodGet, "/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Metrics struct {
			NetSavings int64 `json:"net_savings"`
		} `json:"metrics"`
		Goal *json.RawMessage `json:"goal"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, int64(297000), resp.Metrics.NetSavings)
	assert.Nil(t, resp.Goal)
}

func TestHandler_Goal(t *testing.T) {
	body := `{"name":"Trip","target_amount":1000000,"current_amount":250000,"deadline":"2025-04-01"}`

	rec := do(t, setup(t), http.MethodPost, "/goal", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ProgressPercentage float64  `json:"progress_percentage"`
		MonthsToGoal       *float64 `json:"months_to_goal"`
		IsOnTrack          bool     `json:"is_on_track"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.InDelta(t, 25.0, resp.ProgressPercentage, 1e-9)
	require.NotNil(t, resp.MonthsToGoal)
	assert.Positive(t, *resp.MonthsToGoal)
}
