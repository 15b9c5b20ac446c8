package matching_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	matchinghttp "github.com/MrJamesThe3rd/cashflow/internal/http/matching"
	"github.com/MrJamesThe3rd/cashflow/internal/matching"
)

func setup(t *testing.T) (*matching.MockRepository, http.Handler) {
	t.Helper()

	repo := matching.NewMockRepository(gomock.NewController(t))

	r := chi.NewRouter()
	matchinghttp.NewHandler(matching.NewService(repo)).Routes(r)

	return repo, r
}

func TestHandler_Suggest(t *testing.T) {
	type testCase struct {
		name        string
		alias       string
		wantLearned bool
		want        string
	}

	tests := []testCase{
		{name: "Learned", alias: "Starbucks", wantLearned: true, want: "Starbucks"},
		{name: "Extracted", alias: "", wantLearned: false, want: "STARBUCKS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, router := setup(t)
			repo.EXPECT().FindAlias(gomock.Any(), "ACH STARBUCKS 1234").Return(tt.alias, nil)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/suggest?description=ACH+STARBUCKS+1234", nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var got struct {
				Merchant string `json:"merchant"`
				Learned  bool   `json:"learned"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got.Merchant)
			assert.Equal(t, tt.wantLearned, got.Learned)
		})
	}
}

func TestHandler_SuggestRequiresDescription(t *testing.T) {
	_, router := setup(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/suggest", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Learn(t *testing.T) {
	repo, router := setup(t)
	repo.EXPECT().CreateAlias(gomock.Any(), "AMZN", "Amazon").Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"raw_pattern":"AMZN","merchant":"Amazon"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"raw_pattern":"AMZN"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Similarity(t *testing.T) {
	_, router := setup(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/similarity?a=Transfer+to+Savings&b=Transfer+from+Savings", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Score float64 `json:"score"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.InDelta(t, 2.0/3.0, got.Score, 1e-9)
}
