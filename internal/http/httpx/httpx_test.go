package httpx_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cashflow/internal/http/httpx"
	"github.com/MrJamesThe3rd/cashflow/internal/series"
)

func TestQuery(t *testing.T) {
	type testCase struct {
		name    string
		url     string
		wantErr bool
	}

	tests := []testCase{
		{name: "Empty", url: "/"},
		{name: "Range", url: "/?start=2024-01-01&end=2024-03-31&account=Checking"},
		{name: "BadStart", url: "/?start=01/01/2024", wantErr: true},
		{name: "Inverted", url: "/?start=2024-04-01&end=2024-03-31", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := httpx.Query(httptest.NewRequest(http.MethodGet, tt.url, nil))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)

			if tt.name == "Range" {
				assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), q.Start)
				assert.Equal(t, "Checking", q.Account)
			}
		})
	}
}

func TestGrain(t *testing.T) {
	g, err := httpx.Grain(httptest.NewRequest(http.MethodGet, "/?grain=Week", nil))
	require.NoError(t, err)
	assert.Equal(t, series.GrainWeek, g)

	g, err = httpx.Grain(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Empty(t, g)

	_, err = httpx.Grain(httptest.NewRequest(http.MethodGet, "/?grain=day", nil))
	assert.ErrorIs(t, err, series.ErrInvalidGrain)
}

func TestError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusInternalServerError, errors.New("pq: password leaked"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	httpx.Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusBadRequest, errors.New("bad grain"))
	assert.JSONEq(t, `{"error":"bad grain"}`, rec.Body.String())
}
