// Package httpx holds response and query helpers shared by the API handlers.
package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MrJamesThe3rd/cashflow/internal/analytics"
	"github.com/MrJamesThe3rd/cashflow/internal/logger"
	"github.com/MrJamesThe3rd/cashflow/internal/series"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// Error writes a JSON error body. 5xx messages are logged and replaced with a
// generic text.
func Error(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := err.Error()

	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")

		msg = "internal error"
	}

	JSON(w, r, status, errorResponse{Error: msg})
}

// Date parses an optional yyyy-mm-dd query parameter.
func Date(r *http.Request, name string) (time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %q", name, s)
	}

	return t, nil
}

// Query reads start, end and account from the query string.
func Query(r *http.Request) (analytics.Query, error) {
	start, err := Date(r, "start")
	if err != nil {
		return analytics.Query{}, err
	}

	end, err := Date(r, "end")
	if err != nil {
		return analytics.Query{}, err
	}

	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return analytics.Query{}, fmt.Errorf("start %s is after end %s", start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	return analytics.Query{
		Start:   start,
		End:     end,
		Account: r.URL.Query().Get("account"),
	}, nil
}

// Grain reads the grain parameter. An absent grain yields "" so the service
// default applies.
func Grain(r *http.Request) (series.Grain, error) {
	s := r.URL.Query().Get("grain")
	if s == "" {
		return "", nil
	}

	return series.ParseGrain(s)
}
