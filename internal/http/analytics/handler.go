package analytics

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cashflow/internal/analytics"
	"github.com/MrJamesThe3rd/cashflow/internal/http/httpx"
	"github.com/MrJamesThe3rd/cashflow/internal/metrics"
	"github.com/MrJamesThe3rd/cashflow/internal/series"
)

type Handler struct {
	svc *analytics.Service
}

func NewHandler(svc *analytics.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/series", h.series)
	r.Get("/chart", h.chart)
	r.Get("/metrics", h.metrics)
	r.Get("/categories", h.categories)
	r.Get("/patterns", h.patterns)
	r.Get("/insights", h.insights)
	r.Get("/summary", h.summary)
	r.Post("/goal", h.goal)
}

func (h *Handler) buildSeries(w http.ResponseWriter, r *http.Request) ([]series.Point, series.Grain, bool) {
	q, err := httpx.Query(r)
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return nil, "", false
	}

	grain, err := httpx.Grain(r)
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return nil, "", false
	}

	if grain == "" {
		grain = h.svc.Grain()
	}

	points, err := h.svc.Series(r.Context(), q, grain)
	if err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return nil, "", false
	}

	return points, grain, true
}

func (h *Handler) series(w http.ResponseWriter, r *http.Request) {
	points, grain, ok := h.buildSeries(w, r)
	if !ok {
		return
	}

	httpx.JSON(w, r, http.StatusOK, toSeriesResponse(points, grain))
}

// chart returns the series in major units with display labels.
func (h *Handler) chart(w http.ResponseWriter, r *http.Request) {
	points, grain, ok := h.buildSeries(w, r)
	if !ok {
		return
	}

	httpx.JSON(w, r, http.StatusOK, series.ToChart(points, grain))
}

func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	q, err := httpx.Query(r)
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return
	}

	m, err := h.svc.Metrics(r.Context(), q)
	if err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, toMetricsResponse(m))
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	q, err := httpx.Query(r)
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return
	}

	cats, err := h.svc.Categories(r.Context(), q)
	if err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, toCategoryResponses(cats))
}

func (h *Handler) patterns(w http.ResponseWriter, r *http.Request) {
	q, err := httpx.Query(r)
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return
	}

	patterns, err := h.svc.Patterns(r.Context(), q)
	if err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, toPatternResponses(patterns))
}

func (h *Handler) insights(w http.ResponseWriter, r *http.Request) {
	q, err := httpx.Query(r)
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return
	}

	in, err := h.svc.Insights(r.Context(), q)
	if err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, toInsightResponses(in))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	q, err := httpx.Query(r)
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return
	}

	s, err := h.svc.Summary(r.Context(), q, nil)
	if err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, summaryResponse{
		Metrics:    toMetricsResponse(s.Metrics),
		MonthlyNet: s.MonthlyNet.Round(2).InexactFloat64(),
	})
}

type goalRequest struct {
	Name          string `json:"name"`
	TargetAmount  int64  `json:"target_amount"`
	CurrentAmount int64  `json:"current_amount"`
	Deadline      string `json:"deadline"`
}

func (h *Handler) goal(w http.ResponseWriter, r *http.Request) {
	q, err := httpx.Query(r)
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return
	}

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return
	}

	if req.TargetAmount < 0 || req.CurrentAmount < 0 {
		httpx.Error(w, r, http.StatusBadRequest, errors.New("amounts must not be negative"))
		return
	}

	deadline, err := time.Parse(time.DateOnly, req.Deadline)
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, errors.New("deadline must be yyyy-mm-dd"))
		return
	}

	p, err := h.svc.GoalProgress(r.Context(), q, metrics.Goal{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      deadline,
	})
	if err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, toGoalResponse(p))
}
