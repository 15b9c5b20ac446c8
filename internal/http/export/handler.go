package export

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cashflow/internal/analytics"
	"github.com/MrJamesThe3rd/cashflow/internal/export"
	"github.com/MrJamesThe3rd/cashflow/internal/http/httpx"
	"github.com/MrJamesThe3rd/cashflow/internal/logger"
	"github.com/MrJamesThe3rd/cashflow/internal/series"
)

type Handler struct {
	svc       *export.Service
	analytics *analytics.Service
}

func NewHandler(svc *export.Service, analyticsSvc *analytics.Service) *Handler {
	return &Handler{svc: svc, analytics: analyticsSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.summary)
	r.Post("/download", h.download)
	r.Get("/series.csv", h.seriesCSV)
	r.Get("/transactions.csv", h.transactionsCSV)
}

type exportRequest struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Account   string `json:"account,omitempty"`
	Grain     string `json:"grain,omitempty"`
}

func (req exportRequest) parse() (analytics.Query, series.Grain, error) {
	var q analytics.Query

	if req.StartDate != "" {
		t, err := time.Parse(time.DateOnly, req.StartDate)
		if err != nil {
			return q, "", fmt.Errorf("invalid start_date: %q", req.StartDate)
		}

		q.Start = t
	}

	if req.EndDate != "" {
		t, err := time.Parse(time.DateOnly, req.EndDate)
		if err != nil {
			return q, "", fmt.Errorf("invalid end_date: %q", req.EndDate)
		}

		q.End = t
	}

	if !q.Start.IsZero() && !q.End.IsZero() && q.Start.After(q.End) {
		return q, "", errors.New("start_date is after end_date")
	}

	q.Account = req.Account

	var grain series.Grain

	if req.Grain != "" {
		g, err := series.ParseGrain(req.Grain)
		if err != nil {
			return q, "", err
		}

		grain = g
	}

	return q, grain, nil
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (analytics.Query, series.Grain, bool) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return analytics.Query{}, "", false
	}

	q, grain, err := req.parse()
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return analytics.Query{}, "", false
	}

	return q, grain, true
}

type summaryResponse struct {
	Grain   series.Grain `json:"grain"`
	Summary string       `json:"summary"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	q, grain, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	if grain == "" {
		grain = h.analytics.Grain()
	}

	points, err := h.analytics.Series(r.Context(), q, grain)
	if err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	m, err := h.analytics.Metrics(r.Context(), q)
	if err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, summaryResponse{
		Grain:   grain,
		Summary: h.svc.Summary(m, points, grain),
	})
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	q, grain, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	tmpDir, err := os.MkdirTemp("", "cashflow-export-*")
	if err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}
	defer os.RemoveAll(tmpDir)

	paths, err := h.svc.Export(r.Context(), q, grain, tmpDir)
	if err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"cashflow_%s.zip\"", time.Now().Format("20060102")))

	zw := zip.NewWriter(w)
	defer zw.Close()

	for _, path := range paths {
		if err := addToZip(zw, path); err != nil {
			logger.FromContext(r.Context()).Error().Err(err).Str("file", path).Msg("failed to write zip entry")
			return
		}
	}
}

func addToZip(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zf, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}

	_, err = io.Copy(zf, f)

	return err
}

func (h *Handler) seriesCSV(w http.ResponseWriter, r *http.Request) {
	q, err := httpx.Query(r)
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return
	}

	grain, err := httpx.Grain(r)
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return
	}

	if grain == "" {
		grain = h.analytics.Grain()
	}

	points, err := h.analytics.Series(r.Context(), q, grain)
	if err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.SeriesFile))

	if err := h.svc.SeriesCSV(w, points, grain); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to write series csv")
	}
}

func (h *Handler) transactionsCSV(w http.ResponseWriter, r *http.Request) {
	q, err := httpx.Query(r)
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return
	}

	txns, err := h.analytics.Classified(r.Context(), q)
	if err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.TransactionsFile))

	if err := h.svc.TransactionsCSV(w, txns); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to write transactions csv")
	}
}
