package matching

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cashflow/internal/http/httpx"
	"github.com/MrJamesThe3rd/cashflow/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Get("/similarity", h.similarity)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	Description string `json:"description"`
	Merchant    string `json:"merchant"`
	Learned     bool   `json:"learned"`
}

// suggest resolves the merchant of a description, preferring a learned alias.
func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	desc := r.URL.Query().Get("description")
	if desc == "" {
		httpx.Error(w, r, http.StatusBadRequest, errors.New("description query parameter is required"))
		return
	}

	alias, err := h.svc.Suggest(r.Context(), desc)
	if err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	resp := suggestResponse{Description: desc, Merchant: alias, Learned: alias != ""}
	if alias == "" {
		resp.Merchant = matching.ExtractMerchant(desc)
	}

	httpx.JSON(w, r, http.StatusOK, resp)
}

type similarityResponse struct {
	A     string  `json:"a"`
	B     string  `json:"b"`
	Score float64 `json:"score"`
}

func (h *Handler) similarity(w http.ResponseWriter, r *http.Request) {
	a, b := r.URL.Query().Get("a"), r.URL.Query().Get("b")

	httpx.JSON(w, r, http.StatusOK, similarityResponse{A: a, B: b, Score: matching.Similarity(a, b)})
}

type learnRequest struct {
	RawPattern string `json:"raw_pattern"`
	Merchant   string `json:"merchant"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, err)
		return
	}

	if req.RawPattern == "" || req.Merchant == "" {
		httpx.Error(w, r, http.StatusBadRequest, errors.New("raw_pattern and merchant are required"))
		return
	}

	if err := h.svc.Learn(r.Context(), req.RawPattern, req.Merchant); err != nil {
		httpx.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
