package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/damon-houk/exchange-rates-calculator/internal/application/service"
	"github.com/damon-houk/exchange-rates-calculator/internal/domain/entity"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/logger"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/middleware"
)

// RateHandler handles HTTP requests for currencies, rates and rate history
type RateHandler struct {
	rates   *service.RateCacheService
	history *service.HistoryCacheService
	logger  logger.Logger
}

// NewRateHandler creates a new rate handler
func NewRateHandler(rates *service.RateCacheService, history *service.HistoryCacheService, log logger.Logger) *RateHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateHandler{
		rates:   rates,
		history: history,
		logger:  log,
	}
}

// ListCurrencies returns the currency catalog
func (h *RateHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies := entity.Currencies()
	resp := make([]CurrencyResponse, 0, len(currencies))
	for _, c := range currencies {
		resp = append(resp, CurrencyResponse{Code: c.Code, Label: c.Label, Symbol: c.Symbol})
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListPairs returns every ordered pair of distinct currencies
func (h *RateHandler) ListPairs(w http.ResponseWriter, r *http.Request) {
	pairs := entity.Combinations()
	resp := make([]PairResponse, 0, len(pairs))
	for _, p := range pairs {
		resp = append(resp, PairResponse{Base: p.Base.Code, Target: p.Target.Code})
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetRate handles retrieving the current rate of a pair
func (h *RateHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	vars := mux.Vars(r)

	pair, err := entity.NewExchangePair(vars["base"], vars["target"])
	if err != nil {
		sendLookupError(w, h.logger, err, requestID)
		return
	}

	h.logger.Info("Handling get rate request", map[string]interface{}{
		"request_id": requestID,
		"pair":       pair.String(),
	})

	snapshot, err := h.rates.GetRate(r.Context(), pair)
	if err != nil {
		sendLookupError(w, h.logger, err, requestID)
		return
	}

	writeJSON(w, http.StatusOK, RateResponse{
		Base:      pair.Base.Code,
		Target:    pair.Target.Code,
		Rate:      json.Number(snapshot.Rate.String()),
		FetchedAt: snapshot.FetchedAt.UTC().Format(time.RFC3339),
	})
}

// GetHistory handles retrieving the recent daily history of a pair
func (h *RateHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	vars := mux.Vars(r)

	pair, err := entity.NewExchangePair(vars["base"], vars["target"])
	if err != nil {
		sendLookupError(w, h.logger, err, requestID)
		return
	}

	h.logger.Info("Handling get history request", map[string]interface{}{
		"request_id": requestID,
		"pair":       pair.String(),
	})

	snapshot, err := h.history.GetHistorySnapshot(r.Context(), pair)
	if err != nil {
		sendLookupError(w, h.logger, err, requestID)
		return
	}

	resp := HistoryResponse{
		Base:      pair.Base.Code,
		Target:    pair.Target.Code,
		FetchedAt: snapshot.FetchedAt.UTC().Format(time.RFC3339),
		History:   make([]DailyRateResponse, 0, len(snapshot.Series)),
	}
	for _, d := range snapshot.Series {
		resp.History = append(resp.History, DailyRateResponse{
			Day:          d.Day.Format("2006-01-02"),
			ClosingPrice: json.Number(d.ClosingPrice.String()),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health reports that the process is serving
func (h *RateHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RegisterRoutes registers the rate handler routes
func (h *RateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/currencies", h.ListCurrencies).Methods("GET")
	router.HandleFunc("/pairs", h.ListPairs).Methods("GET")
	router.HandleFunc("/rates/{base}/{target}", h.GetRate).Methods("GET")
	router.HandleFunc("/rates/{base}/{target}/history", h.GetHistory).Methods("GET")
	router.HandleFunc("/healthz", h.Health).Methods("GET")

	h.logger.Info("Rate routes registered", map[string]interface{}{
		"routes": []string{
			"GET /currencies",
			"GET /pairs",
			"GET /rates/{base}/{target}",
			"GET /rates/{base}/{target}/history",
			"GET /healthz",
		},
	})
}
