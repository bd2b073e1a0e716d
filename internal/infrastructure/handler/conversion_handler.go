// Package handler internal/infrastructure/handler/conversion_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/damon-houk/exchange-rates-calculator/internal/application/service"
	"github.com/damon-houk/exchange-rates-calculator/internal/domain/entity"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/logger"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/middleware"
)

// ConversionHandler handles HTTP requests for currency conversion
type ConversionHandler struct {
	service *service.ConversionService
	logger  logger.Logger
}

// NewConversionHandler creates a new conversion handler
func NewConversionHandler(service *service.ConversionService, log logger.Logger) *ConversionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionHandler{
		service: service,
		logger:  log,
	}
}

// Convert handles converting an amount between two currencies
func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	h.logger.Info("Handling convert request", map[string]interface{}{
		"request_id": requestID,
		"from":       query.Get("from"),
		"to":         query.Get("to"),
	})

	if query.Get("from") == "" || query.Get("to") == "" {
		h.logger.Warn("Missing currency parameter", map[string]interface{}{
			"request_id": requestID,
		})
		sendErrorResponse(w, h.logger, "Missing currency parameter",
			"The 'from' and 'to' query parameters are required", http.StatusBadRequest, requestID)
		return
	}

	rawAmount := query.Get("amount")
	if rawAmount == "" {
		sendErrorResponse(w, h.logger, "Missing amount parameter",
			"The 'amount' query parameter is required", http.StatusBadRequest, requestID)
		return
	}

	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		h.logger.Warn("Invalid amount", map[string]interface{}{
			"request_id": requestID,
			"amount":     rawAmount,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid amount",
			"Amount must be a non-negative number", http.StatusBadRequest, requestID)
		return
	}

	pair, err := entity.NewExchangePair(query.Get("from"), query.Get("to"))
	if err != nil {
		sendLookupError(w, h.logger, err, requestID)
		return
	}

	conversion, err := h.service.Convert(r.Context(), pair, amount)
	if err != nil {
		sendLookupError(w, h.logger, err, requestID)
		return
	}

	writeJSON(w, http.StatusOK, ConversionResponse{
		Base:            pair.Base.Code,
		Target:          pair.Target.Code,
		Amount:          json.Number(conversion.Amount.String()),
		Rate:            json.Number(conversion.Rate.String()),
		ConvertedAmount: json.Number(conversion.ConvertedAmount.StringFixed(2)),
		FetchedAt:       conversion.FetchedAt.UTC().Format(time.RFC3339),
	})
}

// RegisterRoutes registers the conversion handler routes
func (h *ConversionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/convert", h.Convert).Methods("GET")

	h.logger.Info("Conversion routes registered", map[string]interface{}{
		"routes": []string{
			"GET /convert",
		},
	})
}
