package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/damon-houk/exchange-rates-calculator/internal/application/service"
	"github.com/damon-houk/exchange-rates-calculator/internal/domain/entity"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/logger"
)

// writeJSON sends a JSON body with the given status
func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	writeJSON(w, statusCode, ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	})
}

// sendLookupError maps a failed rate or history lookup onto an HTTP error
func sendLookupError(w http.ResponseWriter, log logger.Logger, err error, requestID string) {
	fields := map[string]interface{}{
		"request_id": requestID,
		"error":      err.Error(),
	}

	switch {
	case errors.Is(err, entity.ErrUnknownCurrency):
		log.Warn("Unknown currency", fields)
		sendErrorResponse(w, log, "Unknown currency",
			"Supported currencies are listed at /currencies", http.StatusBadRequest, requestID)
	case errors.Is(err, entity.ErrInvalidAmount):
		log.Warn("Invalid amount", fields)
		sendErrorResponse(w, log, "Invalid amount",
			"Amount must be a non-negative number", http.StatusBadRequest, requestID)
	case errors.Is(err, service.ErrRemoteFetch):
		log.Error("Exchange rate service error", fields)
		sendErrorResponse(w, log, "Exchange rate service unavailable",
			"Unable to retrieve exchange rate data. Please try again later.",
			http.StatusBadGateway, requestID)
	default:
		log.Error("Unexpected error", fields)
		sendErrorResponse(w, log, "Internal server error",
			"An unexpected error occurred. Please try again later.",
			http.StatusInternalServerError, requestID)
	}
}
