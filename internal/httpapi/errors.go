// Package httpapi exposes the marketplace engine over a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"market_go/internal/domain"
)

// jsonError represents a JSON error payload.
type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message, Details: details})
}

// writeDomainError maps an engine error to a status code and error code.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	code := "bad_request"

	switch {
	case errors.Is(err, domain.ErrInvalidID):
		status, code = http.StatusNotFound, "unknown_asset"
	case errors.Is(err, domain.ErrNotOwner):
		status, code = http.StatusForbidden, "not_owner"
	case domain.IsUnauthorized(err):
		status, code = http.StatusForbidden, "unauthorized"
	case errors.Is(err, domain.ErrPaused):
		status, code = http.StatusServiceUnavailable, "paused"
	case errors.Is(err, domain.ErrNotForSale):
		code = "not_for_sale"
	case errors.Is(err, domain.ErrUnsupportedCurrency):
		code = "unsupported_currency"
	case errors.Is(err, domain.ErrNoPriceForCurrency):
		code = "no_price_for_currency"
	case errors.Is(err, domain.ErrZeroPrice):
		code = "zero_price"
	case errors.Is(err, domain.ErrInsufficientPayment):
		status, code = http.StatusPaymentRequired, "insufficient_payment"
	case errors.Is(err, domain.ErrInsufficientAuthorization):
		status, code = http.StatusPaymentRequired, "insufficient_authorization"
	case errors.Is(err, domain.ErrPaymentTransferFailed):
		status, code = http.StatusBadGateway, "payment_transfer_failed"
	case errors.Is(err, domain.ErrFeeReceiverUnset):
		status, code = http.StatusConflict, "fee_receiver_unset"
	case errors.Is(err, domain.ErrInvalidAddress):
		code = "invalid_address"
	default:
		status, code = http.StatusInternalServerError, "internal_error"
	}

	WriteJSONError(w, status, code, err.Error())
}
