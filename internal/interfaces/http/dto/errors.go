package dto

import "net/http"

// Transport-level error codes for failures that never reach the domain
const (
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeInvalidJSON = "INVALID_JSON"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back to 500.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,
	ErrCodeInternal:    http.StatusInternalServerError,

	// Validation failures -> 400 Bad Request
	"INVALID_INPUT":       http.StatusBadRequest,
	"INVALID_SERIES":      http.StatusBadRequest,
	"INVALID_STATUS":      http.StatusBadRequest,
	"INVALID_CONTACT":     http.StatusBadRequest,
	"INVALID_NAME":        http.StatusBadRequest,
	"INVALID_TYPE":        http.StatusBadRequest,
	"INVALID_EMAIL":       http.StatusBadRequest,
	"INVALID_NUMBER":      http.StatusBadRequest,
	"INVALID_DESCRIPTION": http.StatusBadRequest,
	"INVALID_QUANTITY":    http.StatusBadRequest,
	"INVALID_RATE":        http.StatusBadRequest,
	"INVALID_TAX_RATE":    http.StatusBadRequest,
	"INVALID_DISCOUNT":    http.StatusBadRequest,
	"INVALID_ADJUSTMENT":  http.StatusBadRequest,
	"NO_ITEMS":            http.StatusBadRequest,

	"INVALID_SUBJECT":      http.StatusBadRequest,
	"INVALID_PRIORITY":     http.StatusBadRequest,
	"INVALID_START_DATE":   http.StatusBadRequest,
	"INVALID_RELATED_TYPE": http.StatusBadRequest,
	"INVALID_RELATED_REF":  http.StatusBadRequest,
	"INVALID_REQUESTER":    http.StatusBadRequest,

	// Resource errors
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"DUPLICATE_REQUEST":    http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"INVALID_TRANSITION": http.StatusUnprocessableEntity,
	"NUMBER_IMMUTABLE":   http.StatusUnprocessableEntity,

	// A sequence conflict that survived the retry is a server-side fault
	"SEQUENCE_CONFLICT": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error for unknown codes.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
