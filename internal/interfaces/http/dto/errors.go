package dto

import (
	"net/http"
	"strings"
)

// Transport error codes. Domain codes pass through unchanged.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_FAILED"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "INVALID_TOKEN"
	ErrCodeTokenRevoked    = "TOKEN_REVOKED"
)

// Domain codes with a status other than 400
const (
	ErrCodePersistence        = "PERSISTENCE_FAILED"
	ErrCodeAssetBinding       = "ASSET_BINDING_FAILED"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeDraftNotFound      = "DRAFT_NOT_FOUND"
	ErrCodeInvalidTransition  = "INVALID_STATUS_TRANSITION"
	ErrCodeInvalidState       = "INVALID_STATE"
	ErrCodeProductInUse       = "PRODUCT_IN_USE"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeUnsupportedImage   = "UNSUPPORTED_IMAGE"
	ErrCodeWhatsAppMissing    = "WHATSAPP_NOT_CONFIGURED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodePersistence: http.StatusInternalServerError,

	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeUnsupportedImage: http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,

	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeProductNotFound: http.StatusNotFound,
	ErrCodeOrderNotFound:   http.StatusNotFound,
	ErrCodeDraftNotFound:   http.StatusNotFound,
	"VIEW_NOT_FOUND":       http.StatusNotFound,
	"ELEMENT_NOT_FOUND":    http.StatusNotFound,

	ErrCodeConflict:          http.StatusConflict,
	ErrCodeInvalidTransition: http.StatusConflict,
	ErrCodeInvalidState:      http.StatusConflict,
	ErrCodeProductInUse:      http.StatusConflict,
	ErrCodeEmailTaken:        http.StatusConflict,
	"ALREADY_EXISTS":         http.StatusConflict,
	"CONCURRENCY_CONFLICT":   http.StatusConflict,
	"DUPLICATE_ORDER_NUMBER": http.StatusConflict,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeAssetBinding:    http.StatusUnprocessableEntity,
	ErrCodeWhatsAppMissing: http.StatusUnprocessableEntity,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Codes shaped like INVALID_* and the other input checks of the domain default to 400;
// anything else unknown is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if isInputCode(code) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

var inputCodePrefixes = []string{"INVALID_", "DUPLICATE_", "OVERLAPPING_", "UNBOUNDED_", "MISSING_", "NO_", "ELEMENT_"}

func isInputCode(code string) bool {
	for _, p := range inputCodePrefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

// LegacyErrorCodeMapping folds the generic shared sentinels into transport codes
var LegacyErrorCodeMapping = map[string]string{
	"INVALID_INPUT":    ErrCodeValidation,
	"VALIDATION_ERROR": ErrCodeValidation,
}

// NormalizeErrorCode converts a legacy error code to the standardized format.
// Unknown codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
