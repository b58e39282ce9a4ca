package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeValidation is used when request validation fails
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeInvalidState is used when an operation is invalid for the
	// resource's current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
)

// Marketplace error codes
const (
	// ErrCodeNotConnected is used when a shop has no usable platform connection
	ErrCodeNotConnected = "ERR_SHOP_NOT_CONNECTED"
	// ErrCodeAuthFailed is used when the platform rejects our credentials
	ErrCodeAuthFailed = "ERR_PLATFORM_AUTH_FAILED"
	// ErrCodeSyncInProgress is used when a sync pass is already running for the shop
	ErrCodeSyncInProgress = "ERR_SYNC_IN_PROGRESS"
	// ErrCodeRemoteUnavailable is used when the platform cannot be reached
	ErrCodeRemoteUnavailable = "ERR_PLATFORM_UNAVAILABLE"
	// ErrCodeRemoteRejected is used when the platform rejects the requested operation
	ErrCodeRemoteRejected = "ERR_PLATFORM_REJECTED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,

	ErrCodeNotConnected:      http.StatusConflict,
	ErrCodeAuthFailed:        http.StatusBadGateway,
	ErrCodeSyncInProgress:    http.StatusConflict,
	ErrCodeRemoteUnavailable: http.StatusBadGateway,
	ErrCodeRemoteRejected:    http.StatusUnprocessableEntity,
}

// HTTPStatusForCode returns the HTTP status for an error code, defaulting to
// 500 for unknown codes.
func HTTPStatusForCode(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
