package error

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode string

// Error codes for different categories
const (
	// Authentication Errors (1xxx)
	ErrCodeUnauthorized ErrorCode = "AUTH_1001"
	ErrCodeNoMembership ErrorCode = "AUTH_1002"
	ErrCodeInvalidToken ErrorCode = "AUTH_1003"
	ErrCodeTokenExpired ErrorCode = "AUTH_1004"

	// Validation Errors (2xxx)
	ErrCodeInvalidRange     ErrorCode = "VALID_2001"
	ErrCodeInvalidRecipient ErrorCode = "VALID_2002"
	ErrCodeEmptySelection   ErrorCode = "VALID_2003"
	ErrCodeInvalidRequest   ErrorCode = "VALID_2004"

	// Distribution Errors (3xxx)
	ErrCodeNotApproved       ErrorCode = "DIST_3001"
	ErrCodeUnknownCollection ErrorCode = "DIST_3002"

	// Chain Errors (4xxx)
	ErrCodeCommitFailed    ErrorCode = "CHAIN_4001"
	ErrCodeCommitUnknown   ErrorCode = "CHAIN_4002"
	ErrCodeChainReadFailed ErrorCode = "CHAIN_4003"

	// Store Errors (5xxx)
	ErrCodeStoreWriteFailed ErrorCode = "STORE_5001"
	ErrCodeStoreReadFailed  ErrorCode = "STORE_5002"

	// Rate Limiting Errors (6xxx)
	ErrCodeRateLimitExceeded ErrorCode = "RATE_6001"

	// Server Errors (7xxx)
	ErrCodeInternalServerError ErrorCode = "SERVER_7001"
	ErrCodeConfigurationError  ErrorCode = "SERVER_7002"
)

// AppError represents a structured application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// CodeOf extracts the application error code from any error, or "" when the
// error does not carry one.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Common error constructors

// Authentication errors
func ErrUnauthorized(details string) *AppError {
	return NewAppError(ErrCodeUnauthorized, "Missing or invalid bearer token", details, nil)
}

func ErrNoMembership(userID string) *AppError {
	return NewAppError(ErrCodeNoMembership, "No organization membership", fmt.Sprintf("User ID: %s", userID), nil)
}

func ErrInvalidToken(details string) *AppError {
	return NewAppError(ErrCodeInvalidToken, "Invalid token", details, nil)
}

func ErrTokenExpired(details string) *AppError {
	return NewAppError(ErrCodeTokenExpired, "Token has expired", details, nil)
}

// Validation errors
func ErrInvalidRange(bound string, value string) *AppError {
	return NewAppError(ErrCodeInvalidRange, "Invalid date bound", fmt.Sprintf("%s: %s", bound, value), nil)
}

func ErrInvalidRecipient(details string) *AppError {
	return NewAppError(ErrCodeInvalidRecipient, "Invalid recipient", details, nil)
}

func ErrEmptySelection(collection string) *AppError {
	return NewAppError(ErrCodeEmptySelection, "No tokens available to send", fmt.Sprintf("Collection: %s", collection), nil)
}

func ErrMissingField(field string) *AppError {
	return NewAppError(ErrCodeInvalidRequest, "Missing required field", fmt.Sprintf("Field: %s", field), nil)
}

// Distribution errors
func ErrNotApproved(operator string) *AppError {
	return NewAppError(ErrCodeNotApproved, "Operator is not approved to move held tokens", fmt.Sprintf("Operator: %s", operator), nil)
}

func ErrUnknownCollection(collection string) *AppError {
	return NewAppError(ErrCodeUnknownCollection, "Unknown collection", fmt.Sprintf("Collection: %s", collection), nil)
}

// Chain errors
func ErrCommitFailed(operation string, cause error) *AppError {
	return NewAppError(ErrCodeCommitFailed, "External commit rejected", fmt.Sprintf("Operation: %s", operation), cause)
}

// ErrCommitUnknown marks a commit whose outcome could not be confirmed. The
// chain may or may not have applied it; callers must not treat this as a
// plain failure.
func ErrCommitUnknown(operation string, cause error) *AppError {
	return NewAppError(ErrCodeCommitUnknown, "External commit outcome unknown", fmt.Sprintf("Operation: %s", operation), cause)
}

// ErrChainReadFailed covers side-effect-free chain reads (holdings,
// approval state); callers may retry freely.
func ErrChainReadFailed(operation string, cause error) *AppError {
	return NewAppError(ErrCodeChainReadFailed, "External ledger read failed", fmt.Sprintf("Operation: %s", operation), cause)
}

// Store errors

// ErrStoreWriteFailed is raised when the audit append fails after a confirmed
// external commit. The commit hash is carried in the details so the operator
// can reconcile the ledger by hand. The commit is never re-issued.
func ErrStoreWriteFailed(txHash string, cause error) *AppError {
	return NewAppError(ErrCodeStoreWriteFailed, "Audit record write failed after confirmed commit", fmt.Sprintf("Tx: %s", txHash), cause)
}

func ErrStoreReadFailed(operation string, cause error) *AppError {
	return NewAppError(ErrCodeStoreReadFailed, "Ledger read failed", fmt.Sprintf("Operation: %s", operation), cause)
}

// Rate limiting errors
func ErrRateLimitExceeded(attempts int, window string) *AppError {
	return NewAppError(ErrCodeRateLimitExceeded, "Too many requests", fmt.Sprintf("Attempts: %d, Window: %s", attempts, window), nil)
}

// Server errors
func ErrInternalServerError(details string, cause error) *AppError {
	return NewAppError(ErrCodeInternalServerError, "Internal server error", details, cause)
}

func ErrConfigurationError(config string) *AppError {
	return NewAppError(ErrCodeConfigurationError, "Configuration error", fmt.Sprintf("Config: %s", config), nil)
}

// Error mapping for HTTP status codes
func GetHTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case ErrCodeUnauthorized, ErrCodeInvalidToken, ErrCodeTokenExpired:
			return 401 // Unauthorized
		case ErrCodeNoMembership:
			return 403 // Forbidden
		case ErrCodeInvalidRange, ErrCodeInvalidRecipient, ErrCodeEmptySelection, ErrCodeInvalidRequest, ErrCodeUnknownCollection:
			return 400 // Bad Request
		case ErrCodeNotApproved:
			return 409 // Conflict
		case ErrCodeRateLimitExceeded:
			return 429 // Too Many Requests
		case ErrCodeCommitFailed, ErrCodeCommitUnknown, ErrCodeChainReadFailed:
			return 502 // Bad Gateway
		case ErrCodeStoreWriteFailed, ErrCodeStoreReadFailed:
			return 500 // Internal Server Error
		}
	}
	return 500 // Default to Internal Server Error
}

// Error response structure for API responses
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *AppError `json:"error"`
	TraceID string    `json:"trace_id,omitempty"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(err *AppError, traceID string) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Error:   err,
		TraceID: traceID,
	}
}
