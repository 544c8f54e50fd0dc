// Package errors provides the service-wide error taxonomy and its HTTP mapping.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Request errors
const (
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
)

// Upstream provider errors
const (
	ErrCodeUpstreamFailed             ErrorCode = "UPSTREAM_FAILED"
	ErrCodeUpstreamPermissionDenied   ErrorCode = "UPSTREAM_PERMISSION_DENIED"
	ErrCodeUpstreamQuotaExceeded      ErrorCode = "UPSTREAM_QUOTA_EXCEEDED"
	ErrCodeUpstreamServiceDisabled    ErrorCode = "UPSTREAM_SERVICE_DISABLED"
	ErrCodeUpstreamInvalidCredentials ErrorCode = "UPSTREAM_INVALID_CREDENTIALS"
	ErrCodeUpstreamTimeout            ErrorCode = "UPSTREAM_TIMEOUT"
	ErrCodeUpstreamMalformedResponse  ErrorCode = "UPSTREAM_MALFORMED_RESPONSE"
)

// Normalization errors
const (
	ErrCodeEmptyResponse ErrorCode = "EMPTY_RESPONSE"
	ErrCodeParseFailed   ErrorCode = "PARSE_FAILED"
)

// Storage errors
const (
	ErrCodeDatabaseQueryFailed ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeSearchQueryFailed   ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeCacheFailed         ErrorCode = "CACHE_FAILED"
	ErrCodeObjectFetchFailed   ErrorCode = "OBJECT_FETCH_FAILED"
)

const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: IsRetryableErrorCode(code),
		Timestamp: time.Now().UTC(),
	}
}

func detailsOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 2. Error Constructors
// ==========================

// NewUnauthorizedError is returned by the authentication gate.
func NewUnauthorizedError(details string) *StandardError {
	return newError(ErrCodeUnauthorized, "Unauthorized", details)
}

// NewBadRequestError reports a missing or invalid request field.
func NewBadRequestError(message, details string) *StandardError {
	return newError(ErrCodeBadRequest, message, details)
}

func NewPayloadTooLargeError(limit int64) *StandardError {
	return newError(ErrCodePayloadTooLarge, "Request body too large", fmt.Sprintf("limit is %d bytes", limit))
}

func NewNotFoundError(resource, id string) *StandardError {
	return newError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), id)
}

// NewUpstreamError builds one of the UPSTREAM_* errors for the named service.
func NewUpstreamError(code ErrorCode, service string, err error) *StandardError {
	msg := "Upstream request failed"
	switch code {
	case ErrCodeUpstreamPermissionDenied:
		msg = "Upstream provider denied permission"
	case ErrCodeUpstreamQuotaExceeded:
		msg = "Upstream quota exceeded"
	case ErrCodeUpstreamServiceDisabled:
		msg = "Upstream API is not enabled for this project"
	case ErrCodeUpstreamInvalidCredentials:
		msg = "Upstream credentials are invalid"
	case ErrCodeUpstreamTimeout:
		msg = "Upstream request timed out"
	case ErrCodeUpstreamMalformedResponse:
		msg = "Upstream returned a malformed response"
	default:
		code = ErrCodeUpstreamFailed
	}
	return newError(code, msg, detailsOf(err)).WithMetadata("service", service)
}

func NewMalformedResponseError(service, details string) *StandardError {
	return newError(ErrCodeUpstreamMalformedResponse, "Upstream returned a malformed response", details).
		WithMetadata("service", service)
}

// NewEmptyResponseError means the provider answered but carried no usable payload.
func NewEmptyResponseError(details string) *StandardError {
	return newError(ErrCodeEmptyResponse, "AI response contained no usable content", details)
}

func NewParseError(details string) *StandardError {
	return newError(ErrCodeParseFailed, "Structured content not found in AI response", details)
}

func NewDatabaseQueryError(operation string, err error) *StandardError {
	return newError(ErrCodeDatabaseQueryFailed, "Database operation failed", detailsOf(err)).
		WithMetadata("operation", operation)
}

func NewSearchQueryError(operation string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Search operation failed", detailsOf(err)).
		WithMetadata("operation", operation)
}

func NewCacheError(operation string, err error) *StandardError {
	return newError(ErrCodeCacheFailed, "Cache operation failed", detailsOf(err)).
		WithMetadata("operation", operation)
}

func NewObjectFetchError(path string, err error) *StandardError {
	return newError(ErrCodeObjectFetchFailed, "Failed to fetch stored object", detailsOf(err)).
		WithMetadata("path", path)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", detailsOf(err))
}

// ==========================
// 3. Classification
// ==========================

// UpstreamCodeFromStatus maps a provider's HTTP status and message to an upstream code.
// Providers reuse 403 for both permission and disabled-API failures, so the message decides.
func UpstreamCodeFromStatus(status int, message string) ErrorCode {
	upper := strings.ToUpper(message)
	switch {
	case strings.Contains(upper, "SERVICE_DISABLED") || strings.Contains(upper, "HAS NOT BEEN USED IN PROJECT"):
		return ErrCodeUpstreamServiceDisabled
	case strings.Contains(upper, "API_KEY_INVALID") || strings.Contains(upper, "API KEY NOT VALID"):
		return ErrCodeUpstreamInvalidCredentials
	}

	switch status {
	case http.StatusUnauthorized:
		return ErrCodeUpstreamInvalidCredentials
	case http.StatusForbidden:
		return ErrCodeUpstreamPermissionDenied
	case http.StatusTooManyRequests:
		return ErrCodeUpstreamQuotaExceeded
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrCodeUpstreamTimeout
	default:
		return ErrCodeUpstreamFailed
	}
}

// AsStandardError unwraps err into a StandardError, falling back to INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

// IsUpstream reports whether the code belongs to the UPSTREAM_* family.
func IsUpstream(code ErrorCode) bool {
	return strings.HasPrefix(string(code), "UPSTREAM_")
}

// HTTPStatus maps an error code to the response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeBadRequest, ErrCodePayloadTooLarge:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// IsRetryableErrorCode reports whether a caller could reasonably resubmit.
// The service itself never retries upstream calls.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeUpstreamTimeout,
		ErrCodeUpstreamQuotaExceeded,
		ErrCodeUpstreamFailed,
		ErrCodeDatabaseQueryFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeCacheFailed:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case code == ErrCodeUnauthorized:
		return "AUTH"
	case code == ErrCodeBadRequest || code == ErrCodePayloadTooLarge || code == ErrCodeNotFound:
		return "VALIDATION"
	case strings.HasPrefix(codeStr, "UPSTREAM"):
		return "UPSTREAM"
	case code == ErrCodeEmptyResponse || code == ErrCodeParseFailed:
		return "NORMALIZATION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "SEARCH") ||
		strings.Contains(codeStr, "CACHE") || strings.Contains(codeStr, "OBJECT"):
		return "STORAGE"
	default:
		return "OTHER"
	}
}
