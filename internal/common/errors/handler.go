// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// HTTPErrorHandler turns errors into logged JSON responses.
type HTTPErrorHandler struct {
	logger Logger
}

func NewHTTPErrorHandler(logger Logger) *HTTPErrorHandler {
	return &HTTPErrorHandler{logger: logger}
}

// Handle normalizes err, logs it and writes the error body with the mapped status.
func (h *HTTPErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := AsStandardError(err)
	status := HTTPStatus(stdErr.Code)
	requestID := chiMiddleware.GetReqID(r.Context())

	h.logError(r, stdErr, status, requestID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:     stdErr.Message,
		Details:   stdErr.Details,
		Code:      string(stdErr.Code),
		RequestID: requestID,
	})
}

func (h *HTTPErrorHandler) logError(r *http.Request, stdErr *StandardError, status int, requestID string) {
	if h.logger == nil {
		return
	}
	fields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"status":        status,
		"path":          r.URL.Path,
		"requestId":     requestID,
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields)
		return
	}
	h.logger.Warn("request rejected", fields)
}
