// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ErrorHandler turns errors into HTTP responses with standardized logging.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// WriteHTTPError normalizes err, logs it and writes {"detail": ...} with the
// status mapped from its code.
func (h *ErrorHandler) WriteHTTPError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := h.normalizeError(err)
	status := HTTPStatus(stdErr.Code)

	h.logError(r, stdErr, status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Detail: stdErr.Message})
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return NewInternalError(err)
}

func (h *ErrorHandler) logError(r *http.Request, stdErr *StandardError, status int) {
	fields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"status":        status,
		"method":        r.Method,
		"path":          r.URL.Path,
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields)
		return
	}
	h.logger.Warn("request rejected", fields)
}
