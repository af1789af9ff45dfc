package transport

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// SuccessResponse is the envelope for every successful API response.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	h.WriteJSON(w, status, SuccessResponse{Success: true, Message: message, Data: data})
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, errors.Response{Success: false, Error: message})
}

// HandleError maps err onto the API error envelope. AppErrors keep their
// status and message. Anything else is logged and reported as a 500.
func (h *BaseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	lg := logger.From(r.Context())

	if appErr, ok := errors.IsAppError(err); ok {
		status, body := appErr.ToHTTPResponse()
		switch {
		case status >= http.StatusInternalServerError:
			lg.ErrorContext(r.Context(), "request failed", "status", status, "error", appErr.Error())
			body = errors.Response{Success: false, Error: appErr.Message, Code: appErr.Code}
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			lg.WarnContext(r.Context(), "request rejected", "status", status, "error", appErr.Error())
		default:
			lg.InfoContext(r.Context(), "request invalid", "status", status, "error", appErr.Error())
		}
		h.WriteJSON(w, status, body)
		return
	}

	lg.ErrorContext(r.Context(), "unhandled error", "error", err)
	h.WriteError(w, http.StatusInternalServerError, "Internal server error")
}

// DecodeJSON decodes the request body into dst. An empty or malformed body is
// a validation error.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.NewValidationError("Request body is required", errors.ErrCodeInvalidInput)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if err == io.EOF {
			return errors.NewValidationError("Request body is required", errors.ErrCodeInvalidInput)
		}
		return errors.NewValidationError("Invalid request body", errors.ErrCodeInvalidInput).WithCause(err)
	}
	return nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}
