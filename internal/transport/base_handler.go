package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/product-catalog/internal"
	"github.com/frahmantamala/product-catalog/pkg/logger"
)

// AuthTokenHeader carries the signed token on every protected request.
const AuthTokenHeader = "x-auth-token"

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.Default()
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

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResp := map[string]interface{}{
		"code":    status,
		"message": message,
	}

	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		h.Logger.Error("failed to encode error response", "error", err)
	}
}

// HandleServiceError translates a service error into an HTTP response. Every
// error crossing a handler boundary goes through here; unknown errors become
// a 500 with a short diagnostic, never a stack trace.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		h.WriteError(w, appErr.StatusCode, appErr.Message)
		return
	}
	h.WriteError(w, http.StatusInternalServerError, "internal server error")
}

// TokenFromHeader extracts the signed token from the x-auth-token header.
func TokenFromHeader(r *http.Request) string {
	return r.Header.Get(AuthTokenHeader)
}
