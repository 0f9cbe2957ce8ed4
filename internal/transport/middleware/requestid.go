package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/frahmantamala/product-catalog/pkg/logger"
)

const traceHeader = "X-Trace-ID"

// RequestID assigns every request a trace id, honoring one supplied by the
// caller. The id rides the request-scoped logger and is echoed back in the
// response header so client and server logs line up.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "traceID", traceID)
		w.Header().Set(traceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
