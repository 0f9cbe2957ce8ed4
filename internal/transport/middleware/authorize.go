package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/product-catalog/internal"
	"github.com/frahmantamala/product-catalog/internal/auth"
	"github.com/frahmantamala/product-catalog/internal/transport/gates"
)

// RequireOperation gates requests on a single operation name, fixed at route
// registration time. The authentication gate must have run first; a request
// with no principal is rejected outright. Several RequireOperation gates on
// one route AND together.
func RequireOperation(operation string, logger *slog.Logger) gates.Gate {
	return func(r *http.Request) gates.Outcome {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			logger.Warn("authorization gate: no principal in context", "operation", operation)
			return gates.RespondError(internal.ErrMissingToken)
		}

		if !principal.HasOperation(operation) {
			logger.Warn("access denied: principal lacks operation",
				"user_id", principal.UserID,
				"required_operation", operation,
				"operations", principal.Operations)
			return gates.RespondError(internal.ErrOperationNotAllowed)
		}

		return gates.Continue(r.Context())
	}
}
