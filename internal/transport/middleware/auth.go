package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/product-catalog/internal"
	"github.com/frahmantamala/product-catalog/internal/auth"
	"github.com/frahmantamala/product-catalog/internal/transport"
	"github.com/frahmantamala/product-catalog/internal/transport/gates"
)

// TokenVerifier is the slice of the token codec the authentication gate needs.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// Authenticator gates requests on a verifiable x-auth-token header. A missing
// header is 401, a token that fails verification is 400; the two stay
// distinct on purpose. On success the decoded principal is attached to the
// request context for later gates and handlers. This gate never touches
// storage.
func Authenticator(verifier TokenVerifier, logger *slog.Logger) gates.Gate {
	return func(r *http.Request) gates.Outcome {
		token := transport.TokenFromHeader(r)
		if token == "" {
			logger.Warn("auth gate: no token provided", "path", r.URL.Path)
			return gates.RespondError(internal.ErrMissingToken)
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			logger.Warn("auth gate: token rejected", "error", err, "path", r.URL.Path)
			return gates.RespondError(internal.ErrInvalidToken)
		}

		return gates.Continue(auth.ContextWithPrincipal(r.Context(), claims.Principal()))
	}
}
