package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/product-catalog/internal/auth"
	"github.com/frahmantamala/product-catalog/internal/product"
	"github.com/frahmantamala/product-catalog/internal/transport/gates"
	"github.com/frahmantamala/product-catalog/internal/transport/middleware"
	"github.com/frahmantamala/product-catalog/internal/transport/swagger"
	"github.com/frahmantamala/product-catalog/internal/user"
)

// RegisterAllRoutes wires every endpoint. Each protected route declares its
// gate chain inline, so the token check and the operation it demands are
// readable at the registration site.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, verifier middleware.TokenVerifier, authHandler *auth.Handler, productHandler *product.Handler, userHandler *user.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	authenticated := gates.Chain(logger, middleware.Authenticator(verifier, logger))
	guarded := func(operation string) func(http.Handler) http.Handler {
		return gates.Chain(logger,
			middleware.Authenticator(verifier, logger),
			middleware.RequireOperation(operation, logger),
		)
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Login is the only public endpoint
		r.Post("/auth", authHandler.Login)

		r.Route("/products", func(pr chi.Router) {
			pr.With(guarded(auth.OpProdList)).Get("/", productHandler.Get)
			pr.With(guarded(auth.OpProdUpsert)).Post("/", productHandler.Create)
			pr.With(guarded(auth.OpProdUpsert)).Put("/", productHandler.Update)
			pr.With(guarded(auth.OpProdUpsert)).Patch("/", productHandler.Patch)
			pr.With(guarded(auth.OpProdDelete)).Delete("/", productHandler.Delete)
		})

		r.Route("/users", func(ur chi.Router) {
			ur.With(authenticated).Get("/me", userHandler.Me)

			ur.With(guarded(auth.OpUserList)).Get("/", userHandler.Get)
			ur.With(guarded(auth.OpUserUpsert)).Post("/", userHandler.Create)
			ur.With(guarded(auth.OpUserDelete)).Delete("/", userHandler.Delete)
		})
	})
}
