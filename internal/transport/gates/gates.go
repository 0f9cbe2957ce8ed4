// Package gates runs ordered request interceptors with an explicit
// continue-or-short-circuit contract. A route lists its gates at registration
// time and a single dispatcher loop executes them per request, so the control
// flow is visible in one place instead of being threaded through nested
// handler wrappers.
package gates

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/product-catalog/internal"
)

// Outcome is the result of one gate: either carry on with a (possibly
// derived) request context, or stop the chain with a response.
type Outcome struct {
	ctx    context.Context
	status int
	body   string
	halted bool
}

// Continue lets the chain proceed, propagating ctx to later gates and the
// final handler.
func Continue(ctx context.Context) Outcome {
	return Outcome{ctx: ctx}
}

// Respond short-circuits the chain with the given status and message.
func Respond(status int, body string) Outcome {
	return Outcome{status: status, body: body, halted: true}
}

// RespondError short-circuits the chain with an application error, keeping
// its status and message.
func RespondError(err *internal.AppError) Outcome {
	return Respond(err.StatusCode, err.Message)
}

// Gate inspects a request and decides whether the chain continues.
type Gate func(r *http.Request) Outcome

// Chain adapts an ordered gate list into chi-compatible middleware. Gates run
// in the order given; the first halting outcome wins and the final handler is
// never reached.
func Chain(logger *slog.Logger, chain ...Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := r
			for _, gate := range chain {
				outcome := gate(req)
				if outcome.halted {
					writeHalt(w, logger, outcome)
					return
				}
				if outcome.ctx != nil {
					req = req.WithContext(outcome.ctx)
				}
			}
			next.ServeHTTP(w, req)
		})
	}
}

func writeHalt(w http.ResponseWriter, logger *slog.Logger, outcome Outcome) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(outcome.status)

	resp := map[string]interface{}{
		"code":    outcome.status,
		"message": outcome.body,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil && logger != nil {
		logger.Error("failed to encode gate response", "error", err)
	}
}
