package auth

import "context"

// Principal is the authenticated identity attached to one request. It is
// rebuilt from the token on every request and never persisted.
type Principal struct {
	UserID     string   `json:"userId"`
	Operations []string `json:"operations"`
	Audit      bool     `json:"audit"`
}

func (p Principal) HasOperation(operation string) bool {
	for _, op := range p.Operations {
		if op == operation {
			return true
		}
	}
	return false
}

type ctxKey string

const contextPrincipalKey ctxKey = "principal"

func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextPrincipalKey, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextPrincipalKey).(Principal)
	return p, ok
}
