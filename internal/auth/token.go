package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrBadSignature   = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

// Claims are the signed contents of an auth token: who the caller is, what
// they may do, and whether their activity is reported to the audit sink.
type Claims struct {
	UserID     string   `json:"userId"`
	Operations []string `json:"operations"`
	Audit      bool     `json:"audit"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies auth tokens with a symmetric HMAC key.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a token for the given principal, expiring after the codec TTL.
func (c *TokenCodec) Issue(p Principal) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID:     p.UserID,
		Operations: p.Operations,
		Audit:      p.Audit,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   p.UserID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify parses and validates a token string, returning the embedded claims.
// Failures are always one of the typed errors above; Verify never panics and
// never returns the library's raw errors to callers.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// Principal builds the request-scoped identity from verified claims.
func (cl *Claims) Principal() Principal {
	return Principal{
		UserID:     cl.UserID,
		Operations: cl.Operations,
		Audit:      cl.Audit,
	}
}
