package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Credentials is the slice of a stored user record that authentication needs.
type Credentials struct {
	UserID       string
	PasswordHash string
	Operations   []string
	Audit        bool
}

// CredentialStore looks up stored credentials by email. Implemented by the
// user repository; a nil record with no error never happens, a miss is
// ErrUnknownUser.
type CredentialStore interface {
	GetCredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
}

var ErrUnknownUser = errors.New("unknown user")

// Service exchanges email/password credentials for a signed token.
type Service struct {
	store CredentialStore
	codec *TokenCodec
}

func NewService(store CredentialStore, codec *TokenCodec) *Service {
	return &Service{
		store: store,
		codec: codec,
	}
}

// Authenticate validates the credentials and issues a token carrying the
// user's operations and audit flag. Wrong email and wrong password are
// indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (string, error) {
	if err := dto.Validate(); err != nil {
		return "", err
	}

	creds, err := s.store.GetCredentialsByEmail(ctx, dto.Email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.codec.Issue(Principal{
		UserID:     creds.UserID,
		Operations: creds.Operations,
		Audit:      creds.Audit,
	})
}

// VerifyToken validates a token string and returns its claims.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	return s.codec.Verify(tokenString)
}

var ErrInvalidCredentials = errors.New("invalid email or password")

// HashPassword creates a bcrypt hash of the password.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a bcrypt hash with a plain text password.
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
