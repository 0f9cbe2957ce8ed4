package auth

import "strings"

const (
	emailMinLength    = 5
	emailMaxLength    = 255
	passwordMinLength = 5
	passwordMaxLength = 1024
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the body returned on successful authentication. The same
// token is also echoed in the x-auth-token response header.
type TokenResponse struct {
	Token string `json:"token"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

// Validate checks required fields and returns a ValidationError on failure.
func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if len(d.Email) < emailMinLength || len(d.Email) > emailMaxLength {
		return ValidationError{Msg: "email length is invalid"}
	}
	if !strings.Contains(d.Email, "@") {
		return ValidationError{Msg: "email is not a valid address"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	if len(d.Password) < passwordMinLength || len(d.Password) > passwordMaxLength {
		return ValidationError{Msg: "password length is invalid"}
	}
	return nil
}
