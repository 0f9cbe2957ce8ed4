package user

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/product-catalog/internal/auth"
)

const (
	firstNameMinLength = 2
	firstNameMaxLength = 20
	lastNameMinLength  = 5
	lastNameMaxLength  = 20
	emailMinLength     = 5
	emailMaxLength     = 255
	passwordMinLength  = 5
	passwordMaxLength  = 1024
)

// CreateUserDTO is the admin-facing registration payload. Audit is a pointer
// so a missing key is distinguishable from an explicit false.
type CreateUserDTO struct {
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Operations []string `json:"operations"`
	Audit      *bool    `json:"audit"`
}

// Validate checks the payload and returns the first failure.
func (d CreateUserDTO) Validate() error {
	if err := lengthBetween("firstName", d.FirstName, firstNameMinLength, firstNameMaxLength); err != nil {
		return err
	}
	if err := lengthBetween("lastName", d.LastName, lastNameMinLength, lastNameMaxLength); err != nil {
		return err
	}
	if err := lengthBetween("email", d.Email, emailMinLength, emailMaxLength); err != nil {
		return err
	}
	if !strings.Contains(d.Email, "@") {
		return fmt.Errorf("email is not a valid address")
	}
	if err := lengthBetween("password", d.Password, passwordMinLength, passwordMaxLength); err != nil {
		return err
	}
	if d.Audit == nil {
		return fmt.Errorf("audit is required")
	}
	for _, op := range d.Operations {
		if !auth.IsKnownOperation(op) {
			return fmt.Errorf("operation not recognized: %s", op)
		}
	}
	return nil
}

func lengthBetween(field, value string, min, max int) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	if len(value) < min || len(value) > max {
		return fmt.Errorf("%s must be between %d and %d characters", field, min, max)
	}
	return nil
}
