package user

import (
	"errors"
	"time"
)

// User is a stored account. PasswordHash never leaves the service: it is
// excluded from JSON wholesale rather than stripped per handler.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;column:id"`
	FirstName    string    `json:"firstName" gorm:"column:first_name"`
	LastName     string    `json:"lastName" gorm:"column:last_name"`
	Email        string    `json:"email" gorm:"column:email;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"column:password_hash"`
	Operations   []string  `json:"operations" gorm:"column:operations;serializer:json"`
	Audit        bool      `json:"audit" gorm:"column:audit"`
	CreatedAt    time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Domain errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("user already registered")
	ErrMissingID    = errors.New("userId not specified")
)
