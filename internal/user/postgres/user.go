package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/product-catalog/internal/auth"
	"github.com/frahmantamala/product-catalog/internal/pagination"
	"github.com/frahmantamala/product-catalog/internal/user"
)

// UserRepository implements the user.Repository interface using GORM. It also
// serves the auth package as its credential store.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var columnByField = map[string]string{
	"id":         "id",
	"firstName":  "first_name",
	"lastName":   "last_name",
	"email":      "email",
	"operations": "operations",
	"audit":      "audit",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
}

func columnFor(field string) string {
	if column, ok := columnByField[field]; ok {
		return column
	}
	return field
}

func (r *UserRepository) Insert(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Find(ctx context.Context, q pagination.Query) ([]*user.User, error) {
	tx := r.db.WithContext(ctx).Model(&user.User{})

	for field, value := range q.Filter {
		tx = tx.Where(map[string]interface{}{columnFor(field): value})
	}
	if q.SortBy != "" {
		tx = tx.Order(columnFor(q.SortBy) + " asc")
	}

	var users []*user.User
	err := tx.Offset(q.Skip).Limit(q.Limit).Find(&users).Error
	return users, err
}

func (r *UserRepository) DeleteByID(ctx context.Context, id string) (*user.User, error) {
	deleted, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&user.User{}).Error; err != nil {
		return nil, err
	}
	return deleted, nil
}

// GetCredentialsByEmail satisfies auth.CredentialStore for the login flow.
func (r *UserRepository) GetCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	u, err := r.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, auth.ErrUnknownUser
		}
		return nil, err
	}
	return &auth.Credentials{
		UserID:       u.ID,
		PasswordHash: u.PasswordHash,
		Operations:   u.Operations,
		Audit:        u.Audit,
	}, nil
}
