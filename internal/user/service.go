package user

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/frahmantamala/product-catalog/internal"
	"github.com/frahmantamala/product-catalog/internal/auth"
	"github.com/frahmantamala/product-catalog/internal/pagination"
)

// Repository is the storage collaborator for users. A miss is
// ErrUserNotFound, not a nil record.
type Repository interface {
	Insert(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Find(ctx context.Context, q pagination.Query) ([]*User, error)
	DeleteByID(ctx context.Context, id string) (*User, error)
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Create registers a new user. Email uniqueness is enforced by an explicit
// lookup before insert; the storage layer is not assumed to enforce it
// natively.
func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, err := s.repo.FindByEmail(ctx, dto.Email); err == nil {
		s.logger.Warn("user already registered", "email", dto.Email)
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("could not hash password", err)
	}

	u := &User{
		ID:           uuid.NewString(),
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Email:        dto.Email,
		PasswordHash: hash,
		Operations:   dto.Operations,
		Audit:        *dto.Audit,
	}

	if err := s.repo.Insert(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "email", u.Email)
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// List fetches one page of users. When no projection is requested only email
// and operations are returned per user, which is all a listing is meant to
// expose.
func (s *Service) List(ctx context.Context, params pagination.Params) ([]map[string]interface{}, error) {
	if len(params.Select) == 0 {
		params.Select = []string{"email", "operations"}
	}

	users, err := s.repo.Find(ctx, params.Query())
	if err != nil {
		return nil, err
	}

	results := make([]map[string]interface{}, 0, len(users))
	for _, u := range users {
		results = append(results, project(u, params.Select))
	}
	return results, nil
}

func (s *Service) Delete(ctx context.Context, id string) (*User, error) {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user deleted", "user_id", id)
	return deleted, nil
}

func project(u *User, selected []string) map[string]interface{} {
	raw, _ := json.Marshal(u)
	var full map[string]interface{}
	_ = json.Unmarshal(raw, &full)

	out := make(map[string]interface{}, len(selected)+1)
	out["id"] = full["id"]
	for _, field := range selected {
		if value, ok := full[field]; ok {
			out[field] = value
		}
	}
	return out
}
