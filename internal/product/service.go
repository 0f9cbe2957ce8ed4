package product

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/frahmantamala/product-catalog/internal"
	"github.com/frahmantamala/product-catalog/internal/pagination"
)

// Repository is the storage collaborator for products. A lookup miss is
// ErrProductNotFound, never a nil record and never a panic; other errors are
// genuine storage failures.
type Repository interface {
	Insert(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	Find(ctx context.Context, q pagination.Query) ([]*Product, error)
	UpdateByID(ctx context.Context, id string, p *Product) error
	DeleteByID(ctx context.Context, id string) (*Product, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and stores a new product with a generated id.
func (s *Service) Create(ctx context.Context, dto UpsertProductDTO) (*Product, error) {
	p := &Product{ID: uuid.NewString()}
	dto.apply(p)
	p.Normalize()

	if err := p.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("product created", "product_id", p.ID, "sku", p.SKU)
	return p, nil
}

// Update replaces an existing product wholesale after full validation.
// The target must exist; a miss surfaces as ErrProductNotFound.
func (s *Service) Update(ctx context.Context, id string, dto UpsertProductDTO) (*Product, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	dto.apply(&updated)
	updated.Normalize()

	if err := updated.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if err := s.repo.UpdateByID(ctx, id, &updated); err != nil {
		return nil, err
	}

	s.logger.Info("product updated", "product_id", id)
	return &updated, nil
}

// Patch merges the submitted fields onto a freshly loaded record. Keys
// outside the allow-list are logged and ignored; the merged record is then
// re-validated as a whole before persisting. Known keys with values of the
// wrong JSON type fail the merge and surface as a validation error.
func (s *Service) Patch(ctx context.Context, id string, fields map[string]interface{}) (*Product, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		if !IsKnownField(key) {
			s.logger.Warn("patch key not recognized, ignoring", "product_id", id, "key", key)
			continue
		}
		allowed[key] = value
	}

	patched := *existing
	raw, err := json.Marshal(allowed)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &patched); err != nil {
		return nil, internal.NewValidationError("patch value has wrong type: "+err.Error(), internal.ErrCodeValidationFailed)
	}
	patched.Normalize()

	if err := patched.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if err := s.repo.UpdateByID(ctx, id, &patched); err != nil {
		return nil, err
	}

	s.logger.Info("product patched", "product_id", id)
	return &patched, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	return s.repo.FindBySKU(ctx, sku)
}

// List fetches one page of products. The projection list, when present,
// restricts which attributes appear per result.
func (s *Service) List(ctx context.Context, params pagination.Params) ([]map[string]interface{}, error) {
	products, err := s.repo.Find(ctx, params.Query())
	if err != nil {
		return nil, err
	}
	return projectAll(products, params.Select), nil
}

func (s *Service) Delete(ctx context.Context, id string) (*Product, error) {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product deleted", "product_id", id)
	return deleted, nil
}

// projectAll shapes each record for the response, keeping only the selected
// JSON attributes when a projection is requested.
func projectAll(products []*Product, selected []string) []map[string]interface{} {
	results := make([]map[string]interface{}, 0, len(products))
	for _, p := range products {
		results = append(results, project(p, selected))
	}
	return results
}

func project(p *Product, selected []string) map[string]interface{} {
	raw, _ := json.Marshal(p)
	var full map[string]interface{}
	_ = json.Unmarshal(raw, &full)

	if len(selected) == 0 {
		return full
	}

	out := make(map[string]interface{}, len(selected)+1)
	out["id"] = full["id"]
	for _, field := range selected {
		if value, ok := full[field]; ok {
			out[field] = value
		}
	}
	return out
}
