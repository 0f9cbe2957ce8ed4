package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/product-catalog/internal/pagination"
	"github.com/frahmantamala/product-catalog/internal/product"
)

// ProductRepository implements the product.Repository interface using GORM
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) product.Repository {
	return &ProductRepository{db: db}
}

// columnByField maps the API's JSON attribute names onto columns. Unknown
// filter/sort fields are passed through to the database as-is; a name the
// schema does not know fails the query, which surfaces as a storage error.
var columnByField = map[string]string{
	"id":                "id",
	"sku":               "sku",
	"code":              "code",
	"unitOfMeasure":     "unit_of_measure",
	"materialID":        "material_id",
	"description":       "description",
	"category":          "category",
	"manufacturer":      "manufacturer",
	"consumerUnits":     "consumer_units",
	"multiPackDiscount": "multi_pack_discount",
	"isMultiCop":        "is_multi_cop",
	"isMultiSkoal":      "is_multi_skoal",
	"isMultiRedSeal":    "is_multi_red_seal",
	"pullPMUSA":         "pull_pmusa",
	"pullPMUSAAll":      "pull_pmusa_all",
	"pullUSSTC":         "pull_usstc",
	"multiCanDiscount":  "multi_can_discount",
	"isValidUPC":        "is_valid_upc",
	"createdAt":         "created_at",
	"updatedAt":         "updated_at",
}

func columnFor(field string) string {
	if column, ok := columnByField[field]; ok {
		return column
	}
	return field
}

func (r *ProductRepository) Insert(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	var p product.Product
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Find(ctx context.Context, q pagination.Query) ([]*product.Product, error) {
	tx := r.db.WithContext(ctx).Model(&product.Product{})

	for field, value := range q.Filter {
		tx = tx.Where(map[string]interface{}{columnFor(field): value})
	}
	if q.SortBy != "" {
		tx = tx.Order(columnFor(q.SortBy) + " asc")
	}

	var products []*product.Product
	err := tx.Offset(q.Skip).Limit(q.Limit).Find(&products).Error
	return products, err
}

func (r *ProductRepository) UpdateByID(ctx context.Context, id string, p *product.Product) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Save(p).Error
}

func (r *ProductRepository) DeleteByID(ctx context.Context, id string) (*product.Product, error) {
	deleted, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&product.Product{}).Error; err != nil {
		return nil, err
	}
	return deleted, nil
}
