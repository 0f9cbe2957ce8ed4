package product

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Field length bounds mirrored by the database schema.
const (
	codeMinLength         = 8
	codeMaxLength         = 12
	materialIDMinLength   = 3
	materialIDMaxLength   = 5
	descriptionMinLength  = 6
	descriptionMaxLength  = 60
	categoryMinLength     = 3
	categoryMaxLength     = 30
	manufacturerMinLength = 5
	manufacturerMaxLength = 30
)

// UnitsOfMeasure are the accepted unitOfMeasure values. Input is normalized
// to upper case before the check.
var UnitsOfMeasure = []string{"PACK", "CARTON", "ROLL", "CAN", "EACH"}

// Product is a catalog entry.
type Product struct {
	ID                string    `json:"id" gorm:"primaryKey;column:id"`
	SKU               string    `json:"sku" gorm:"column:sku;uniqueIndex"`
	Code              string    `json:"code" gorm:"column:code"`
	UnitOfMeasure     string    `json:"unitOfMeasure" gorm:"column:unit_of_measure"`
	MaterialID        string    `json:"materialID" gorm:"column:material_id"`
	Description       string    `json:"description" gorm:"column:description"`
	Category          string    `json:"category" gorm:"column:category"`
	Manufacturer      string    `json:"manufacturer" gorm:"column:manufacturer"`
	ConsumerUnits     int       `json:"consumerUnits" gorm:"column:consumer_units"`
	MultiPackDiscount bool      `json:"multiPackDiscount" gorm:"column:multi_pack_discount"`
	IsMultiCop        bool      `json:"isMultiCop" gorm:"column:is_multi_cop"`
	IsMultiSkoal      bool      `json:"isMultiSkoal" gorm:"column:is_multi_skoal"`
	IsMultiRedSeal    bool      `json:"isMultiRedSeal" gorm:"column:is_multi_red_seal"`
	PullPMUSA         bool      `json:"pullPMUSA" gorm:"column:pull_pmusa"`
	PullPMUSAAll      bool      `json:"pullPMUSAAll" gorm:"column:pull_pmusa_all"`
	PullUSSTC         bool      `json:"pullUSSTC" gorm:"column:pull_usstc"`
	MultiCanDiscount  bool      `json:"multiCanDiscount" gorm:"column:multi_can_discount"`
	IsValidUPC        bool      `json:"isValidUPC" gorm:"column:is_valid_upc"`
	CreatedAt         time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt         time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// FieldNames is the fixed allow-list of patchable/creatable attributes, keyed
// by their JSON names. PATCH payload keys outside this list are logged and
// ignored rather than rejected.
var FieldNames = []string{
	"sku",
	"code",
	"unitOfMeasure",
	"materialID",
	"description",
	"category",
	"manufacturer",
	"consumerUnits",
	"multiPackDiscount",
	"isMultiCop",
	"isMultiSkoal",
	"isMultiRedSeal",
	"pullPMUSA",
	"pullPMUSAAll",
	"pullUSSTC",
	"multiCanDiscount",
	"isValidUPC",
}

// IsKnownField reports whether name is in the patch allow-list.
func IsKnownField(name string) bool {
	for _, f := range FieldNames {
		if f == name {
			return true
		}
	}
	return false
}

// Domain errors
var (
	ErrProductNotFound = errors.New("product not found")
	ErrMissingID       = errors.New("productId not specified")
)

// Normalize applies input canonicalization before validation.
func (p *Product) Normalize() {
	p.UnitOfMeasure = strings.ToUpper(p.UnitOfMeasure)
}

// Validate checks the full record against the field rules and returns the
// first failure. PUT and PATCH both run it against the complete post-merge
// record.
func (p *Product) Validate() error {
	if err := lengthBetween("sku", p.SKU, codeMinLength, codeMaxLength); err != nil {
		return err
	}
	if err := lengthBetween("code", p.Code, codeMinLength, codeMaxLength); err != nil {
		return err
	}
	if !isValidUnit(p.UnitOfMeasure) {
		return fmt.Errorf("unitOfMeasure must be one of %s", strings.Join(UnitsOfMeasure, ", "))
	}
	if err := lengthBetween("materialID", p.MaterialID, materialIDMinLength, materialIDMaxLength); err != nil {
		return err
	}
	if err := lengthBetween("description", p.Description, descriptionMinLength, descriptionMaxLength); err != nil {
		return err
	}
	if err := lengthBetween("category", p.Category, categoryMinLength, categoryMaxLength); err != nil {
		return err
	}
	if err := lengthBetween("manufacturer", p.Manufacturer, manufacturerMinLength, manufacturerMaxLength); err != nil {
		return err
	}
	if p.ConsumerUnits <= 0 {
		return errors.New("consumerUnits must be positive")
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

func isValidUnit(unit string) bool {
	for _, u := range UnitsOfMeasure {
		if u == unit {
			return true
		}
	}
	return false
}
