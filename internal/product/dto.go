package product

// UpsertProductDTO is the transport shape accepted by POST and PUT. Unknown
// body keys are dropped by JSON decoding; the allow-list in FieldNames is the
// source of truth for what a product carries.
type UpsertProductDTO struct {
	SKU               string `json:"sku"`
	Code              string `json:"code"`
	UnitOfMeasure     string `json:"unitOfMeasure"`
	MaterialID        string `json:"materialID"`
	Description       string `json:"description"`
	Category          string `json:"category"`
	Manufacturer      string `json:"manufacturer"`
	ConsumerUnits     int    `json:"consumerUnits"`
	MultiPackDiscount bool   `json:"multiPackDiscount"`
	IsMultiCop        bool   `json:"isMultiCop"`
	IsMultiSkoal      bool   `json:"isMultiSkoal"`
	IsMultiRedSeal    bool   `json:"isMultiRedSeal"`
	PullPMUSA         bool   `json:"pullPMUSA"`
	PullPMUSAAll      bool   `json:"pullPMUSAAll"`
	PullUSSTC         bool   `json:"pullUSSTC"`
	MultiCanDiscount  bool   `json:"multiCanDiscount"`
	IsValidUPC        bool   `json:"isValidUPC"`

	// ProductID may ride along in a PUT/PATCH body when the query parameter
	// is omitted.
	ProductID string `json:"productId,omitempty"`
}

// apply copies the DTO payload onto a product record.
func (d UpsertProductDTO) apply(p *Product) {
	p.SKU = d.SKU
	p.Code = d.Code
	p.UnitOfMeasure = d.UnitOfMeasure
	p.MaterialID = d.MaterialID
	p.Description = d.Description
	p.Category = d.Category
	p.Manufacturer = d.Manufacturer
	p.ConsumerUnits = d.ConsumerUnits
	p.MultiPackDiscount = d.MultiPackDiscount
	p.IsMultiCop = d.IsMultiCop
	p.IsMultiSkoal = d.IsMultiSkoal
	p.IsMultiRedSeal = d.IsMultiRedSeal
	p.PullPMUSA = d.PullPMUSA
	p.PullPMUSAAll = d.PullPMUSAAll
	p.PullUSSTC = d.PullUSSTC
	p.MultiCanDiscount = d.MultiCanDiscount
	p.IsValidUPC = d.IsValidUPC
}
