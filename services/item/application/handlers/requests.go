package handlers

import (
	"github.com/ghuser/expense-tracker/pkg/optional"
	"github.com/ghuser/expense-tracker/services/item/domain/models"
	domainsvcs "github.com/ghuser/expense-tracker/services/item/domain/services"
)

// ItemRequest is the body of POST /item and PUT /item/{id}.
type ItemRequest struct {
	Name        string   `json:"name"        validate:"required,max=100"                    example:"Weekly groceries"`
	Description string   `json:"description" validate:"max=200"                             example:"Two bottles, semi-skimmed"`
	Item        string   `json:"item"        validate:"required,max=100"                    example:"Milk"`
	Price       *float64 `json:"price"       validate:"required,gte=0"                      example:"2.5"`
	Quantity    *int     `json:"quantity"    validate:"required,gte=0,lte=2147483647"       example:"4"`
	Category    string   `json:"category"    validate:"omitempty,max=50"                    example:"food"`
	DateAdded   string   `json:"date_added"  validate:"omitempty,datetime=2006-01-02"       example:"2024-03-01"`
} // @name ItemRequest

// Attributes converts a validated request. Price and Quantity are non-nil
// after validation.
func (r *ItemRequest) Attributes() models.Attributes {
	return models.Attributes{
		Name:        r.Name,
		Description: r.Description,
		Article:     r.Item,
		Price:       *r.Price,
		Quantity:    *r.Quantity,
		Category:    r.Category,
		DateAdded:   r.DateAdded,
	}
}

// PatchItemRequest is the body of PATCH /item/{id}. Only keys present in the
// JSON are applied; zero values such as "quantity": 0 count as present.
type PatchItemRequest struct {
	Name        optional.Field[string]  `json:"name"        swaggertype:"string"  example:"Weekly groceries"`
	Description optional.Field[string]  `json:"description" swaggertype:"string"  example:"null clears it"`
	Item        optional.Field[string]  `json:"item"        swaggertype:"string"  example:"Milk"`
	Price       optional.Field[float64] `json:"price"       swaggertype:"number"  example:"2.5"`
	Quantity    optional.Field[int]     `json:"quantity"    swaggertype:"integer" example:"0"`
	Category    optional.Field[string]  `json:"category"    swaggertype:"string"  example:"food"`
	DateAdded   optional.Field[string]  `json:"date_added"  swaggertype:"string"  example:"2024-03-01"`
} // @name PatchItemRequest

// Patch converts the request into a domain patch. A null description clears
// it; null on any other field is reported in the returned map.
func (r *PatchItemRequest) Patch() (models.Patch, map[string]string) {
	nullErrs := make(map[string]string)
	notNull := func(field string, f optional.Field[string]) *string {
		if f.Null {
			nullErrs[field] = "Must not be null"
		}
		return f.Ptr()
	}

	p := models.Patch{
		Name:      notNull(domainsvcs.FieldName, r.Name),
		Article:   notNull(domainsvcs.FieldArticle, r.Item),
		Category:  notNull(domainsvcs.FieldCategory, r.Category),
		DateAdded: notNull(domainsvcs.FieldDateAdded, r.DateAdded),
		Price:     r.Price.Ptr(),
		Quantity:  r.Quantity.Ptr(),
	}
	if r.Price.Null {
		nullErrs[domainsvcs.FieldPrice] = "Must not be null"
	}
	if r.Quantity.Null {
		nullErrs[domainsvcs.FieldQuantity] = "Must not be null"
	}

	switch {
	case r.Description.Null:
		p.Description = new(string)
	case r.Description.Set:
		p.Description = r.Description.Ptr()
	}

	if len(nullErrs) > 0 {
		return models.Patch{}, nullErrs
	}
	return p, nil
}
