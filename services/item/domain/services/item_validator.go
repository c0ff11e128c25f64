// Package services contains stateless domain services for the item bounded context.
// They enforce business rules that operate purely on domain types: building
// and validating Items, applying replacements and patches, and aggregating
// spend by category.
package services

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	itemdomain "github.com/ghuser/expense-tracker/services/item/domain"
	"github.com/ghuser/expense-tracker/services/item/domain/models"
)

// Wire names of Item fields, used as keys in validation errors.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldArticle     = "item"
	FieldPrice       = "price"
	FieldQuantity    = "quantity"
	FieldCategory    = "category"
	FieldDateAdded   = "date_added"
)

// ValidateText enforces business rules for free-text labels beyond the
// length limits enforced by the value-object constructors:
//   - Must not be only whitespace
//   - No control characters (Unicode category Cc)
func ValidateText(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("must not be blank")
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("must not contain control characters")
		}
	}
	return nil
}

// ValidateItem checks every invariant of a fully-populated Item and returns
// a *domain.ValidationError listing each offending field, or nil.
func ValidateItem(item *models.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}

	ve := itemdomain.NewValidationError()

	checkLabel(ve, FieldName, item.Name.String(), models.MaxItemNameLength, itemNameOK)
	checkLabel(ve, FieldArticle, item.Article.String(), models.MaxItemNameLength, itemNameOK)
	checkLabel(ve, FieldCategory, item.Category.String(), models.MaxCategoryLength, categoryOK)

	if n := len([]rune(item.Description)); n > models.MaxDescriptionLength {
		ve.Add(FieldDescription, fmt.Sprintf("Maximum length is %d", models.MaxDescriptionLength))
	}
	if item.Price < 0 {
		ve.Add(FieldPrice, "Must be greater than or equal to 0")
	}
	switch {
	case item.Quantity < 0:
		ve.Add(FieldQuantity, "Must be greater than or equal to 0")
	case item.Quantity > models.MaxQuantity:
		ve.Add(FieldQuantity, fmt.Sprintf("Must be less than or equal to %d", models.MaxQuantity))
	}
	if _, err := models.NewDateAdded(item.DateAdded.String()); err != nil {
		ve.Add(FieldDateAdded, "Must be a date in YYYY-MM-DD format")
	}

	return ve.OrNil()
}

func checkLabel(ve *itemdomain.ValidationError, field, value string, max int, construct func(string) error) {
	if value == "" {
		ve.Add(field, "This field is required")
		return
	}
	if err := construct(value); err != nil {
		ve.Add(field, fmt.Sprintf("Maximum length is %d", max))
		return
	}
	if err := ValidateText(value); err != nil {
		ve.Add(field, "Must not be blank or contain control characters")
	}
}

func itemNameOK(s string) error {
	_, err := models.NewItemName(s)
	return err
}

func categoryOK(s string) error {
	_, err := models.NewCategory(s)
	return err
}

// NewItem builds an unsaved Item from attrs, filling category and date_added
// defaults, and validates the result. now supplies the default date.
func NewItem(attrs models.Attributes, now time.Time) (*models.Item, error) {
	item := fromAttributes(attrs)
	if item.DateAdded == "" {
		item.DateAdded = models.DateOf(now)
	}
	if err := ValidateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Replace overwrites every mutable field of existing with attrs. Omitted
// description and category fall back to their create-time defaults; an
// omitted date_added keeps the stored date. The id never changes.
func Replace(existing *models.Item, attrs models.Attributes) (*models.Item, error) {
	item := fromAttributes(attrs)
	item.ID = existing.ID
	if item.DateAdded == "" {
		item.DateAdded = existing.DateAdded
	}
	if err := ValidateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// ApplyPatch returns a copy of existing with every field present in p
// overwritten, including zero values, then validates the result.
func ApplyPatch(existing *models.Item, p models.Patch) (*models.Item, error) {
	item := *existing
	if p.Name != nil {
		item.Name = models.ItemName(*p.Name)
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Article != nil {
		item.Article = models.ItemName(*p.Article)
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.Category != nil {
		item.Category = models.Category(*p.Category)
	}
	if p.DateAdded != nil {
		item.DateAdded = models.DateAdded(*p.DateAdded)
	}
	if err := ValidateItem(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

func fromAttributes(attrs models.Attributes) *models.Item {
	category := models.Category(attrs.Category)
	if category == "" {
		category = models.DefaultCategory
	}
	return &models.Item{
		Name:        models.ItemName(attrs.Name),
		Description: attrs.Description,
		Article:     models.ItemName(attrs.Article),
		Price:       attrs.Price,
		Quantity:    attrs.Quantity,
		Category:    category,
		DateAdded:   models.DateAdded(attrs.DateAdded),
	}
}
