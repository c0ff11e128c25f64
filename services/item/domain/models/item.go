package models

import "math"

const (
	// MaxDescriptionLength bounds Item.Description in characters.
	MaxDescriptionLength = 200
	// MaxQuantity is the largest quantity the 32-bit quantity column holds.
	MaxQuantity = math.MaxInt32
)

// Item is the core aggregate: one priced, categorized, dated purchase record.
type Item struct {
	ID          int64 // assigned by the store; zero until saved
	Name        ItemName
	Description string
	// Article is the purchased thing itself ("Milk"), while Name titles the
	// record ("Weekly groceries"). Persisted and serialized as "item".
	Article   ItemName
	Price     float64
	Quantity  int
	Category  Category
	DateAdded DateAdded
}

// LineTotal is the amount this item contributes to its category's spend.
func (i *Item) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Attributes carries raw, unvalidated field values for creating or fully
// replacing an Item. Empty Category and DateAdded mean "use the default".
type Attributes struct {
	Name        string
	Description string
	Article     string
	Price       float64
	Quantity    int
	Category    string
	DateAdded   string
}

// Patch lists the fields a partial update touches. A nil pointer means the
// field was absent from the request; a non-nil pointer is applied even when
// it points at a zero value.
type Patch struct {
	Name        *string
	Description *string
	Article     *string
	Price       *float64
	Quantity    *int
	Category    *string
	DateAdded   *string
}

// IsEmpty reports whether the patch touches no field.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Article == nil &&
		p.Price == nil && p.Quantity == nil && p.Category == nil && p.DateAdded == nil
}
