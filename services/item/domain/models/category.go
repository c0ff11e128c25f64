package models

import (
	"fmt"
	"unicode/utf8"
)

// DefaultCategory is assigned when a create or full replace omits category.
const DefaultCategory Category = "uncategorized"

// MaxCategoryLength bounds Category in characters.
const MaxCategoryLength = 50

// Category groups items for spend totals.
type Category string

// NewCategory validates s as a Category.
func NewCategory(s string) (Category, error) {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return "", fmt.Errorf("category must not be empty")
	}
	if n > MaxCategoryLength {
		return "", fmt.Errorf("category must not exceed %d characters", MaxCategoryLength)
	}
	return Category(s), nil
}

func (c Category) String() string {
	return string(c)
}
