package models

import (
	"fmt"
	"unicode/utf8"
)

// ItemName is a value object for the two free-text labels of an Item:
// its display name and the purchased article. Length is counted in characters.
type ItemName string

const (
	minItemNameLength = 1
	MaxItemNameLength = 100
)

// NewItemName constructs a valid ItemName or returns an error if constraints are violated.
func NewItemName(s string) (ItemName, error) {
	n := utf8.RuneCountInString(s)
	if n < minItemNameLength {
		return "", fmt.Errorf("item name must be at least %d character", minItemNameLength)
	}
	if n > MaxItemNameLength {
		return "", fmt.Errorf("item name must not exceed %d characters", MaxItemNameLength)
	}
	return ItemName(s), nil
}

// String returns the underlying string value.
func (n ItemName) String() string {
	return string(n)
}
