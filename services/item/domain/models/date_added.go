package models

import (
	"fmt"
	"time"
)

// DateLayout is the only accepted representation of DateAdded.
const DateLayout = "2006-01-02"

// DateAdded is a calendar date in YYYY-MM-DD form.
type DateAdded string

// NewDateAdded validates s as a real calendar date in DateLayout.
// Round-tripping through time.Parse rejects non-padded forms like 2024-1-5.
func NewDateAdded(s string) (DateAdded, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil || t.Format(DateLayout) != s {
		return "", fmt.Errorf("date %q is not a valid YYYY-MM-DD date", s)
	}
	return DateAdded(s), nil
}

// DateOf returns the UTC calendar date of t.
func DateOf(t time.Time) DateAdded {
	return DateAdded(t.UTC().Format(DateLayout))
}

func (d DateAdded) String() string {
	return string(d)
}
