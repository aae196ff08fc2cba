package model

import "time"

// SortField is one ordering directive; directives are applied in the order
// given, each ascending or descending.
type SortField struct {
	Field     string `json:"field"`
	Ascending bool   `json:"ascending"`
}

// ListOptions is embedded in every entity's filter options. A nil
// StartIndex means 0, a nil ItemCount means unbounded.
type ListOptions struct {
	Sort       []SortField `json:"sort,omitempty"`
	StartIndex *int64      `json:"startIndex,omitempty"`
	ItemCount  *int64      `json:"itemCount,omitempty"`
}

// TimeRange is an inclusive range; a nil side is unbounded.
type TimeRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// IntRange is an inclusive range; a nil side is unbounded.
type IntRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}
