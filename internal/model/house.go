package model

import (
	"strconv"
	"strings"
)

// House represents a rental listing in the catalog
type House struct {
	ID       string   `json:"id" db:"id"`
	Area     string   `json:"area" db:"area"`
	Location string   `json:"location" db:"location"`
	Type     string   `json:"type" db:"type"`
	Price    *int     `json:"price" db:"price"`
	Desc     string   `json:"desc" db:"description"`
	Tags     []string `json:"tags,omitempty" db:"-"`
}

// CoercePrice converts a raw catalog price value to a monthly price in yuan.
// Catalog data is not trusted to be clean: numbers and numeric strings are
// accepted, everything else (e.g. "面议") yields nil so the listing fails
// closed at query time.
func CoercePrice(raw any) *int {
	switch v := raw.(type) {
	case nil:
		return nil
	case int:
		return &v
	case int64:
		n := int(v)
		return &n
	case float64:
		n := int(v)
		return &n
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}
