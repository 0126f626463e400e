package domain

import "fmt"

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortName      SortKey = "name"
)

// Flag restricts results to flagged products.
type Flag string

const (
	FlagNone       Flag = ""
	FlagNew        Flag = "new"
	FlagBestSeller Flag = "bestseller"
)

// PriceRange is an inclusive [Min, Max] bound.
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Contains reports whether price lies within the range.
func (r PriceRange) Contains(price int64) bool {
	return price >= r.Min && price <= r.Max
}

// FilterCriteria is the transient state of a catalog view. Empty Colors or
// Sizes impose no constraint.
type FilterCriteria struct {
	Category    string     `json:"category,omitempty"`
	Subcategory string     `json:"subcategory,omitempty"`
	PriceRange  PriceRange `json:"price_range"`
	Colors      []string   `json:"colors,omitempty"`
	Sizes       []string   `json:"sizes,omitempty"`
	Search      string     `json:"search,omitempty"`
	Flag        Flag       `json:"flag,omitempty"`
	Sort        SortKey    `json:"sort"`
}

// ParseSortKey maps a query value to a SortKey. "" means SortName.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortName, nil
	case SortNewest, SortPriceLow, SortPriceHigh, SortRating, SortName:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort %q", s)
	}
}

// ParseFlag maps a query value to a Flag. "" means no restriction.
func ParseFlag(s string) (Flag, error) {
	switch f := Flag(s); f {
	case FlagNone, FlagNew, FlagBestSeller:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q", s)
	}
}
