package catalog

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/utafrali/fashly/internal/domain"
)

const (
	DefaultRelatedLimit  = 4
	DefaultFeaturedLimit = 4
)

// Collators keep internal buffers and are not safe for concurrent use.
var collators = sync.Pool{
	New: func() any { return collate.New(language.English) },
}

// Apply filters products by c and orders the survivors by c.Sort. The sort
// is stable, so ties keep their catalog order. products is never modified.
func Apply(products []domain.Product, c domain.FilterCriteria) []domain.Product {
	out := Filter(products, c)
	sortProducts(out, c.Sort)
	return out
}

// Filter returns the products matching every predicate of c, in catalog
// order. c.Sort is ignored.
func Filter(products []domain.Product, c domain.FilterCriteria) []domain.Product {
	search := strings.ToLower(strings.TrimSpace(c.Search))

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matches(p, c, search) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p domain.Product, c domain.FilterCriteria, search string) bool {
	if c.Category != "" && p.Category != c.Category {
		return false
	}
	if c.Subcategory != "" && p.Subcategory != c.Subcategory {
		return false
	}
	if !c.PriceRange.Contains(p.Price) {
		return false
	}
	if len(c.Colors) > 0 && !intersects(p.Colors, c.Colors) {
		return false
	}
	if len(c.Sizes) > 0 && !intersects(p.Sizes, c.Sizes) {
		return false
	}
	if search != "" &&
		!strings.Contains(strings.ToLower(p.Name), search) &&
		!strings.Contains(strings.ToLower(p.Description), search) &&
		!strings.Contains(strings.ToLower(p.Category), search) {
		return false
	}
	switch c.Flag {
	case domain.FlagNew:
		return p.IsNew
	case domain.FlagBestSeller:
		return p.IsBestSeller
	}
	return true
}

func intersects(have, want []string) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}

func sortProducts(products []domain.Product, key domain.SortKey) {
	switch key {
	case domain.SortPriceLow:
		slices.SortStableFunc(products, func(a, b domain.Product) int { return cmp.Compare(a.Price, b.Price) })
	case domain.SortPriceHigh:
		slices.SortStableFunc(products, func(a, b domain.Product) int { return cmp.Compare(b.Price, a.Price) })
	case domain.SortRating:
		slices.SortStableFunc(products, func(a, b domain.Product) int { return cmp.Compare(b.Rating, a.Rating) })
	case domain.SortNewest:
		slices.SortStableFunc(products, func(a, b domain.Product) int { return cmp.Compare(rank(a.IsNew), rank(b.IsNew)) })
	default:
		col := collators.Get().(*collate.Collator)
		defer collators.Put(col)
		slices.SortStableFunc(products, func(a, b domain.Product) int { return col.CompareString(a.Name, b.Name) })
	}
}

// rank orders flagged products first.
func rank(flag bool) int {
	if flag {
		return 0
	}
	return 1
}

// DefaultCriteria is the reset state of a catalog view: no restrictions,
// the full price span, sorted by name.
func DefaultCriteria(products []domain.Product) domain.FilterCriteria {
	return domain.FilterCriteria{
		PriceRange: domain.PriceRange{Min: 0, Max: maxPrice(products)},
		Sort:       domain.SortName,
	}
}

func maxPrice(products []domain.Product) int64 {
	var m int64
	for _, p := range products {
		m = max(m, p.Price)
	}
	return m
}

// Facets lists the filter values available within a product set.
type Facets struct {
	Colors     []string          `json:"colors"`
	Sizes      []string          `json:"sizes"`
	PriceRange domain.PriceRange `json:"price_range"`
}

// BuildFacets collects colors and sizes in first-seen order and the price
// span of products.
func BuildFacets(products []domain.Product) Facets {
	f := Facets{Colors: []string{}, Sizes: []string{}}
	seenColor := map[string]struct{}{}
	seenSize := map[string]struct{}{}

	for i, p := range products {
		for _, c := range p.Colors {
			if _, ok := seenColor[c]; !ok {
				seenColor[c] = struct{}{}
				f.Colors = append(f.Colors, c)
			}
		}
		for _, s := range p.Sizes {
			if _, ok := seenSize[s]; !ok {
				seenSize[s] = struct{}{}
				f.Sizes = append(f.Sizes, s)
			}
		}
		if i == 0 || p.Price < f.PriceRange.Min {
			f.PriceRange.Min = p.Price
		}
		f.PriceRange.Max = max(f.PriceRange.Max, p.Price)
	}
	return f
}

// Related returns up to limit other products from the same category as the
// product with the given id, in catalog order. limit < 1 means
// DefaultRelatedLimit.
func Related(products []domain.Product, id, limit int) []domain.Product {
	if limit < 1 {
		limit = DefaultRelatedLimit
	}
	idx := slices.IndexFunc(products, func(p domain.Product) bool { return p.ID == id })
	if idx < 0 {
		return []domain.Product{}
	}
	category := products[idx].Category

	out := make([]domain.Product, 0, limit)
	for _, p := range products {
		if len(out) == limit {
			break
		}
		if p.ID != id && p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Featured returns up to limit best sellers in catalog order. limit < 1
// means DefaultFeaturedLimit.
func Featured(products []domain.Product, limit int) []domain.Product {
	if limit < 1 {
		limit = DefaultFeaturedLimit
	}
	out := make([]domain.Product, 0, limit)
	for _, p := range products {
		if len(out) == limit {
			break
		}
		if p.IsBestSeller {
			out = append(out, p)
		}
	}
	return out
}
