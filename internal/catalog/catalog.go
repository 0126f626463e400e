// Package catalog holds the static product collection and the pure
// filter/sort pipeline that derives catalog views from it.
package catalog

import (
	"fmt"
	"slices"

	"github.com/utafrali/fashly/internal/domain"
	"github.com/utafrali/fashly/pkg/slug"
)

// Catalog is an immutable, validated set of products and categories.
type Catalog struct {
	products   []domain.Product
	categories []domain.Category
	byID       map[int]int
}

// New validates products and categories and indexes them. Inputs are copied.
func New(products []domain.Product, categories []domain.Category) (*Catalog, error) {
	c := &Catalog{
		products:   make([]domain.Product, len(products)),
		categories: make([]domain.Category, len(categories)),
		byID:       make(map[int]int, len(products)),
	}
	copy(c.products, products)
	copy(c.categories, categories)

	for i, p := range c.products {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", domain.ErrInvalidProduct, p.ID)
		}
		c.byID[p.ID] = i
	}

	seen := make(map[string]struct{}, len(c.categories))
	for i := range c.categories {
		cat := &c.categories[i]
		if cat.ID == "" {
			cat.ID = slug.Generate(cat.Name)
		}
		if cat.ID == "" {
			return nil, fmt.Errorf("category %d has neither id nor name", i)
		}
		if _, dup := seen[cat.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %q", cat.ID)
		}
		seen[cat.ID] = struct{}{}
	}
	return c, nil
}

// Products returns the products in catalog order. Callers must not modify
// the returned slice.
func (c *Catalog) Products() []domain.Product {
	return c.products
}

// Product looks a product up by ID.
func (c *Catalog) Product(id int) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// Categories returns a copy of the categories in catalog order.
func (c *Catalog) Categories() []domain.Category {
	return slices.Clone(c.categories)
}

// Category looks a category up by ID.
func (c *Catalog) Category(id string) (domain.Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return domain.Category{}, false
}

// Len reports the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}
