package domain

import (
	"errors"
	"fmt"
)

// Product is an immutable catalog entry. Prices are in the smallest currency
// unit (IDR has no minor unit).
type Product struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Price        int64    `json:"price"`
	Description  string   `json:"description"`
	Images       []string `json:"images"`
	Category     string   `json:"category"`
	Subcategory  string   `json:"subcategory"`
	Colors       []string `json:"colors"`
	Sizes        []string `json:"sizes"`
	Stock        int      `json:"stock"`
	Rating       float64  `json:"rating"`
	Reviews      int      `json:"reviews"`
	IsNew        bool     `json:"is_new"`
	IsBestSeller bool     `json:"is_best_seller"`
}

// Category groups products for browsing.
type Category struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Image         string   `json:"image"`
	Subcategories []string `json:"subcategories"`
}

// ErrInvalidProduct is wrapped by Product.Validate failures.
var ErrInvalidProduct = errors.New("invalid product")

// Validate checks the invariants every catalog entry must hold.
func (p Product) Validate() error {
	switch {
	case p.ID <= 0:
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidProduct, p.ID)
	case p.Name == "":
		return fmt.Errorf("%w %d: name is required", ErrInvalidProduct, p.ID)
	case p.Price < 0:
		return fmt.Errorf("%w %d: price must not be negative", ErrInvalidProduct, p.ID)
	case p.Stock < 0:
		return fmt.Errorf("%w %d: stock must not be negative", ErrInvalidProduct, p.ID)
	case p.Rating < 0 || p.Rating > 5:
		return fmt.Errorf("%w %d: rating %.1f out of range [0,5]", ErrInvalidProduct, p.ID, p.Rating)
	case p.Reviews < 0:
		return fmt.Errorf("%w %d: reviews must not be negative", ErrInvalidProduct, p.ID)
	case len(p.Images) == 0:
		return fmt.Errorf("%w %d: at least one image is required", ErrInvalidProduct, p.ID)
	case len(p.Colors) == 0:
		return fmt.Errorf("%w %d: at least one color is required", ErrInvalidProduct, p.ID)
	case len(p.Sizes) == 0:
		return fmt.Errorf("%w %d: at least one size is required", ErrInvalidProduct, p.ID)
	}
	return nil
}

// OffersColor reports whether color is one of the product's variants.
func (p Product) OffersColor(color string) bool {
	return contains(p.Colors, color)
}

// OffersSize reports whether size is one of the product's variants.
func (p Product) OffersSize(size string) bool {
	return contains(p.Sizes, size)
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// PrimaryImage returns the first image reference, or "".
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
