package service

import (
	"strconv"

	"github.com/utafrali/fashly/internal/catalog"
	"github.com/utafrali/fashly/internal/domain"
	apperrors "github.com/utafrali/fashly/pkg/errors"
	"github.com/utafrali/fashly/pkg/pagination"
)

// ProductList is one page of a catalog view plus the facets of the
// category it was drawn from.
type ProductList struct {
	pagination.Result[domain.Product]
	Facets   catalog.Facets        `json:"facets"`
	Criteria domain.FilterCriteria `json:"criteria"`
}

// CatalogService answers read-only catalog queries.
type CatalogService struct {
	catalog *catalog.Catalog
}

// NewCatalogService creates a service over c.
func NewCatalogService(c *catalog.Catalog) *CatalogService {
	return &CatalogService{catalog: c}
}

// DefaultCriteria returns the reset state of a catalog view.
func (s *CatalogService) DefaultCriteria() domain.FilterCriteria {
	return catalog.DefaultCriteria(s.catalog.Products())
}

// List applies criteria and returns the requested page. Facets describe
// the category (and subcategory) scope before the other filters, so a
// filter UI keeps offering every option of the category.
func (s *CatalogService) List(criteria domain.FilterCriteria, page pagination.Params) ProductList {
	products := s.catalog.Products()
	scope := catalog.Filter(products, domain.FilterCriteria{
		Category:    criteria.Category,
		Subcategory: criteria.Subcategory,
		PriceRange:  catalog.DefaultCriteria(products).PriceRange,
	})

	return ProductList{
		Result:   pagination.Paginate(catalog.Apply(products, criteria), page),
		Facets:   catalog.BuildFacets(scope),
		Criteria: criteria,
	}
}

// Product returns the product with id.
func (s *CatalogService) Product(id int) (domain.Product, error) {
	p, ok := s.catalog.Product(id)
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", strconv.Itoa(id))
	}
	return p, nil
}

// Related returns products from the same category as id.
func (s *CatalogService) Related(id, limit int) ([]domain.Product, error) {
	if _, err := s.Product(id); err != nil {
		return nil, err
	}
	return catalog.Related(s.catalog.Products(), id, limit), nil
}

// Featured returns best sellers.
func (s *CatalogService) Featured(limit int) []domain.Product {
	return catalog.Featured(s.catalog.Products(), limit)
}

// Categories lists every category.
func (s *CatalogService) Categories() []domain.Category {
	return s.catalog.Categories()
}

// Category returns the category with id.
func (s *CatalogService) Category(id string) (domain.Category, error) {
	c, ok := s.catalog.Category(id)
	if !ok {
		return domain.Category{}, apperrors.NotFound("category", id)
	}
	return c, nil
}
