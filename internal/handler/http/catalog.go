package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/utafrali/fashly/internal/catalog"
	"github.com/utafrali/fashly/internal/domain"
	"github.com/utafrali/fashly/internal/service"
	apperrors "github.com/utafrali/fashly/pkg/errors"
	"github.com/utafrali/fashly/pkg/httputil"
	"github.com/utafrali/fashly/pkg/pagination"
)

// CatalogHandler serves the read-only product and category endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: svc, logger: logger}
}

// listMeta describes the page and the filter options around it.
type listMeta struct {
	TotalCount int                   `json:"total_count"`
	Page       int                   `json:"page"`
	PerPage    int                   `json:"per_page"`
	TotalPages int                   `json:"total_pages"`
	HasNext    bool                  `json:"has_next"`
	HasPrev    bool                  `json:"has_prev"`
	Facets     catalog.Facets        `json:"facets"`
	Criteria   domain.FilterCriteria `json:"criteria"`
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r, h.service.DefaultCriteria())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	list := h.service.List(criteria, pagination.FromRequest(r))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: list.Data,
		Meta: listMeta{
			TotalCount: list.TotalCount,
			Page:       list.Page,
			PerPage:    list.PerPage,
			TotalPages: list.TotalPages,
			HasNext:    list.HasNext,
			HasPrev:    list.HasPrev,
			Facets:     list.Facets,
			Criteria:   list.Criteria,
		},
	})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	p, err := h.service.Product(id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, p)
}

// RelatedProducts handles GET /api/v1/products/{id}/related
func (h *CatalogHandler) RelatedProducts(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	related, err := h.service.Related(id, queryLimit(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, related)
}

// FeaturedProducts handles GET /api/v1/products/featured
func (h *CatalogHandler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Featured(queryLimit(r)))
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Categories())
}

// GetCategory handles GET /api/v1/categories/{id}
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Category(pathParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, c)
}

// parseCriteria overlays the query string on defaults. Unknown sort or
// filter values and malformed prices are rejected.
func parseCriteria(r *http.Request, defaults domain.FilterCriteria) (domain.FilterCriteria, error) {
	q := r.URL.Query()
	c := defaults

	c.Category = strings.TrimSpace(q.Get("category"))
	c.Subcategory = strings.TrimSpace(q.Get("subcategory"))
	c.Search = q.Get("search")
	c.Colors = splitList(q.Get("colors"))
	c.Sizes = splitList(q.Get("sizes"))

	var err error
	if c.Sort, err = domain.ParseSortKey(q.Get("sort")); err != nil {
		return c, apperrors.InvalidInput(err.Error())
	}
	if c.Flag, err = domain.ParseFlag(q.Get("filter")); err != nil {
		return c, apperrors.InvalidInput(err.Error())
	}
	if c.PriceRange.Min, err = priceParam(q.Get("min_price"), c.PriceRange.Min); err != nil {
		return c, apperrors.InvalidInput("min_price " + err.Error())
	}
	if c.PriceRange.Max, err = priceParam(q.Get("max_price"), c.PriceRange.Max); err != nil {
		return c, apperrors.InvalidInput("max_price " + err.Error())
	}
	return c, nil
}

var errBadPrice = errors.New("must be a non-negative integer")

func priceParam(raw string, fallback int64) (int64, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, errBadPrice
	}
	return v, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func queryLimit(r *http.Request) int {
	v, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return min(max(v, 0), pagination.MaxPerPage)
}
