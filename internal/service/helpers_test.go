package service

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/utafrali/fashly/internal/catalog"
	"github.com/utafrali/fashly/internal/domain"
	"github.com/utafrali/fashly/internal/repository/memory"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Wrap Dress", Price: 450000, Images: []string{"/img/1a.jpg", "/img/1b.jpg"}, Category: "women", Subcategory: "dresses",
			Colors: []string{"red", "navy"}, Sizes: []string{"S", "M"}, Stock: 10, Rating: 4.7, IsNew: true, IsBestSeller: true},
		{ID: 2, Name: "Oxford Shirt", Price: 350000, Images: []string{"/img/2.jpg"}, Category: "men", Subcategory: "shirts",
			Colors: []string{"white"}, Sizes: []string{"M", "L"}, Stock: 5, Rating: 4.6},
		{ID: 3, Name: "Leather Tote", Price: 900000, Images: []string{"/img/3.jpg"}, Category: "accessories", Subcategory: "bags",
			Colors: []string{"black"}, Sizes: []string{"One Size"}, Stock: 0, Rating: 4.6, IsBestSeller: true},
		{ID: 4, Name: "Chinos", Price: 300000, Images: []string{"/img/4.jpg"}, Category: "men", Subcategory: "pants",
			Colors: []string{"navy", "khaki"}, Sizes: []string{"32", "34"}, Stock: 3, Rating: 4.2, IsNew: true},
	}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(testProducts(), []domain.Category{
		{ID: "women", Name: "Women", Subcategories: []string{"dresses"}},
		{ID: "men", Name: "Men", Subcategories: []string{"shirts", "pants"}},
		{ID: "accessories", Name: "Accessories", Subcategories: []string{"bags"}},
	})
	require.NoError(t, err)
	return c
}

type fixture struct {
	repo     *memory.RecordRepository
	sessions *SessionManager
	catalog  *catalog.Catalog
	cart     *CartService
	wishlist *WishlistService
	checkout *CheckoutService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := newTestLogger()
	repo := memory.NewRecordRepository()
	sessions := NewSessionManager(repo, 0, logger)
	c := testCatalog(t)

	return &fixture{
		repo:     repo,
		sessions: sessions,
		catalog:  c,
		cart:     NewCartService(sessions, c, logger),
		wishlist: NewWishlistService(sessions, c, logger),
		checkout: NewCheckoutService(sessions, DefaultCheckoutConfig(), logger),
	}
}
