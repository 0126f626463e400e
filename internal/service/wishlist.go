package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/utafrali/fashly/internal/catalog"
	"github.com/utafrali/fashly/internal/domain"
	apperrors "github.com/utafrali/fashly/pkg/errors"
)

// WishlistView is a wishlist with its size.
type WishlistView struct {
	SessionID string           `json:"session_id"`
	Products  []domain.Product `json:"products"`
	Count     int              `json:"count"`
}

// WishlistService resolves product IDs against the catalog for the
// session's wishlist store.
type WishlistService struct {
	sessions *SessionManager
	catalog  *catalog.Catalog
	logger   *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(sessions *SessionManager, c *catalog.Catalog, logger *slog.Logger) *WishlistService {
	return &WishlistService{sessions: sessions, catalog: c, logger: logger}
}

// GetWishlist returns the session's wishlist.
func (s *WishlistService) GetWishlist(ctx context.Context, sessionID string) (*WishlistView, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return viewWishlist(sess), nil
}

// AddItem saves a catalog product. Adding a product that is already saved
// is not an error; added reports whether the wishlist changed.
func (s *WishlistService) AddItem(ctx context.Context, sessionID string, productID int) (view *WishlistView, added bool, err error) {
	p, ok := s.catalog.Product(productID)
	if !ok {
		return nil, false, apperrors.NotFound("product", strconv.Itoa(productID))
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	added = sess.Wishlist.Add(ctx, p)
	if added {
		s.logger.InfoContext(ctx, "product added to wishlist",
			slog.String("session_id", sessionID),
			slog.Int("product_id", productID),
		)
	}
	return viewWishlist(sess), added, nil
}

// RemoveItem drops a product. An unsaved product leaves the wishlist
// unchanged.
func (s *WishlistService) RemoveItem(ctx context.Context, sessionID string, productID int) (*WishlistView, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Wishlist.Remove(ctx, productID)
	return viewWishlist(sess), nil
}

// Contains reports whether the product is saved.
func (s *WishlistService) Contains(ctx context.Context, sessionID string, productID int) (bool, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return sess.Wishlist.Contains(productID), nil
}

// ClearWishlist empties the wishlist.
func (s *WishlistService) ClearWishlist(ctx context.Context, sessionID string) (*WishlistView, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Wishlist.Clear(ctx)
	return viewWishlist(sess), nil
}

func viewWishlist(sess *Session) *WishlistView {
	products := sess.Wishlist.Products()
	return &WishlistView{SessionID: sess.ID, Products: products, Count: len(products)}
}
