package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/utafrali/fashly/internal/catalog"
	"github.com/utafrali/fashly/internal/domain"
	"github.com/utafrali/fashly/internal/store"
	apperrors "github.com/utafrali/fashly/pkg/errors"
)

// MaxQuantityPerLine bounds the quantity of a cart line, whether reached by
// one update or by repeated adds.
const MaxQuantityPerLine = domain.MaxLineQuantity

// ErrSelectVariant is the message shown when an add lacks a color or size.
const ErrSelectVariant = "please select a color and size"

// AddItemInput holds the parameters for adding a product variant to the
// cart. A Quantity of zero adds one.
type AddItemInput struct {
	ProductID int    `json:"product_id" validate:"required,gt=0"`
	Color     string `json:"color" validate:"max=50"`
	Size      string `json:"size" validate:"max=50"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=100"`
}

// CartView is a cart with its aggregates.
type CartView struct {
	SessionID  string            `json:"session_id"`
	Lines      []domain.CartLine `json:"lines"`
	ItemCount  int               `json:"item_count"`
	TotalPrice int64             `json:"total_price"`
}

// CartService validates cart requests against the catalog before they
// reach the session's cart store.
type CartService struct {
	sessions *SessionManager
	catalog  *catalog.Catalog
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(sessions *SessionManager, c *catalog.Catalog, logger *slog.Logger) *CartService {
	return &CartService{sessions: sessions, catalog: c, logger: logger}
}

// GetCart returns the session's cart.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return viewCart(sess), nil
}

// AddItem adds a variant of a catalog product to the cart. Color and size
// must both be chosen and offered by the product, and the product must be
// in stock. Name, price and first image are captured from the catalog.
func (s *CartService) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*CartView, error) {
	color, size := strings.TrimSpace(input.Color), strings.TrimSpace(input.Size)
	if color == "" || size == "" {
		return nil, apperrors.InvalidInput(ErrSelectVariant)
	}
	if input.Quantity > MaxQuantityPerLine {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerLine))
	}

	p, ok := s.catalog.Product(input.ProductID)
	if !ok {
		return nil, apperrors.NotFound("product", strconv.Itoa(input.ProductID))
	}
	if !p.OffersColor(color) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("color %q is not available for %s", color, p.Name))
	}
	if !p.OffersSize(size) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("size %q is not available for %s", size, p.Name))
	}
	if !p.InStock() {
		return nil, apperrors.Conflict(fmt.Sprintf("%s is out of stock", p.Name))
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	line, err := sess.Cart.Add(ctx, domain.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.PrimaryImage(),
		Color:     color,
		Size:      size,
		Quantity:  input.Quantity,
	})
	if errors.Is(err, store.ErrQuantityLimit) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerLine))
	}
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.Int("product_id", p.ID),
		slog.String("color", color),
		slog.String("size", size),
		slog.Int("quantity", line.Quantity),
	)
	return viewCart(sess), nil
}

// UpdateItemQuantity sets a line's quantity; zero or less removes it. An
// unknown line leaves the cart unchanged.
func (s *CartService) UpdateItemQuantity(ctx context.Context, sessionID string, key domain.LineKey, quantity int) (*CartView, error) {
	if quantity > MaxQuantityPerLine {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerLine))
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Cart.UpdateQuantity(ctx, key, quantity)
	return viewCart(sess), nil
}

// RemoveItem deletes a line. An unknown line leaves the cart unchanged.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, key domain.LineKey) (*CartView, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Cart.Remove(ctx, key)
	return viewCart(sess), nil
}

// ClearCart empties the cart.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) (*CartView, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Cart.Clear(ctx)

	s.logger.InfoContext(ctx, "cart cleared", slog.String("session_id", sessionID))
	return viewCart(sess), nil
}

func viewCart(sess *Session) *CartView {
	lines, count, total := sess.Cart.Snapshot()
	return &CartView{SessionID: sess.ID, Lines: lines, ItemCount: count, TotalPrice: total}
}
