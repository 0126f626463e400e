package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/fashly/internal/domain"
	apperrors "github.com/utafrali/fashly/pkg/errors"
)

// CheckoutConfig holds the pricing rules of the simulated checkout.
type CheckoutConfig struct {
	FlatShippingFee       int64
	FreeShippingThreshold int64
	CouponCodes           []string
	CouponPercent         int
}

// DefaultCheckoutConfig returns the storefront's standard pricing.
func DefaultCheckoutConfig() CheckoutConfig {
	return CheckoutConfig{
		FlatShippingFee:       25000,
		FreeShippingThreshold: 500000,
		CouponCodes:           []string{"FASHLY10"},
		CouponPercent:         10,
	}
}

// PlaceOrderInput is the body of a checkout request.
type PlaceOrderInput struct {
	Shipping      domain.ShippingInfo  `json:"shipping" validate:"required"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Coupon        string               `json:"coupon" validate:"max=32"`
}

// CheckoutService prices carts and places simulated orders.
type CheckoutService struct {
	sessions *SessionManager
	cfg      CheckoutConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(sessions *SessionManager, cfg CheckoutConfig, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{sessions: sessions, cfg: cfg, logger: logger, now: time.Now}
}

// Summary prices the session's cart. An empty coupon applies no discount;
// an unknown one is rejected.
func (s *CheckoutService) Summary(ctx context.Context, sessionID, coupon string) (domain.OrderSummary, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.OrderSummary{}, err
	}
	_, count, subtotal := sess.Cart.Snapshot()
	return s.summarize(count, subtotal, coupon)
}

func (s *CheckoutService) summarize(count int, subtotal int64, coupon string) (domain.OrderSummary, error) {
	sum := domain.OrderSummary{ItemCount: count, Subtotal: subtotal}

	if code := strings.ToUpper(strings.TrimSpace(coupon)); code != "" {
		if !slices.Contains(s.cfg.CouponCodes, code) {
			return domain.OrderSummary{}, apperrors.InvalidInput(fmt.Sprintf("coupon %q is not valid", coupon))
		}
		sum.Coupon = code
		sum.Discount = subtotal * int64(s.cfg.CouponPercent) / 100
	}

	if count > 0 && subtotal <= s.cfg.FreeShippingThreshold {
		sum.Shipping = s.cfg.FlatShippingFee
	}
	sum.Total = sum.Subtotal - sum.Discount + sum.Shipping
	return sum, nil
}

// PlaceOrder turns the cart into a simulated order and clears the cart.
// The cart must not be empty and a payment method must be chosen.
// Shipping details are expected to be validated by the caller.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string, input PlaceOrderInput) (*domain.Order, error) {
	if !input.PaymentMethod.Valid() {
		return nil, apperrors.InvalidInput("please choose a payment method")
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var order *domain.Order
	err = sess.Cart.Checkout(ctx, func(lines []domain.CartLine) error {
		count, subtotal := domain.ItemCount(lines), domain.TotalPrice(lines)
		if count == 0 {
			return apperrors.InvalidInput("cart is empty")
		}

		summary, err := s.summarize(count, subtotal, input.Coupon)
		if err != nil {
			return err
		}

		order = &domain.Order{
			Number:        uuid.NewString(),
			SessionID:     sessionID,
			Lines:         lines,
			Summary:       summary,
			Shipping:      input.Shipping,
			PaymentMethod: input.PaymentMethod,
			PlacedAt:      s.now().UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("session_id", sessionID),
		slog.String("order_number", order.Number),
		slog.Int64("total", order.Summary.Total),
		slog.String("payment_method", string(input.PaymentMethod)),
	)
	return order, nil
}
