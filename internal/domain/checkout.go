package domain

import "time"

// PaymentMethod is a simulated payment option.
type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "credit-card"
	PaymentBankTransfer PaymentMethod = "bank-transfer"
	PaymentEWallet      PaymentMethod = "e-wallet"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentBankTransfer, PaymentEWallet:
		return true
	}
	return false
}

// ShippingInfo is the delivery address captured at checkout.
type ShippingInfo struct {
	FullName   string `json:"full_name" validate:"required,max=120"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,phone"`
	Address    string `json:"address" validate:"required,max=300"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,numeric,min=4,max=10"`
}

// OrderSummary is the priced breakdown of a cart.
type OrderSummary struct {
	ItemCount int    `json:"item_count"`
	Subtotal  int64  `json:"subtotal"`
	Discount  int64  `json:"discount"`
	Shipping  int64  `json:"shipping"`
	Total     int64  `json:"total"`
	Coupon    string `json:"coupon,omitempty"`
}

// Order is the result of a simulated checkout.
type Order struct {
	Number        string        `json:"number"`
	SessionID     string        `json:"-"`
	Lines         []CartLine    `json:"lines"`
	Summary       OrderSummary  `json:"summary"`
	Shipping      ShippingInfo  `json:"shipping"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PlacedAt      time.Time     `json:"placed_at"`
}
