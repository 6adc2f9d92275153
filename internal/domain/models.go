package domain

import (
	"math"
	"time"
)

// CartLine is a single line of the cart exactly as the browser submitted it.
// Nothing here is trusted; the price in particular is re-resolved against
// Printful before anything is charged.
type CartLine struct {
	ProductID    string  `json:"productId"`
	VariantID    int64   `json:"variantId"`
	Quantity     float64 `json:"quantity"`
	UnitPrice    float64 `json:"price"`
	DisplayName  string  `json:"name"`
	VariantLabel string  `json:"variant"`
	ImageURL     string  `json:"image"`
}

// AuthoritativeVariant is one variant as reported by the price authority.
// This is the source of truth for price and stock.
type AuthoritativeVariant struct {
	ID         int64
	Name       string
	PriceCents int64
	InStock    bool
}

// ValidatedLine is a cart line that passed validation, with the authoritative
// price substituted for whatever the client claimed.
type ValidatedLine struct {
	CartLine
	LineIndex           int
	ValidatedPrice      int64 // cents, from the authority
	OriginalClientPrice int64 // cents, as submitted
	PriceWasAdjusted    bool
}

// LineError describes why a single cart line was rejected. LineIndex refers
// back to the position in the submitted cart.
type LineError struct {
	LineIndex int       `json:"lineIndex"`
	ProductID string    `json:"productId"`
	VariantID int64     `json:"variantId"`
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
}

// ValidationResult partitions the submitted cart: every input line lands in
// exactly one of ValidatedItems or Errors.
type ValidationResult struct {
	Success        bool
	ValidatedItems []ValidatedLine
	Errors         []LineError
	PricesAdjusted bool
}

// Address is a shipping address as returned by the payment provider.
type Address struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// ShippingDetails is the recipient block of a completed checkout session.
type ShippingDetails struct {
	Name    string
	Address *Address
}

// CheckoutSession is our view of a payment-provider checkout session. The
// metadata carries the serialized minimal cart; it is the only durable record
// of what was charged between session creation and webhook delivery.
type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string
	Metadata      map[string]string
	CustomerEmail string
	Shipping      *ShippingDetails
}

// Paid reports whether payment has cleared for this session.
func (s *CheckoutSession) Paid() bool {
	return s.PaymentStatus == "paid"
}

// MetadataCartKey is the session metadata key holding the serialized cart.
const MetadataCartKey = "cart_items"

// CartMetadataItem is one line of the minimal cart embedded in session
// metadata at creation time and consumed on webhook delivery.
type CartMetadataItem struct {
	ProductID string `json:"productId"`
	VariantID int64  `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// FulfilledSession records that a fulfillment order was already submitted for
// a checkout session, so webhook redeliveries do not place duplicate orders.
type FulfilledSession struct {
	SessionID       string
	PrintfulOrderID int64
	ExternalID      string
	CreatedAt       time.Time
}

// CentsFromDollars converts a decimal currency amount to integer minor units.
// All internal price handling is done in cents; floats exist only at the JSON
// boundary.
func CentsFromDollars(v float64) int64 {
	return int64(math.Round(v * 100))
}
