package errors

import (
	"fmt"

	"github.com/robabby/sacred-geometry-sub000/internal/domain"
)

// ErrSignature is returned when webhook signature verification fails
type ErrSignature struct {
	Code   domain.ErrorCode // SIGNATURE_MISSING or SIGNATURE_INVALID
	Reason string
}

func (e *ErrSignature) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("webhook signature: %s", e.Reason)
	}
	return "webhook signature verification failed"
}

// ErrPriceAuthority is returned when the price authority is unreachable or
// returns an unusable response for a product
type ErrPriceAuthority struct {
	SyncProductID int64
	Err           error
}

func (e *ErrPriceAuthority) Error() string {
	return fmt.Sprintf("price authority fetch for sync product %d failed: %v", e.SyncProductID, e.Err)
}

func (e *ErrPriceAuthority) Unwrap() error {
	return e.Err
}

// ErrPaymentGateway is returned when the payment provider rejects a request
type ErrPaymentGateway struct {
	StatusCode int
	Message    string
}

func (e *ErrPaymentGateway) Error() string {
	return fmt.Sprintf("payment gateway error: status %d: %s", e.StatusCode, e.Message)
}

// ErrOrderSubmission is returned when the fulfillment provider rejects or
// fails an order-creation request
type ErrOrderSubmission struct {
	SessionID string
	Err       error
}

func (e *ErrOrderSubmission) Error() string {
	return fmt.Sprintf("order submission for session %s failed: %v", e.SessionID, e.Err)
}

func (e *ErrOrderSubmission) Unwrap() error {
	return e.Err
}

// ErrDataIntegrity is returned when a paid session is missing data required
// to submit an order (shipping address, email, or cart metadata); nothing is
// partially submitted
type ErrDataIntegrity struct {
	SessionID string
	Missing   string
}

func (e *ErrDataIntegrity) Error() string {
	return fmt.Sprintf("session %s is missing %s; refusing to submit order", e.SessionID, e.Missing)
}

// ErrEmptyCheckout is returned when session creation is attempted with zero
// validated lines
type ErrEmptyCheckout struct{}

func (e *ErrEmptyCheckout) Error() string {
	return "refusing to create a checkout session with no line items"
}
