package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/robabby/sacred-geometry-sub000/internal/config"
	"github.com/robabby/sacred-geometry-sub000/internal/domain"
	"github.com/robabby/sacred-geometry-sub000/internal/stripe"
	pkgerrors "github.com/robabby/sacred-geometry-sub000/pkg/errors"
)

// PaymentGateway creates and retrieves checkout sessions.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.SessionParams) (*domain.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*domain.CheckoutSession, error)
}

// externalIDMaxLen is Printful's ceiling for an order's external_id.
const externalIDMaxLen = 32

// ExternalReference derives the correlation id linking a fulfillment order
// back to its checkout session.
func ExternalReference(sessionID string) string {
	if len(sessionID) > externalIDMaxLen {
		return sessionID[:externalIDMaxLen]
	}
	return sessionID
}

// CheckoutService turns validated cart lines into a payment checkout session.
type CheckoutService struct {
	gateway PaymentGateway
	cfg     config.CheckoutConfig
	logger  *zap.Logger
}

// NewCheckoutService creates a checkout session builder
func NewCheckoutService(gateway PaymentGateway, cfg config.CheckoutConfig, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		gateway: gateway,
		cfg:     cfg,
		logger:  logger,
	}
}

// CreateSession builds a checkout session from validated lines. Prices are
// the validated ones; the client's claimed prices are already gone by here.
// Redirect targets come from server config, never from request headers.
func (s *CheckoutService) CreateSession(ctx context.Context, lines []domain.ValidatedLine) (*domain.CheckoutSession, error) {
	if len(lines) == 0 {
		return nil, &pkgerrors.ErrEmptyCheckout{}
	}

	items := make([]stripe.LineItem, 0, len(lines))
	metaItems := make([]domain.CartMetadataItem, 0, len(lines))
	for _, line := range lines {
		name := line.DisplayName
		if name == "" {
			name = line.ProductID
		}
		items = append(items, stripe.LineItem{
			Name:        name,
			Description: line.VariantLabel,
			ImageURL:    line.ImageURL,
			UnitAmount:  line.ValidatedPrice,
			Quantity:    int(line.Quantity),
		})
		metaItems = append(metaItems, domain.CartMetadataItem{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Quantity:  int(line.Quantity),
		})
	}

	// The metadata is the only record of the cart that survives until webhook
	// delivery; there is no order table on our side at this point.
	serialized, err := json.Marshal(metaItems)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize cart metadata: %w", err)
	}

	params := &stripe.SessionParams{
		SuccessURL:       s.cfg.SiteBaseURL + "/shop/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:        s.cfg.SiteBaseURL + "/shop/cart",
		LineItems:        items,
		AllowedCountries: s.cfg.AllowedCountries,
		Metadata: map[string]string{
			domain.MetadataCartKey: string(serialized),
		},
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, params)
	if err != nil {
		s.logger.Error("Failed to create checkout session", zap.Error(err), zap.Int("line_count", len(lines)))
		return nil, err
	}

	s.logger.Info("Checkout session created",
		zap.String("session_id", session.ID),
		zap.Int("line_count", len(lines)))
	return session, nil
}
