package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/robabby/sacred-geometry-sub000/internal/domain"
	"github.com/robabby/sacred-geometry-sub000/internal/printful"
	pkgerrors "github.com/robabby/sacred-geometry-sub000/pkg/errors"
)

// FulfillmentProvider submits print orders.
type FulfillmentProvider interface {
	CreateOrder(ctx context.Context, req *printful.OrderRequest) (*printful.OrderResponse, error)
}

// OrderService submits fulfillment orders for paid checkout sessions.
type OrderService struct {
	provider FulfillmentProvider
	logger   *zap.Logger
}

// NewOrderService creates an order submission service
func NewOrderService(provider FulfillmentProvider, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		provider: provider,
		logger:   logger,
	}
}

// SubmitOrder places the fulfillment order for a paid session. Variant ids
// and quantities come from the session metadata embedded at creation time,
// the canonical record of what was charged, never from the webhook payload's
// own line items. Missing shipping, email, or metadata fails fast with
// nothing submitted.
func (s *OrderService) SubmitOrder(ctx context.Context, session *domain.CheckoutSession) (*domain.FulfilledSession, error) {
	if session.Shipping == nil || session.Shipping.Address == nil {
		return nil, &pkgerrors.ErrDataIntegrity{SessionID: session.ID, Missing: "shipping address"}
	}
	if session.CustomerEmail == "" {
		return nil, &pkgerrors.ErrDataIntegrity{SessionID: session.ID, Missing: "buyer email"}
	}
	raw, ok := session.Metadata[domain.MetadataCartKey]
	if !ok || raw == "" {
		return nil, &pkgerrors.ErrDataIntegrity{SessionID: session.ID, Missing: "cart metadata"}
	}

	var metaItems []domain.CartMetadataItem
	if err := json.Unmarshal([]byte(raw), &metaItems); err != nil {
		return nil, &pkgerrors.ErrDataIntegrity{SessionID: session.ID, Missing: "parseable cart metadata"}
	}
	if len(metaItems) == 0 {
		return nil, &pkgerrors.ErrDataIntegrity{SessionID: session.ID, Missing: "cart items"}
	}

	items := make([]printful.OrderItem, 0, len(metaItems))
	for _, item := range metaItems {
		items = append(items, printful.OrderItem{
			SyncVariantID: item.VariantID,
			Quantity:      item.Quantity,
		})
	}

	addr := session.Shipping.Address
	externalID := ExternalReference(session.ID)
	req := &printful.OrderRequest{
		ExternalID: externalID,
		Recipient: printful.Recipient{
			Name:        session.Shipping.Name,
			Email:       session.CustomerEmail,
			Address1:    addr.Line1,
			Address2:    addr.Line2,
			City:        addr.City,
			StateCode:   addr.State,
			CountryCode: addr.Country,
			Zip:         addr.PostalCode,
		},
		Items: items,
	}

	resp, err := s.provider.CreateOrder(ctx, req)
	if err != nil {
		s.logger.Error("Fulfillment order submission failed",
			zap.String("session_id", session.ID),
			zap.Error(err))
		return nil, &pkgerrors.ErrOrderSubmission{SessionID: session.ID, Err: err}
	}

	s.logger.Info("Fulfillment order submitted",
		zap.String("session_id", session.ID),
		zap.Int64("printful_order_id", resp.ID),
		zap.String("external_id", externalID),
		zap.Int("item_count", len(items)))

	return &domain.FulfilledSession{
		SessionID:       session.ID,
		PrintfulOrderID: resp.ID,
		ExternalID:      externalID,
	}, nil
}
