package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robabby/sacred-geometry-sub000/internal/domain"
	"github.com/robabby/sacred-geometry-sub000/internal/printful"
	pkgerrors "github.com/robabby/sacred-geometry-sub000/pkg/errors"
)

func paidSession() *domain.CheckoutSession {
	return &domain.CheckoutSession{
		ID:            "cs_test_a1B2c3D4e5F6g7H8i9J0k1L2m3N4o5P6",
		PaymentStatus: "paid",
		CustomerEmail: "buyer@example.com",
		Metadata: map[string]string{
			domain.MetadataCartKey: `[{"productId":"flower-of-life-tee","variantId":12345,"quantity":2}]`,
		},
		Shipping: &domain.ShippingDetails{
			Name: "Ada Lovelace",
			Address: &domain.Address{
				Line1:      "1 Analytical Way",
				City:       "London",
				State:      "LND",
				PostalCode: "N1 9GU",
				Country:    "GB",
			},
		},
	}
}

func TestSubmitOrder_Success(t *testing.T) {
	provider := &MockProvider{Response: &printful.OrderResponse{ID: 9001}}
	svc := NewOrderService(provider, nil)

	record, err := svc.SubmitOrder(context.Background(), paidSession())

	require.NoError(t, err)
	assert.Equal(t, int64(9001), record.PrintfulOrderID)
	assert.Len(t, record.ExternalID, 32)

	require.NotNil(t, provider.Request)
	assert.Equal(t, record.ExternalID, provider.Request.ExternalID)
	assert.Equal(t, "buyer@example.com", provider.Request.Recipient.Email)
	assert.Equal(t, "Ada Lovelace", provider.Request.Recipient.Name)
	assert.Equal(t, "GB", provider.Request.Recipient.CountryCode)
	require.Len(t, provider.Request.Items, 1)
	assert.Equal(t, int64(12345), provider.Request.Items[0].SyncVariantID)
	assert.Equal(t, 2, provider.Request.Items[0].Quantity)
}

func TestSubmitOrder_MissingShippingFailsFast(t *testing.T) {
	provider := &MockProvider{}
	svc := NewOrderService(provider, nil)

	session := paidSession()
	session.Shipping = nil

	_, err := svc.SubmitOrder(context.Background(), session)

	var integrityErr *pkgerrors.ErrDataIntegrity
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, 0, provider.Calls, "nothing may be submitted on missing data")
}

func TestSubmitOrder_MissingEmailFailsFast(t *testing.T) {
	provider := &MockProvider{}
	svc := NewOrderService(provider, nil)

	session := paidSession()
	session.CustomerEmail = ""

	_, err := svc.SubmitOrder(context.Background(), session)

	var integrityErr *pkgerrors.ErrDataIntegrity
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, 0, provider.Calls)
}

func TestSubmitOrder_MissingMetadataFailsFast(t *testing.T) {
	provider := &MockProvider{}
	svc := NewOrderService(provider, nil)

	for _, raw := range []string{"", "not-json", "[]"} {
		session := paidSession()
		if raw == "" {
			delete(session.Metadata, domain.MetadataCartKey)
		} else {
			session.Metadata[domain.MetadataCartKey] = raw
		}

		_, err := svc.SubmitOrder(context.Background(), session)

		var integrityErr *pkgerrors.ErrDataIntegrity
		require.ErrorAs(t, err, &integrityErr, "metadata %q", raw)
	}
	assert.Equal(t, 0, provider.Calls)
}

func TestSubmitOrder_ProviderFailurePropagates(t *testing.T) {
	provider := &MockProvider{Err: errors.New("printful returned 502")}
	svc := NewOrderService(provider, nil)

	_, err := svc.SubmitOrder(context.Background(), paidSession())

	var submissionErr *pkgerrors.ErrOrderSubmission
	require.ErrorAs(t, err, &submissionErr)
	assert.Equal(t, 1, provider.Calls)
}
