package handlers

import (
	"context"

	"github.com/robabby/sacred-geometry-sub000/internal/domain"
	"github.com/robabby/sacred-geometry-sub000/internal/printful"
	"github.com/robabby/sacred-geometry-sub000/internal/stripe"
)

// mockAuthority implements service.PriceAuthority
type mockAuthority struct {
	variants map[int64][]domain.AuthoritativeVariant
	err      error
}

func (m *mockAuthority) FetchVariants(_ context.Context, syncProductID int64) ([]domain.AuthoritativeVariant, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.variants[syncProductID], nil
}

// mockGateway implements service.PaymentGateway
type mockGateway struct {
	session     *domain.CheckoutSession
	fullSession *domain.CheckoutSession
	createErr   error
	getErr      error
	getCalls    int
}

func (m *mockGateway) CreateCheckoutSession(_ context.Context, _ *stripe.SessionParams) (*domain.CheckoutSession, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.session, nil
}

func (m *mockGateway) GetCheckoutSession(_ context.Context, _ string) (*domain.CheckoutSession, error) {
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.fullSession, nil
}

// mockProvider implements service.FulfillmentProvider
type mockProvider struct {
	response *printful.OrderResponse
	err      error
	calls    int
}

func (m *mockProvider) CreateOrder(_ context.Context, _ *printful.OrderRequest) (*printful.OrderResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

// mockLedger implements repository.FulfilledSessionRepository
type mockLedger struct {
	existing *domain.FulfilledSession
	getErr   error
	created  []*domain.FulfilledSession
}

func (m *mockLedger) GetBySessionID(_ context.Context, _ string) (*domain.FulfilledSession, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.existing, nil
}

func (m *mockLedger) Create(_ context.Context, record *domain.FulfilledSession) error {
	m.created = append(m.created, record)
	return nil
}
