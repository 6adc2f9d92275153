package service

import (
	"context"
	"sync"

	"github.com/robabby/sacred-geometry-sub000/internal/domain"
	"github.com/robabby/sacred-geometry-sub000/internal/printful"
	"github.com/robabby/sacred-geometry-sub000/internal/stripe"
)

// MockAuthority implements PriceAuthority for testing. It records how many
// fetches each sync product received.
type MockAuthority struct {
	mu       sync.Mutex
	Variants map[int64][]domain.AuthoritativeVariant
	Err      error
	Fetches  map[int64]int
}

func (m *MockAuthority) FetchVariants(_ context.Context, syncProductID int64) ([]domain.AuthoritativeVariant, error) {
	m.mu.Lock()
	if m.Fetches == nil {
		m.Fetches = make(map[int64]int)
	}
	m.Fetches[syncProductID]++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Variants[syncProductID], nil
}

func (m *MockAuthority) TotalFetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.Fetches {
		total += n
	}
	return total
}

// MockGateway implements PaymentGateway for testing. It captures the params
// passed to CreateCheckoutSession.
type MockGateway struct {
	CreatedParams *stripe.SessionParams
	Session       *domain.CheckoutSession
	FullSession   *domain.CheckoutSession
	CreateErr     error
	GetErr        error
	GetCalls      int
}

func (m *MockGateway) CreateCheckoutSession(_ context.Context, params *stripe.SessionParams) (*domain.CheckoutSession, error) {
	m.CreatedParams = params
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	return m.Session, nil
}

func (m *MockGateway) GetCheckoutSession(_ context.Context, _ string) (*domain.CheckoutSession, error) {
	m.GetCalls++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.FullSession, nil
}

// MockProvider implements FulfillmentProvider for testing. It captures the
// order request and counts calls.
type MockProvider struct {
	Request  *printful.OrderRequest
	Response *printful.OrderResponse
	Err      error
	Calls    int
}

func (m *MockProvider) CreateOrder(_ context.Context, req *printful.OrderRequest) (*printful.OrderResponse, error) {
	m.Calls++
	m.Request = req
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}
