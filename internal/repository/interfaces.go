package repository

import (
	"context"

	"github.com/robabby/sacred-geometry-sub000/internal/domain"
)

// FulfilledSessionRepository is the durable idempotency ledger for webhook
// redelivery: one row per checkout session that already produced a
// fulfillment order.
type FulfilledSessionRepository interface {
	// GetBySessionID returns (nil, nil) when the session has not been
	// fulfilled yet.
	GetBySessionID(ctx context.Context, sessionID string) (*domain.FulfilledSession, error)
	Create(ctx context.Context, record *domain.FulfilledSession) error
}

// Repositories aggregates all repositories
type Repositories struct {
	FulfilledSession FulfilledSessionRepository
}
