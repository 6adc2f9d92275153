package postgres

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/robabby/sacred-geometry-sub000/internal/domain"
)

type fulfilledSessionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewFulfilledSessionRepository creates a new fulfilled session repository
func NewFulfilledSessionRepository(db *sql.DB, logger *zap.Logger) *fulfilledSessionRepository {
	return &fulfilledSessionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *fulfilledSessionRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.FulfilledSession, error) {
	query := `
		SELECT session_id, printful_order_id, external_id, created_at
		FROM fulfilled_sessions
		WHERE session_id = $1
	`

	var record domain.FulfilledSession

	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&record.SessionID,
		&record.PrintfulOrderID,
		&record.ExternalID,
		&record.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get fulfilled session", zap.Error(err))
		return nil, err
	}

	return &record, nil
}

func (r *fulfilledSessionRepository) Create(ctx context.Context, record *domain.FulfilledSession) error {
	query := `
		INSERT INTO fulfilled_sessions (session_id, printful_order_id, external_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id) DO NOTHING
	`

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		record.SessionID,
		record.PrintfulOrderID,
		record.ExternalID,
		record.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create fulfilled session", zap.Error(err))
		return err
	}

	return nil
}
