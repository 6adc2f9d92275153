package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/robabby/sacred-geometry-sub000/internal/repository"
)

// NewRepositories creates all repositories backed by the given database
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		FulfilledSession: NewFulfilledSessionRepository(db, logger),
	}
}
