package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/vedran77/fitlog/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// WorkoutRepository persists workout records. Every mutation is a single-row,
// single-statement operation scoped by owner; the scoped variants report
// whether a row matched so the service can distinguish absent from foreign.
type WorkoutRepository interface {
	Create(ctx context.Context, record *domain.WorkoutRecord) error
	GetForOwner(ctx context.Context, id int64, ownerID uuid.UUID) (*domain.WorkoutRecord, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.WorkoutRecord, error)
	UpdateOwned(ctx context.Context, record *domain.WorkoutRecord) (bool, error)
	DeleteOwned(ctx context.Context, id int64, ownerID uuid.UUID) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
}
