package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/fitlog/internal/domain"
)

type WorkoutRepo struct {
	pool *pgxpool.Pool
}

func NewWorkoutRepo(pool *pgxpool.Pool) *WorkoutRepo {
	return &WorkoutRepo{pool: pool}
}

func (r *WorkoutRepo) Create(ctx context.Context, rec *domain.WorkoutRecord) error {
	query := `
		INSERT INTO workout_records (owner_id, owner_display_name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return r.pool.QueryRow(ctx, query,
		rec.OwnerID, rec.OwnerDisplayName, rec.Description, rec.CreatedAt, rec.UpdatedAt,
	).Scan(&rec.ID)
}

func (r *WorkoutRepo) GetForOwner(ctx context.Context, id int64, ownerID uuid.UUID) (*domain.WorkoutRecord, error) {
	query := `
		SELECT id, owner_id, owner_display_name, description, created_at, updated_at
		FROM workout_records
		WHERE id = $1 AND owner_id = $2`

	var rec domain.WorkoutRecord
	err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(
		&rec.ID, &rec.OwnerID, &rec.OwnerDisplayName, &rec.Description, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &rec, err
}

func (r *WorkoutRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.WorkoutRecord, error) {
	query := `
		SELECT id, owner_id, owner_display_name, description, created_at, updated_at
		FROM workout_records
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.WorkoutRecord
	for rows.Next() {
		var rec domain.WorkoutRecord
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.OwnerDisplayName, &rec.Description, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UpdateOwned mutates description and updated_at of the record, but only when
// it belongs to rec.OwnerID. Returns false when no row matched.
func (r *WorkoutRepo) UpdateOwned(ctx context.Context, rec *domain.WorkoutRecord) (bool, error) {
	query := `
		UPDATE workout_records
		SET description = $1, updated_at = $2
		WHERE id = $3 AND owner_id = $4`

	tag, err := r.pool.Exec(ctx, query, rec.Description, rec.UpdatedAt, rec.ID, rec.OwnerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *WorkoutRepo) DeleteOwned(ctx context.Context, id int64, ownerID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM workout_records WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *WorkoutRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM workout_records WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
