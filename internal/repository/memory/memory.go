// Package memory holds in-memory repository implementations, used by tests and
// by anything that needs the store behavior without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/vedran77/fitlog/internal/domain"
)

type UserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[uuid.UUID]domain.User)}
}

func (r *UserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

type WorkoutRepo struct {
	mu      sync.Mutex
	seq     int64
	records map[int64]domain.WorkoutRecord
}

func NewWorkoutRepo() *WorkoutRepo {
	return &WorkoutRepo{records: make(map[int64]domain.WorkoutRecord)}
}

func (r *WorkoutRepo) Create(_ context.Context, rec *domain.WorkoutRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	rec.ID = r.seq
	r.records[rec.ID] = *rec
	return nil
}

func (r *WorkoutRepo) GetForOwner(_ context.Context, id int64, ownerID uuid.UUID) (*domain.WorkoutRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[id]; ok && rec.OwnerID == ownerID {
		return &rec, nil
	}
	return nil, nil
}

func (r *WorkoutRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, limit int) ([]domain.WorkoutRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []domain.WorkoutRecord
	for _, rec := range r.records {
		if rec.OwnerID == ownerID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID > records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (r *WorkoutRepo) UpdateOwned(_ context.Context, rec *domain.WorkoutRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.records[rec.ID]
	if !ok || existing.OwnerID != rec.OwnerID {
		return false, nil
	}
	existing.Description = rec.Description
	existing.UpdatedAt = rec.UpdatedAt
	r.records[rec.ID] = existing
	return true, nil
}

func (r *WorkoutRepo) DeleteOwned(_ context.Context, id int64, ownerID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok || rec.OwnerID != ownerID {
		return false, nil
	}
	delete(r.records, id)
	return true, nil
}

func (r *WorkoutRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[id]
	return ok, nil
}
