package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vedran77/fitlog/internal/domain"
	"github.com/vedran77/fitlog/internal/repository"
	"github.com/vedran77/fitlog/internal/token"
)

var (
	ErrRecordNotFound = errors.New("workout record not found")
	ErrNotRecordOwner = errors.New("workout record belongs to another user")
)

// WorkoutService applies the ownership rules: every operation is scoped to the
// caller, and owner fields always come from the verified principal, never from
// the request payload.
type WorkoutService struct {
	workoutRepo repository.WorkoutRepository
	listLimit   int
}

func NewWorkoutService(workoutRepo repository.WorkoutRepository, listLimit int) *WorkoutService {
	return &WorkoutService{
		workoutRepo: workoutRepo,
		listLimit:   listLimit,
	}
}

type CreateWorkoutInput struct {
	Description string `json:"description"`
}

type UpdateWorkoutInput struct {
	Description string `json:"description"`
}

func (s *WorkoutService) Create(ctx context.Context, caller *token.Principal, input CreateWorkoutInput) (*domain.WorkoutRecord, error) {
	rec := &domain.WorkoutRecord{
		OwnerID:          caller.UserID,
		OwnerDisplayName: caller.DisplayName,
		Description:      input.Description,
		CreatedAt:        time.Now(),
	}

	if err := s.workoutRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("creating workout record: %w", err)
	}

	return rec, nil
}

func (s *WorkoutService) List(ctx context.Context, caller *token.Principal) ([]domain.WorkoutRecord, error) {
	return s.workoutRepo.ListByOwner(ctx, caller.UserID, s.listLimit)
}

func (s *WorkoutService) GetByID(ctx context.Context, caller *token.Principal, id int64) (*domain.WorkoutRecord, error) {
	rec, err := s.workoutRepo.GetForOwner(ctx, id, caller.UserID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, s.denial(ctx, id)
	}
	return rec, nil
}

func (s *WorkoutService) Update(ctx context.Context, caller *token.Principal, id int64, input UpdateWorkoutInput) error {
	now := time.Now()
	rec := &domain.WorkoutRecord{
		ID:          id,
		OwnerID:     caller.UserID,
		Description: input.Description,
		UpdatedAt:   &now,
	}

	matched, err := s.workoutRepo.UpdateOwned(ctx, rec)
	if err != nil {
		return fmt.Errorf("updating workout record: %w", err)
	}
	if !matched {
		return s.denial(ctx, id)
	}
	return nil
}

func (s *WorkoutService) Delete(ctx context.Context, caller *token.Principal, id int64) error {
	matched, err := s.workoutRepo.DeleteOwned(ctx, id, caller.UserID)
	if err != nil {
		return fmt.Errorf("deleting workout record: %w", err)
	}
	if !matched {
		return s.denial(ctx, id)
	}
	return nil
}

// denial resolves a scoped miss into the tri-state outcome: the record either
// does not exist at all, or it exists and belongs to someone else.
func (s *WorkoutService) denial(ctx context.Context, id int64) error {
	exists, err := s.workoutRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if exists {
		return ErrNotRecordOwner
	}
	return ErrRecordNotFound
}
