package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutRecord is a single workout log entry. Ownership is fixed at creation:
// owner_id and owner_display_name are stamped from the authenticated caller and
// never change afterwards, even if the user later renames themselves.
type WorkoutRecord struct {
	ID               int64      `json:"id"`
	OwnerID          uuid.UUID  `json:"owner_id"`
	OwnerDisplayName string     `json:"owner_display_name"`
	Description      string     `json:"description"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}
