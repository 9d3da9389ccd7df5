package profile

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
)

// Profile is the single mutable profile row per user. Every save also
// appends an immutable snapshot, so history is reconstructable even
// though the profile itself is overwritten in place.
type Profile struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	CompanyID   *uuid.UUID      `gorm:"type:uuid;index"`
	Status      string          `gorm:"type:varchar(50);not null;default:'PENDING'"`
	ProfileData json.RawMessage `gorm:"type:jsonb"`
	CreatedAt   time.Time
	LastUpdated time.Time `gorm:"autoUpdateTime"`
}

type Snapshot struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProfileID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProfileData json.RawMessage `gorm:"type:jsonb"`
	CreatedAt   time.Time
}

func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusCompleted
}
