package invitation

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
)

// DefaultTTL is how long an invitation stays redeemable after creation.
const DefaultTTL = 7 * 24 * time.Hour

type Invitation struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Email          string    `gorm:"type:varchar(255);not null;index"`
	InvitationCode string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	Status         string    `gorm:"type:varchar(50);not null;default:'PENDING'"`
	CreatedAt      time.Time
	ExpiresAt      time.Time `gorm:"not null"`
}

// IsValid is the only expiry check in the system. Expired rows are never
// rewritten; expiry is derived from ExpiresAt at read time.
func (i *Invitation) IsValid(now time.Time) bool {
	return i.Status == StatusPending && !now.After(i.ExpiresAt)
}
