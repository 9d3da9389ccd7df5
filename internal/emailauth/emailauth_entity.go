package emailauth

import (
	"time"

	"github.com/google/uuid"
)

const (
	// CodeTTL is how long a login code stays redeemable.
	CodeTTL = 10 * time.Minute
	// MaxAttempts is the number of wrong guesses before the code burns.
	MaxAttempts = 3
)

type EmailVerification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `gorm:"type:varchar(255);not null;index"`
	Code      string    `gorm:"type:varchar(10);not null"`
	Attempts  int       `gorm:"not null;default:0"`
	Used      bool      `gorm:"not null;default:false"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}
