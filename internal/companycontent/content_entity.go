package companycontent

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CompanyContent is a free-form company document: mission statements,
// onboarding material, values. content_type is an open vocabulary chosen
// by the company.
type CompanyContent struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ContentType string          `gorm:"type:varchar(100);not null"`
	Title       string          `gorm:"type:varchar(255);not null"`
	Data        json.RawMessage `gorm:"type:jsonb"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
