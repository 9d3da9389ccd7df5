package jobrole

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role kinds. ROLE describes an existing position, VACANCY an open one,
// TEMPLATE a reusable requirements blueprint.
const (
	TypeRole     = "ROLE"
	TypeVacancy  = "VACANCY"
	TypeTemplate = "TEMPLATE"
)

type JobRole struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title        string          `gorm:"type:varchar(255);not null"`
	RoleType     string          `gorm:"type:varchar(50);not null;default:'ROLE'"`
	Description  string          `gorm:"type:text"`
	Requirements json.RawMessage `gorm:"type:jsonb"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func ValidType(t string) bool {
	switch t {
	case TypeRole, TypeVacancy, TypeTemplate:
		return true
	}
	return false
}
