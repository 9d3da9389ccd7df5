package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleCompany  = "COMPANY"
	RoleEmployee = "EMPLOYEE"
	RoleAdmin    = "ADMIN"
)

// Lifecycle statuses. Employees are created as "invited" and flip to
// "active" on their first activation-code login; company accounts carry
// "company" from registration.
const (
	StatusInvited = "invited"
	StatusActive  = "active"
	StatusCompany = "company"
)

type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      *uuid.UUID `gorm:"type:uuid;index"`
	JobRoleID      *uuid.UUID `gorm:"type:uuid"`
	FullName       string     `gorm:"type:varchar(255);not null"`
	Email          string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	TelegramChatID string     `gorm:"type:varchar(100)"`
	Role           string     `gorm:"type:varchar(50);not null;default:'EMPLOYEE'"`
	Status         string     `gorm:"type:varchar(50);not null;default:'invited'"`
	ActivationCode string     `gorm:"type:varchar(255);uniqueIndex"`
	Password       string     `gorm:"type:varchar(255)"`
	CreatedAt      time.Time
	LastUpdated    time.Time `gorm:"autoUpdateTime"`
}
