package jobrole

import "encoding/json"

type CreateJobRoleRequest struct {
	Title        string          `json:"title" binding:"required,min=2,max=255"`
	RoleType     string          `json:"role_type" binding:"omitempty,oneof=ROLE VACANCY TEMPLATE"`
	Description  string          `json:"description"`
	Requirements json.RawMessage `json:"requirements"`
}

type UpdateJobRoleRequest struct {
	Title        string          `json:"title" binding:"required,min=2,max=255"`
	RoleType     string          `json:"role_type" binding:"required,oneof=ROLE VACANCY TEMPLATE"`
	Description  string          `json:"description"`
	Requirements json.RawMessage `json:"requirements"`
}

type JobRoleResponse struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"company_id"`
	Title        string          `json:"title"`
	RoleType     string          `json:"role_type"`
	Description  string          `json:"description,omitempty"`
	Requirements json.RawMessage `json:"requirements,omitempty"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}
