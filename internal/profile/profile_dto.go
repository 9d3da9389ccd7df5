package profile

import "encoding/json"

type SaveProfileRequest struct {
	ProfileData json.RawMessage `json:"profile_data" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING COMPLETED"`
}

type AssignJobRoleRequest struct {
	JobRoleID string `json:"job_role_id" binding:"required,uuid"`
}

// AssignJobRoleFlexibleRequest targets a user by activation code or, when
// the code is absent or unknown, by email.
type AssignJobRoleFlexibleRequest struct {
	JobRoleID      string `json:"job_role_id" binding:"required,uuid"`
	ActivationCode string `json:"activation_code"`
	Email          string `json:"email" binding:"omitempty,email"`
}

type ProfileResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	CompanyID   string          `json:"company_id,omitempty"`
	Status      string          `json:"status"`
	ProfileData json.RawMessage `json:"profile_data,omitempty"`
	CreatedAt   string          `json:"created_at"`
	LastUpdated string          `json:"last_updated"`
}

type SnapshotResponse struct {
	ID          string          `json:"id"`
	ProfileID   string          `json:"profile_id"`
	UserID      string          `json:"user_id"`
	ProfileData json.RawMessage `json:"profile_data,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

type GenerateAIProfileResponse struct {
	Result json.RawMessage `json:"result"`
}
