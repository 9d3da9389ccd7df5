package auth

type RegisterRequest struct {
	CompanyName string `json:"company_name" binding:"required,min=2,max=255"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	FullName    string `json:"full_name" binding:"required,min=2,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}

type ActivationLoginRequest struct {
	ActivationCode string `json:"activation_code" binding:"required"`
}

type CreateEmployeeRequest struct {
	Email          string `json:"email" binding:"required,email"`
	FullName       string `json:"full_name" binding:"required,min=2,max=255"`
	TelegramChatID string `json:"telegram_chat_id" binding:"omitempty,max=100"`
	JobRoleID      string `json:"job_role_id" binding:"omitempty,uuid"`
}

type AuthResponse struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FullName  string `json:"full_name"`
	Status    string `json:"status"`
	CompanyID string `json:"company_id,omitempty"`
}

type EmployeeCreatedResponse struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	ActivationCode string `json:"activation_code"`
	Status         string `json:"status"`
}

type CurrentUserResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	Role           string `json:"role"`
	Status         string `json:"status"`
	CompanyID      string `json:"company_id,omitempty"`
	JobRoleID      string `json:"job_role_id,omitempty"`
	TelegramChatID string `json:"telegram_chat_id,omitempty"`
}
