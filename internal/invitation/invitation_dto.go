package invitation

type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type AcceptInvitationRequest struct {
	InvitationCode string `json:"invitation_code" binding:"required"`
	FullName       string `json:"full_name" binding:"required,min=2,max=255"`
	TelegramChatID string `json:"telegram_chat_id" binding:"omitempty,max=100"`
}

type InvitationResponse struct {
	ID             string `json:"id"`
	CompanyID      string `json:"company_id"`
	Email          string `json:"email"`
	InvitationCode string `json:"invitation_code"`
	Status         string `json:"status"`
	IsValid        bool   `json:"is_valid"`
	CreatedAt      string `json:"created_at"`
	ExpiresAt      string `json:"expires_at"`
}

type AcceptInvitationResponse struct {
	Token          string `json:"token"`
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	CompanyID      string `json:"company_id"`
	ActivationCode string `json:"activation_code"`
	Status         string `json:"status"`
}
