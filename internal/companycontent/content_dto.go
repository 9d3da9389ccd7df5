package companycontent

import "encoding/json"

type CreateContentRequest struct {
	ContentType string          `json:"content_type" binding:"required,min=2,max=100"`
	Title       string          `json:"title" binding:"required,min=2,max=255"`
	Data        json.RawMessage `json:"data"`
}

type UpdateContentRequest struct {
	ContentType string          `json:"content_type" binding:"required,min=2,max=100"`
	Title       string          `json:"title" binding:"required,min=2,max=255"`
	Data        json.RawMessage `json:"data"`
}

type ContentResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	ContentType string          `json:"content_type"`
	Title       string          `json:"title"`
	Data        json.RawMessage `json:"data,omitempty"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}
