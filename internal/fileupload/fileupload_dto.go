package fileupload

import "encoding/json"

type FileResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type,omitempty"`
	SizeBytes   int64  `json:"size_bytes"`
	CreatedAt   string `json:"created_at"`
}

type AnalyzeResponse struct {
	Result json.RawMessage `json:"result"`
}
