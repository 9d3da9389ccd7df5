package fileupload

import (
	"time"

	"github.com/google/uuid"
)

// FileUpload is the stored metadata for one uploaded document. The bytes
// live on disk under the upload root; only this row is in the database.
type FileUpload struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	StoredName  string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100)"`
	SizeBytes   int64     `gorm:"not null"`
	CreatedAt   time.Time
}
