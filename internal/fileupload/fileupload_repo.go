package fileupload

import (
	"context"
	"errors"

	fileuploaderrors "github.com/JerkingFan/Evalyze/internal/fileupload/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=fileupload_repo.go -destination=mock/fileupload_repo_mock.go -package=mock

// Repository is local-only: file bytes live on this host, so their
// metadata rows stay in the local store regardless of the entity backend.
type Repository interface {
	Create(ctx context.Context, f *FileUpload) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*FileUpload, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]FileUpload, error)
	DeleteByID(ctx context.Context, userID, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *FileUpload) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *repository) FindByID(ctx context.Context, userID, id uuid.UUID) (*FileUpload, error) {
	var f FileUpload
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&f, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fileuploaderrors.ErrFileNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *repository) FindByUser(ctx context.Context, userID uuid.UUID) ([]FileUpload, error) {
	var files []FileUpload
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

func (r *repository) DeleteByID(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&FileUpload{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fileuploaderrors.ErrFileNotFound
	}
	return nil
}
