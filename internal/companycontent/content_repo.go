package companycontent

import (
	"context"
	"errors"

	contenterrors "github.com/JerkingFan/Evalyze/internal/companycontent/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=content_repo.go -destination=mock/content_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, cc *CompanyContent) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*CompanyContent, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID, contentType string) ([]CompanyContent, error)
	Update(ctx context.Context, cc *CompanyContent) error
	DeleteByID(ctx context.Context, companyID, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, cc *CompanyContent) error {
	return r.db.WithContext(ctx).Create(cc).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*CompanyContent, error) {
	var cc CompanyContent
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&cc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contenterrors.ErrContentNotFound
		}
		return nil, err
	}
	return &cc, nil
}

func (r *repository) FindByCompany(ctx context.Context, companyID uuid.UUID, contentType string) ([]CompanyContent, error) {
	q := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if contentType != "" {
		q = q.Where("content_type = ?", contentType)
	}

	var contents []CompanyContent
	err := q.Order("created_at DESC").Find(&contents).Error
	return contents, err
}

func (r *repository) Update(ctx context.Context, cc *CompanyContent) error {
	res := r.db.WithContext(ctx).Model(&CompanyContent{}).
		Where("id = ? AND company_id = ?", cc.ID, cc.CompanyID).
		Updates(map[string]any{
			"content_type": cc.ContentType,
			"title":        cc.Title,
			"data":         cc.Data,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contenterrors.ErrContentNotFound
	}
	return nil
}

func (r *repository) DeleteByID(ctx context.Context, companyID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&CompanyContent{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contenterrors.ErrContentNotFound
	}
	return nil
}
