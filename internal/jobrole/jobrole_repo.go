package jobrole

import (
	"context"
	"errors"

	jobroleerrors "github.com/JerkingFan/Evalyze/internal/jobrole/errors"
	"github.com/JerkingFan/Evalyze/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=jobrole_repo.go -destination=mock/jobrole_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, jr *JobRole) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*JobRole, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID, roleType string) ([]JobRole, error)
	Update(ctx context.Context, jr *JobRole) error
	DeleteByID(ctx context.Context, companyID, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, jr *JobRole) error {
	return r.db.WithContext(ctx).Create(jr).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*JobRole, error) {
	var jr JobRole
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&jr, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jobroleerrors.ErrJobRoleNotFound
		}
		return nil, err
	}
	return &jr, nil
}

func (r *repository) FindByCompany(ctx context.Context, companyID uuid.UUID, roleType string) ([]JobRole, error) {
	q := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID.String()))
	if roleType != "" {
		q = q.Where("role_type = ?", roleType)
	}

	var roles []JobRole
	err := q.Order("created_at DESC").Find(&roles).Error
	return roles, err
}

func (r *repository) Update(ctx context.Context, jr *JobRole) error {
	res := r.db.WithContext(ctx).Model(&JobRole{}).
		Where("id = ? AND company_id = ?", jr.ID, jr.CompanyID).
		Updates(map[string]any{
			"title":        jr.Title,
			"role_type":    jr.RoleType,
			"description":  jr.Description,
			"requirements": jr.Requirements,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return jobroleerrors.ErrJobRoleNotFound
	}
	return nil
}

func (r *repository) DeleteByID(ctx context.Context, companyID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&JobRole{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return jobroleerrors.ErrJobRoleNotFound
	}
	return nil
}
