package profile

import (
	"context"
	"errors"

	profileerrors "github.com/JerkingFan/Evalyze/internal/profile/errors"
	"github.com/JerkingFan/Evalyze/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=profile_repo.go -destination=mock/profile_repo_mock.go -package=mock

type Repository interface {
	Upsert(ctx context.Context, p *Profile) (*Profile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID) ([]Profile, error)
	UpdateStatus(ctx context.Context, userID uuid.UUID, status string) error
}

type SnapshotRepository interface {
	Create(ctx context.Context, s *Snapshot) error
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]Snapshot, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Upsert writes the profile keyed on user_id in one statement. The unique
// index resolves concurrent first saves for the same user.
func (r *repository) Upsert(ctx context.Context, p *Profile) (*Profile, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"company_id", "status", "profile_data", "last_updated",
			}),
		}).
		Create(p).Error
	if err != nil {
		return nil, err
	}

	return r.FindByUserID(ctx, p.UserID)
}

func (r *repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, profileerrors.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]Profile, error) {
	var profiles []Profile
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID.String())).
		Order("last_updated DESC").
		Find(&profiles).Error
	return profiles, err
}

func (r *repository) UpdateStatus(ctx context.Context, userID uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).Model(&Profile{}).
		Where("user_id = ?", userID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return profileerrors.ErrProfileNotFound
	}
	return nil
}

type snapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Create(ctx context.Context, s *Snapshot) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *snapshotRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]Snapshot, error) {
	var snapshots []Snapshot
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&snapshots).Error
	return snapshots, err
}
