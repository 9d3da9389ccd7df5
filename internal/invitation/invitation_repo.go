package invitation

import (
	"context"
	"errors"
	"time"

	invitationerrors "github.com/JerkingFan/Evalyze/internal/invitation/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=invitation_repo.go -destination=mock/invitation_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, inv *Invitation) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invitation, error)
	FindByCode(ctx context.Context, code string) (*Invitation, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID) ([]Invitation, error)
	FindPendingByEmail(ctx context.Context, companyID uuid.UUID, email string) (*Invitation, error)
	MarkAccepted(ctx context.Context, id uuid.UUID) error
	DeleteByID(ctx context.Context, companyID, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, inv *Invitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Invitation, error) {
	var inv Invitation
	err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &inv, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*Invitation, error) {
	var inv Invitation
	err := r.db.WithContext(ctx).Where("invitation_code = ?", code).First(&inv).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &inv, nil
}

func (r *repository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]Invitation, error) {
	var invs []Invitation
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&invs).Error
	return invs, err
}

func (r *repository) FindPendingByEmail(ctx context.Context, companyID uuid.UUID, email string) (*Invitation, error) {
	var inv Invitation
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND email = ? AND status = ? AND expires_at > ?",
			companyID, email, StatusPending, time.Now()).
		First(&inv).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &inv, nil
}

// MarkAccepted flips a pending invitation exactly once. The status guard
// in the WHERE clause makes concurrent accepts lose cleanly.
func (r *repository) MarkAccepted(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&Invitation{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", StatusAccepted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return invitationerrors.ErrInvitationAlreadyAccepted
	}
	return nil
}

func (r *repository) DeleteByID(ctx context.Context, companyID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&Invitation{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return invitationerrors.ErrInvitationNotFound
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invitationerrors.ErrInvitationNotFound
	}
	return err
}
