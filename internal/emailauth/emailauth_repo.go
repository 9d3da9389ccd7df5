package emailauth

import (
	"context"
	"errors"
	"time"

	emailautherrors "github.com/JerkingFan/Evalyze/internal/emailauth/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=emailauth_repo.go -destination=mock/emailauth_repo_mock.go -package=mock

// Repository is local-only: codes are short-lived operational state, not
// entity data, so they never move to the remote backend.
type Repository interface {
	Create(ctx context.Context, v *EmailVerification) error
	FindActiveByEmail(ctx context.Context, email string) (*EmailVerification, error)
	IncrementAttempts(ctx context.Context, id uuid.UUID) error
	MarkUsed(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, v *EmailVerification) error {
	return r.db.WithContext(ctx).Create(v).Error
}

// FindActiveByEmail returns the newest unused code for the address,
// expired or not; expiry and attempt checks happen in the service.
func (r *repository) FindActiveByEmail(ctx context.Context, email string) (*EmailVerification, error) {
	var v EmailVerification
	err := r.db.WithContext(ctx).
		Where("email = ? AND used = ?", email, false).
		Order("created_at DESC").
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, emailautherrors.ErrCodeNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *repository) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&EmailVerification{}).
		Where("id = ?", id).
		Update("attempts", gorm.Expr("attempts + 1")).Error
}

// MarkUsed burns a code exactly once; the used guard makes a concurrent
// second verify lose.
func (r *repository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&EmailVerification{}).
		Where("id = ? AND used = ?", id, false).
		Update("used", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return emailautherrors.ErrCodeNotFound
	}
	return nil
}

func (r *repository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&EmailVerification{})
	return res.RowsAffected, res.Error
}
