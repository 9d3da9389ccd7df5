package user

import (
	"context"
	"errors"

	"github.com/JerkingFan/Evalyze/internal/tenant"
	usererrors "github.com/JerkingFan/Evalyze/internal/user/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock

// Repository is implemented twice: over the local Postgres store (GORM) and
// over the Supabase tabular API. The backend is chosen once at startup.
type Repository interface {
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByActivationCode(ctx context.Context, code string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	FindByCompany(ctx context.Context, companyID string) ([]User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SetJobRoleByActivationCode(ctx context.Context, code string, jobRoleID uuid.UUID) error
	SetJobRoleByEmail(ctx context.Context, email string, jobRoleID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return mapWriteError(err)
	}
	return nil
}

// Save upserts by email in a single statement. The unique constraint on
// email resolves concurrent writers instead of a lookup-then-write race.
func (r *repository) Save(ctx context.Context, u *User) (*User, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"company_id", "job_role_id", "full_name", "telegram_chat_id",
				"role", "status", "activation_code", "password", "last_updated",
			}),
		}).
		Create(u).Error
	if err != nil {
		return nil, mapWriteError(err)
	}
	return u, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		return nil, mapReadError(err)
	}
	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, mapReadError(err)
	}
	return &u, nil
}

func (r *repository) FindByActivationCode(ctx context.Context, code string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("activation_code = ?", code).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrActivationCodeNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindAll(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).Find(&users).Error
	return users, err
}

func (r *repository) FindByCompany(ctx context.Context, companyID string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID)).Find(&users).Error
	return users, err
}

func (r *repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *repository) SetJobRoleByActivationCode(ctx context.Context, code string, jobRoleID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&User{}).
		Where("activation_code = ?", code).
		Update("job_role_id", jobRoleID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usererrors.ErrUserNotFound
	}
	return nil
}

func (r *repository) SetJobRoleByEmail(ctx context.Context, email string, jobRoleID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&User{}).
		Where("email = ?", email).
		Update("job_role_id", jobRoleID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usererrors.ErrUserNotFound
	}
	return nil
}

func mapReadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usererrors.ErrUserNotFound
	}
	return err
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return usererrors.ErrEmailAlreadyExists
	}
	return err
}
