package user

import (
	"context"
	"time"

	"github.com/JerkingFan/Evalyze/internal/supabase"
	usererrors "github.com/JerkingFan/Evalyze/internal/user/errors"

	"github.com/google/uuid"
)

const usersTable = "users"

// userRow is the wire shape of the remote users table. The entity keeps GORM
// tags for the local backend, so the translation lives here.
type userRow struct {
	ID             uuid.UUID  `json:"id"`
	CompanyID      *uuid.UUID `json:"company_id,omitempty"`
	JobRoleID      *uuid.UUID `json:"job_role_id,omitempty"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email"`
	TelegramChatID string     `json:"telegram_chat_id,omitempty"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	ActivationCode string     `json:"activation_code,omitempty"`
	Password       string     `json:"password,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	LastUpdated    time.Time  `json:"last_updated"`
}

func toUserRow(u *User) userRow {
	return userRow{
		ID:             u.ID,
		CompanyID:      u.CompanyID,
		JobRoleID:      u.JobRoleID,
		FullName:       u.FullName,
		Email:          u.Email,
		TelegramChatID: u.TelegramChatID,
		Role:           u.Role,
		Status:         u.Status,
		ActivationCode: u.ActivationCode,
		Password:       u.Password,
		CreatedAt:      u.CreatedAt,
		LastUpdated:    u.LastUpdated,
	}
}

func (r userRow) toEntity() User {
	return User{
		ID:             r.ID,
		CompanyID:      r.CompanyID,
		JobRoleID:      r.JobRoleID,
		FullName:       r.FullName,
		Email:          r.Email,
		TelegramChatID: r.TelegramChatID,
		Role:           r.Role,
		Status:         r.Status,
		ActivationCode: r.ActivationCode,
		Password:       r.Password,
		CreatedAt:      r.CreatedAt,
		LastUpdated:    r.LastUpdated,
	}
}

type supabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(client *supabase.Client) Repository {
	return &supabaseRepository{client: client}
}

func (r *supabaseRepository) Create(ctx context.Context, u *User) error {
	row, err := supabase.Insert(ctx, r.client, usersTable, toUserRow(u))
	if err != nil {
		return err
	}
	*u = row.toEntity()
	return nil
}

func (r *supabaseRepository) Save(ctx context.Context, u *User) (*User, error) {
	u.LastUpdated = time.Now().UTC()
	row, err := supabase.Upsert(ctx, r.client, usersTable, "email", toUserRow(u))
	if err != nil {
		return nil, err
	}
	stored := row.toEntity()
	return &stored, nil
}

func (r *supabaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.findOne(ctx, supabase.Filters{"id": supabase.Eq(id.String())}, usererrors.ErrUserNotFound)
}

func (r *supabaseRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, supabase.Filters{"email": supabase.Eq(email)}, usererrors.ErrUserNotFound)
}

func (r *supabaseRepository) FindByActivationCode(ctx context.Context, code string) (*User, error) {
	return r.findOne(ctx, supabase.Filters{"activation_code": supabase.Eq(code)}, usererrors.ErrActivationCodeNotFound)
}

func (r *supabaseRepository) FindAll(ctx context.Context) ([]User, error) {
	rows, err := supabase.Select[userRow](ctx, r.client, usersTable, nil)
	if err != nil {
		return nil, err
	}
	return rowsToEntities(rows), nil
}

func (r *supabaseRepository) FindByCompany(ctx context.Context, companyID string) ([]User, error) {
	rows, err := supabase.Select[userRow](ctx, r.client, usersTable, supabase.Filters{
		"company_id": supabase.Eq(companyID),
	})
	if err != nil {
		return nil, err
	}
	return rowsToEntities(rows), nil
}

func (r *supabaseRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	rows, err := supabase.Select[userRow](ctx, r.client, usersTable, supabase.Filters{
		"email": supabase.Eq(email),
	})
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func (r *supabaseRepository) SetJobRoleByActivationCode(ctx context.Context, code string, jobRoleID uuid.UUID) error {
	patch := map[string]any{"job_role_id": jobRoleID, "last_updated": time.Now().UTC()}
	_, err := supabase.Update(ctx, r.client, usersTable, patch, supabase.Filters{
		"activation_code": supabase.Eq(code),
	})
	return mapUpdateError(err)
}

func (r *supabaseRepository) SetJobRoleByEmail(ctx context.Context, email string, jobRoleID uuid.UUID) error {
	patch := map[string]any{"job_role_id": jobRoleID, "last_updated": time.Now().UTC()}
	_, err := supabase.Update(ctx, r.client, usersTable, patch, supabase.Filters{
		"email": supabase.Eq(email),
	})
	return mapUpdateError(err)
}

func mapUpdateError(err error) error {
	if supabase.IsEmptyResponse(err) {
		return usererrors.ErrUserNotFound
	}
	return err
}

func (r *supabaseRepository) findOne(ctx context.Context, filters supabase.Filters, notFound error) (*User, error) {
	rows, err := supabase.Select[userRow](ctx, r.client, usersTable, filters)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, notFound
	}
	u := rows[0].toEntity()
	return &u, nil
}

func rowsToEntities(rows []userRow) []User {
	users := make([]User, len(rows))
	for i, row := range rows {
		users[i] = row.toEntity()
	}
	return users
}
