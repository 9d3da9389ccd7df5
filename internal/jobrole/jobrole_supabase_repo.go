package jobrole

import (
	"context"
	"encoding/json"
	"time"

	jobroleerrors "github.com/JerkingFan/Evalyze/internal/jobrole/errors"
	"github.com/JerkingFan/Evalyze/internal/supabase"

	"github.com/google/uuid"
)

const jobRolesTable = "job_roles"

type jobRoleRow struct {
	ID           uuid.UUID       `json:"id"`
	CompanyID    uuid.UUID       `json:"company_id"`
	Title        string          `json:"title"`
	RoleType     string          `json:"role_type"`
	Description  string          `json:"description,omitempty"`
	Requirements json.RawMessage `json:"requirements,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toJobRoleRow(jr *JobRole) jobRoleRow {
	return jobRoleRow{
		ID:           jr.ID,
		CompanyID:    jr.CompanyID,
		Title:        jr.Title,
		RoleType:     jr.RoleType,
		Description:  jr.Description,
		Requirements: jr.Requirements,
		CreatedAt:    jr.CreatedAt,
		UpdatedAt:    jr.UpdatedAt,
	}
}

func (r jobRoleRow) toEntity() JobRole {
	return JobRole{
		ID:           r.ID,
		CompanyID:    r.CompanyID,
		Title:        r.Title,
		RoleType:     r.RoleType,
		Description:  r.Description,
		Requirements: r.Requirements,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type supabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(client *supabase.Client) Repository {
	return &supabaseRepository{client: client}
}

func (r *supabaseRepository) Create(ctx context.Context, jr *JobRole) error {
	now := time.Now().UTC()
	if jr.CreatedAt.IsZero() {
		jr.CreatedAt = now
	}
	jr.UpdatedAt = now

	row, err := supabase.Insert(ctx, r.client, jobRolesTable, toJobRoleRow(jr))
	if err != nil {
		return err
	}
	*jr = row.toEntity()
	return nil
}

func (r *supabaseRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*JobRole, error) {
	rows, err := supabase.Select[jobRoleRow](ctx, r.client, jobRolesTable, supabase.Filters{
		"id":         supabase.Eq(id.String()),
		"company_id": supabase.Eq(companyID.String()),
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, jobroleerrors.ErrJobRoleNotFound
	}
	jr := rows[0].toEntity()
	return &jr, nil
}

func (r *supabaseRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, roleType string) ([]JobRole, error) {
	filters := supabase.Filters{"company_id": supabase.Eq(companyID.String())}
	if roleType != "" {
		filters["role_type"] = supabase.Eq(roleType)
	}

	rows, err := supabase.Select[jobRoleRow](ctx, r.client, jobRolesTable, filters)
	if err != nil {
		return nil, err
	}
	roles := make([]JobRole, len(rows))
	for i, row := range rows {
		roles[i] = row.toEntity()
	}
	return roles, nil
}

func (r *supabaseRepository) Update(ctx context.Context, jr *JobRole) error {
	patch := map[string]any{
		"title":        jr.Title,
		"role_type":    jr.RoleType,
		"description":  jr.Description,
		"requirements": jr.Requirements,
		"updated_at":   time.Now().UTC(),
	}
	_, err := supabase.Update(ctx, r.client, jobRolesTable, patch, supabase.Filters{
		"id":         supabase.Eq(jr.ID.String()),
		"company_id": supabase.Eq(jr.CompanyID.String()),
	})
	if supabase.IsEmptyResponse(err) {
		return jobroleerrors.ErrJobRoleNotFound
	}
	return err
}

func (r *supabaseRepository) DeleteByID(ctx context.Context, companyID, id uuid.UUID) error {
	return supabase.Delete(ctx, r.client, jobRolesTable, supabase.Filters{
		"id":         supabase.Eq(id.String()),
		"company_id": supabase.Eq(companyID.String()),
	})
}
