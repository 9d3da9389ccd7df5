package company

import (
	"context"
	"time"

	companyerrors "github.com/JerkingFan/Evalyze/internal/company/errors"
	"github.com/JerkingFan/Evalyze/internal/supabase"

	"github.com/google/uuid"
)

const companiesTable = "companies"

type companyRow struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type supabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(client *supabase.Client) Repository {
	return &supabaseRepository{client: client}
}

func (r *supabaseRepository) Create(ctx context.Context, c *Company) error {
	row, err := supabase.Insert(ctx, r.client, companiesTable, companyRow{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	})
	if err != nil {
		return err
	}
	c.ID = row.ID
	c.CreatedAt = row.CreatedAt
	return nil
}

func (r *supabaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	return r.findOne(ctx, supabase.Filters{"id": supabase.Eq(id.String())})
}

func (r *supabaseRepository) FindByName(ctx context.Context, name string) (*Company, error) {
	return r.findOne(ctx, supabase.Filters{"name": supabase.Eq(name)})
}

func (r *supabaseRepository) FindAll(ctx context.Context) ([]Company, error) {
	rows, err := supabase.Select[companyRow](ctx, r.client, companiesTable, nil)
	if err != nil {
		return nil, err
	}
	companies := make([]Company, len(rows))
	for i, row := range rows {
		companies[i] = Company{ID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt}
	}
	return companies, nil
}

func (r *supabaseRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return supabase.Delete(ctx, r.client, companiesTable, supabase.Filters{
		"id": supabase.Eq(id.String()),
	})
}

func (r *supabaseRepository) findOne(ctx context.Context, filters supabase.Filters) (*Company, error) {
	rows, err := supabase.Select[companyRow](ctx, r.client, companiesTable, filters)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, companyerrors.ErrCompanyNotFound
	}
	return &Company{ID: rows[0].ID, Name: rows[0].Name, CreatedAt: rows[0].CreatedAt}, nil
}
