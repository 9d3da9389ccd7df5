package companycontent

import (
	"context"
	"encoding/json"
	"time"

	contenterrors "github.com/JerkingFan/Evalyze/internal/companycontent/errors"
	"github.com/JerkingFan/Evalyze/internal/supabase"

	"github.com/google/uuid"
)

const contentTable = "company_content"

type contentRow struct {
	ID          uuid.UUID       `json:"id"`
	CompanyID   uuid.UUID       `json:"company_id"`
	ContentType string          `json:"content_type"`
	Title       string          `json:"title"`
	Data        json.RawMessage `json:"data,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toContentRow(cc *CompanyContent) contentRow {
	return contentRow{
		ID:          cc.ID,
		CompanyID:   cc.CompanyID,
		ContentType: cc.ContentType,
		Title:       cc.Title,
		Data:        cc.Data,
		CreatedAt:   cc.CreatedAt,
		UpdatedAt:   cc.UpdatedAt,
	}
}

func (r contentRow) toEntity() CompanyContent {
	return CompanyContent{
		ID:          r.ID,
		CompanyID:   r.CompanyID,
		ContentType: r.ContentType,
		Title:       r.Title,
		Data:        r.Data,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type supabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(client *supabase.Client) Repository {
	return &supabaseRepository{client: client}
}

func (r *supabaseRepository) Create(ctx context.Context, cc *CompanyContent) error {
	now := time.Now().UTC()
	if cc.CreatedAt.IsZero() {
		cc.CreatedAt = now
	}
	cc.UpdatedAt = now

	row, err := supabase.Insert(ctx, r.client, contentTable, toContentRow(cc))
	if err != nil {
		return err
	}
	*cc = row.toEntity()
	return nil
}

func (r *supabaseRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*CompanyContent, error) {
	rows, err := supabase.Select[contentRow](ctx, r.client, contentTable, supabase.Filters{
		"id":         supabase.Eq(id.String()),
		"company_id": supabase.Eq(companyID.String()),
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, contenterrors.ErrContentNotFound
	}
	cc := rows[0].toEntity()
	return &cc, nil
}

func (r *supabaseRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, contentType string) ([]CompanyContent, error) {
	filters := supabase.Filters{"company_id": supabase.Eq(companyID.String())}
	if contentType != "" {
		filters["content_type"] = supabase.Eq(contentType)
	}

	rows, err := supabase.Select[contentRow](ctx, r.client, contentTable, filters)
	if err != nil {
		return nil, err
	}
	contents := make([]CompanyContent, len(rows))
	for i, row := range rows {
		contents[i] = row.toEntity()
	}
	return contents, nil
}

func (r *supabaseRepository) Update(ctx context.Context, cc *CompanyContent) error {
	patch := map[string]any{
		"content_type": cc.ContentType,
		"title":        cc.Title,
		"data":         cc.Data,
		"updated_at":   time.Now().UTC(),
	}
	_, err := supabase.Update(ctx, r.client, contentTable, patch, supabase.Filters{
		"id":         supabase.Eq(cc.ID.String()),
		"company_id": supabase.Eq(cc.CompanyID.String()),
	})
	if supabase.IsEmptyResponse(err) {
		return contenterrors.ErrContentNotFound
	}
	return err
}

func (r *supabaseRepository) DeleteByID(ctx context.Context, companyID, id uuid.UUID) error {
	return supabase.Delete(ctx, r.client, contentTable, supabase.Filters{
		"id":         supabase.Eq(id.String()),
		"company_id": supabase.Eq(companyID.String()),
	})
}
