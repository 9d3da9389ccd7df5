package invitation

import (
	"context"
	"time"

	invitationerrors "github.com/JerkingFan/Evalyze/internal/invitation/errors"
	"github.com/JerkingFan/Evalyze/internal/supabase"

	"github.com/google/uuid"
)

const invitationsTable = "invitations"

type invitationRow struct {
	ID             uuid.UUID `json:"id"`
	CompanyID      uuid.UUID `json:"company_id"`
	Email          string    `json:"email"`
	InvitationCode string    `json:"invitation_code"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

func toInvitationRow(inv *Invitation) invitationRow {
	return invitationRow{
		ID:             inv.ID,
		CompanyID:      inv.CompanyID,
		Email:          inv.Email,
		InvitationCode: inv.InvitationCode,
		Status:         inv.Status,
		CreatedAt:      inv.CreatedAt,
		ExpiresAt:      inv.ExpiresAt,
	}
}

func (r invitationRow) toEntity() Invitation {
	return Invitation{
		ID:             r.ID,
		CompanyID:      r.CompanyID,
		Email:          r.Email,
		InvitationCode: r.InvitationCode,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
		ExpiresAt:      r.ExpiresAt,
	}
}

type supabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(client *supabase.Client) Repository {
	return &supabaseRepository{client: client}
}

func (r *supabaseRepository) Create(ctx context.Context, inv *Invitation) error {
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}
	row, err := supabase.Insert(ctx, r.client, invitationsTable, toInvitationRow(inv))
	if err != nil {
		return err
	}
	*inv = row.toEntity()
	return nil
}

func (r *supabaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*Invitation, error) {
	return r.findOne(ctx, supabase.Filters{"id": supabase.Eq(id.String())})
}

func (r *supabaseRepository) FindByCode(ctx context.Context, code string) (*Invitation, error) {
	return r.findOne(ctx, supabase.Filters{"invitation_code": supabase.Eq(code)})
}

func (r *supabaseRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]Invitation, error) {
	rows, err := supabase.Select[invitationRow](ctx, r.client, invitationsTable, supabase.Filters{
		"company_id": supabase.Eq(companyID.String()),
	})
	if err != nil {
		return nil, err
	}
	invs := make([]Invitation, len(rows))
	for i, row := range rows {
		invs[i] = row.toEntity()
	}
	return invs, nil
}

func (r *supabaseRepository) FindPendingByEmail(ctx context.Context, companyID uuid.UUID, email string) (*Invitation, error) {
	rows, err := supabase.Select[invitationRow](ctx, r.client, invitationsTable, supabase.Filters{
		"company_id": supabase.Eq(companyID.String()),
		"email":      supabase.Eq(email),
		"status":     supabase.Eq(StatusPending),
		"expires_at": "gt." + time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, invitationerrors.ErrInvitationNotFound
	}
	inv := rows[0].toEntity()
	return &inv, nil
}

// MarkAccepted patches only rows still pending, so a lost race surfaces
// as the already-accepted error instead of a silent double flip.
func (r *supabaseRepository) MarkAccepted(ctx context.Context, id uuid.UUID) error {
	patch := map[string]any{"status": StatusAccepted}
	_, err := supabase.Update(ctx, r.client, invitationsTable, patch, supabase.Filters{
		"id":     supabase.Eq(id.String()),
		"status": supabase.Eq(StatusPending),
	})
	if err != nil {
		if supabase.IsEmptyResponse(err) {
			return invitationerrors.ErrInvitationAlreadyAccepted
		}
		return err
	}
	return nil
}

func (r *supabaseRepository) DeleteByID(ctx context.Context, companyID, id uuid.UUID) error {
	return supabase.Delete(ctx, r.client, invitationsTable, supabase.Filters{
		"id":         supabase.Eq(id.String()),
		"company_id": supabase.Eq(companyID.String()),
	})
}

func (r *supabaseRepository) findOne(ctx context.Context, filters supabase.Filters) (*Invitation, error) {
	rows, err := supabase.Select[invitationRow](ctx, r.client, invitationsTable, filters)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, invitationerrors.ErrInvitationNotFound
	}
	inv := rows[0].toEntity()
	return &inv, nil
}
