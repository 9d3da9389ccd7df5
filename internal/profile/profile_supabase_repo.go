package profile

import (
	"context"
	"encoding/json"
	"time"

	profileerrors "github.com/JerkingFan/Evalyze/internal/profile/errors"
	"github.com/JerkingFan/Evalyze/internal/supabase"

	"github.com/google/uuid"
)

const (
	profilesTable  = "profiles"
	snapshotsTable = "profile_snapshots"
)

type profileRow struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	CompanyID   *uuid.UUID      `json:"company_id,omitempty"`
	Status      string          `json:"status"`
	ProfileData json.RawMessage `json:"profile_data,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	LastUpdated time.Time       `json:"last_updated"`
}

func toProfileRow(p *Profile) profileRow {
	return profileRow{
		ID:          p.ID,
		UserID:      p.UserID,
		CompanyID:   p.CompanyID,
		Status:      p.Status,
		ProfileData: p.ProfileData,
		CreatedAt:   p.CreatedAt,
		LastUpdated: p.LastUpdated,
	}
}

func (r profileRow) toEntity() Profile {
	return Profile{
		ID:          r.ID,
		UserID:      r.UserID,
		CompanyID:   r.CompanyID,
		Status:      r.Status,
		ProfileData: r.ProfileData,
		CreatedAt:   r.CreatedAt,
		LastUpdated: r.LastUpdated,
	}
}

type snapshotRow struct {
	ID          uuid.UUID       `json:"id"`
	ProfileID   uuid.UUID       `json:"profile_id"`
	UserID      uuid.UUID       `json:"user_id"`
	ProfileData json.RawMessage `json:"profile_data,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type supabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(client *supabase.Client) Repository {
	return &supabaseRepository{client: client}
}

// Upsert relies on the remote conflict resolution over user_id, matching
// the single-statement semantics of the local backend.
func (r *supabaseRepository) Upsert(ctx context.Context, p *Profile) (*Profile, error) {
	p.LastUpdated = time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.LastUpdated
	}

	row, err := supabase.Upsert(ctx, r.client, profilesTable, "user_id", toProfileRow(p))
	if err != nil {
		return nil, err
	}
	stored := row.toEntity()
	return &stored, nil
}

func (r *supabaseRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	rows, err := supabase.Select[profileRow](ctx, r.client, profilesTable, supabase.Filters{
		"user_id": supabase.Eq(userID.String()),
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, profileerrors.ErrProfileNotFound
	}
	p := rows[0].toEntity()
	return &p, nil
}

func (r *supabaseRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]Profile, error) {
	rows, err := supabase.Select[profileRow](ctx, r.client, profilesTable, supabase.Filters{
		"company_id": supabase.Eq(companyID.String()),
	})
	if err != nil {
		return nil, err
	}
	profiles := make([]Profile, len(rows))
	for i, row := range rows {
		profiles[i] = row.toEntity()
	}
	return profiles, nil
}

func (r *supabaseRepository) UpdateStatus(ctx context.Context, userID uuid.UUID, status string) error {
	patch := map[string]any{"status": status, "last_updated": time.Now().UTC()}
	_, err := supabase.Update(ctx, r.client, profilesTable, patch, supabase.Filters{
		"user_id": supabase.Eq(userID.String()),
	})
	if supabase.IsEmptyResponse(err) {
		return profileerrors.ErrProfileNotFound
	}
	return err
}

type supabaseSnapshotRepository struct {
	client *supabase.Client
}

func NewSupabaseSnapshotRepository(client *supabase.Client) SnapshotRepository {
	return &supabaseSnapshotRepository{client: client}
}

func (r *supabaseSnapshotRepository) Create(ctx context.Context, s *Snapshot) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	row, err := supabase.Insert(ctx, r.client, snapshotsTable, snapshotRow{
		ID:          s.ID,
		ProfileID:   s.ProfileID,
		UserID:      s.UserID,
		ProfileData: s.ProfileData,
		CreatedAt:   s.CreatedAt,
	})
	if err != nil {
		return err
	}
	s.ID = row.ID
	return nil
}

func (r *supabaseSnapshotRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]Snapshot, error) {
	rows, err := supabase.Select[snapshotRow](ctx, r.client, snapshotsTable, supabase.Filters{
		"user_id": supabase.Eq(userID.String()),
		"order":   "created_at.desc",
	})
	if err != nil {
		return nil, err
	}
	snapshots := make([]Snapshot, len(rows))
	for i, row := range rows {
		snapshots[i] = Snapshot{
			ID:          row.ID,
			ProfileID:   row.ProfileID,
			UserID:      row.UserID,
			ProfileData: row.ProfileData,
			CreatedAt:   row.CreatedAt,
		}
	}
	return snapshots, nil
}
