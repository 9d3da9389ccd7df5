package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/JerkingFan/Evalyze/internal/company"
	"github.com/JerkingFan/Evalyze/internal/companycontent"
	"github.com/JerkingFan/Evalyze/internal/invitation"
	"github.com/JerkingFan/Evalyze/internal/jobrole"
	"github.com/JerkingFan/Evalyze/internal/profile"
	"github.com/JerkingFan/Evalyze/internal/user"
	usererrors "github.com/JerkingFan/Evalyze/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=export_service.go -destination=mock/export_service_mock.go -package=mock

// Document is the JSON export of everything a company owns.
type Document struct {
	ExportedAt  string                          `json:"exported_at"`
	Company     company.CompanyResponse         `json:"company"`
	Employees   []user.User                     `json:"employees"`
	Profiles    []profile.Profile               `json:"profiles"`
	Invitations []invitation.Invitation         `json:"invitations"`
	JobRoles    []jobrole.JobRole               `json:"job_roles"`
	Content     []companycontent.CompanyContent `json:"content"`
}

type Service interface {
	ExportJSON(ctx context.Context, companyEmail string) (*Document, error)
	ExportSQL(ctx context.Context, companyEmail string) ([]byte, error)
}

type service struct {
	users       user.Repository
	companies   company.Repository
	profiles    profile.Repository
	invitations invitation.Repository
	jobRoles    jobrole.Repository
	contents    companycontent.Repository
	logger      *zap.Logger
}

func NewService(
	users user.Repository,
	companies company.Repository,
	profiles profile.Repository,
	invitations invitation.Repository,
	jobRoles jobrole.Repository,
	contents companycontent.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("export.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		users:       users,
		companies:   companies,
		profiles:    profiles,
		invitations: invitations,
		jobRoles:    jobRoles,
		contents:    contents,
		logger:      l,
	}
}

func (s *service) ExportJSON(ctx context.Context, companyEmail string) (*Document, error) {
	companyID, err := s.companyID(ctx, companyEmail)
	if err != nil {
		return nil, err
	}

	comp, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	employees, err := s.users.FindByCompany(ctx, companyID.String())
	if err != nil {
		return nil, err
	}
	for i := range employees {
		// Credentials never leave the system in an export.
		employees[i].Password = ""
	}

	profiles, err := s.profiles.FindByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	invitations, err := s.invitations.FindByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	jobRoles, err := s.jobRoles.FindByCompany(ctx, companyID, "")
	if err != nil {
		return nil, err
	}

	contents, err := s.contents.FindByCompany(ctx, companyID, "")
	if err != nil {
		return nil, err
	}

	s.logger.Info("company export built",
		zap.String("company_id", companyID.String()),
		zap.Int("employees", len(employees)),
		zap.Int("profiles", len(profiles)),
	)

	return &Document{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Company: company.CompanyResponse{
			ID:        comp.ID.String(),
			Name:      comp.Name,
			CreatedAt: comp.CreatedAt.UTC().Format(time.RFC3339),
		},
		Employees:   employees,
		Profiles:    profiles,
		Invitations: invitations,
		JobRoles:    jobRoles,
		Content:     contents,
	}, nil
}

// ExportSQL renders the company data as INSERT statements suitable for
// replaying into a fresh Postgres schema.
func (s *service) ExportSQL(ctx context.Context, companyEmail string) ([]byte, error) {
	doc, err := s.ExportJSON(ctx, companyEmail)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "-- Evalyze export for company %s (%s)\n", sqlString(doc.Company.Name), doc.Company.ID)
	fmt.Fprintf(&b, "-- generated at %s\n\n", doc.ExportedAt)

	fmt.Fprintf(&b, "INSERT INTO companies (id, name, created_at) VALUES (%s, %s, %s);\n\n",
		sqlString(doc.Company.ID), sqlString(doc.Company.Name), sqlString(doc.Company.CreatedAt))

	for _, u := range doc.Employees {
		fmt.Fprintf(&b,
			"INSERT INTO users (id, company_id, job_role_id, full_name, email, role, status, activation_code) VALUES (%s, %s, %s, %s, %s, %s, %s, %s);\n",
			sqlString(u.ID.String()),
			sqlNullableUUID(u.CompanyID),
			sqlNullableUUID(u.JobRoleID),
			sqlString(u.FullName),
			sqlString(u.Email),
			sqlString(u.Role),
			sqlString(u.Status),
			sqlString(u.ActivationCode),
		)
	}
	b.WriteString("\n")

	for _, p := range doc.Profiles {
		fmt.Fprintf(&b,
			"INSERT INTO profiles (id, user_id, company_id, status, profile_data) VALUES (%s, %s, %s, %s, %s);\n",
			sqlString(p.ID.String()),
			sqlString(p.UserID.String()),
			sqlNullableUUID(p.CompanyID),
			sqlString(p.Status),
			sqlJSON(p.ProfileData),
		)
	}
	b.WriteString("\n")

	for _, inv := range doc.Invitations {
		fmt.Fprintf(&b,
			"INSERT INTO invitations (id, company_id, email, invitation_code, status, expires_at) VALUES (%s, %s, %s, %s, %s, %s);\n",
			sqlString(inv.ID.String()),
			sqlString(inv.CompanyID.String()),
			sqlString(inv.Email),
			sqlString(inv.InvitationCode),
			sqlString(inv.Status),
			sqlString(inv.ExpiresAt.UTC().Format(time.RFC3339)),
		)
	}
	b.WriteString("\n")

	for _, jr := range doc.JobRoles {
		fmt.Fprintf(&b,
			"INSERT INTO job_roles (id, company_id, title, role_type, description, requirements) VALUES (%s, %s, %s, %s, %s, %s);\n",
			sqlString(jr.ID.String()),
			sqlString(jr.CompanyID.String()),
			sqlString(jr.Title),
			sqlString(jr.RoleType),
			sqlString(jr.Description),
			sqlJSON(jr.Requirements),
		)
	}
	b.WriteString("\n")

	for _, cc := range doc.Content {
		fmt.Fprintf(&b,
			"INSERT INTO company_content (id, company_id, content_type, title, data) VALUES (%s, %s, %s, %s, %s);\n",
			sqlString(cc.ID.String()),
			sqlString(cc.CompanyID.String()),
			sqlString(cc.ContentType),
			sqlString(cc.Title),
			sqlJSON(cc.Data),
		)
	}

	return []byte(b.String()), nil
}

func (s *service) companyID(ctx context.Context, companyEmail string) (uuid.UUID, error) {
	owner, err := s.users.FindByEmail(ctx, companyEmail)
	if err != nil {
		return uuid.Nil, err
	}
	if owner.CompanyID == nil {
		return uuid.Nil, usererrors.ErrUserNotFound
	}
	return *owner.CompanyID, nil
}

// sqlString renders a single-quoted SQL literal. Embedded quotes are
// doubled, which is all Postgres needs for standard strings.
func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func sqlNullableUUID(id *uuid.UUID) string {
	if id == nil {
		return "NULL"
	}
	return sqlString(id.String())
}

func sqlJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "NULL"
	}
	return sqlString(string(raw)) + "::jsonb"
}
