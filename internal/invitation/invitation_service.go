package invitation

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/JerkingFan/Evalyze/internal/auth"
	autherrors "github.com/JerkingFan/Evalyze/internal/auth/errors"
	"github.com/JerkingFan/Evalyze/internal/company"
	"github.com/JerkingFan/Evalyze/internal/email"
	invitationerrors "github.com/JerkingFan/Evalyze/internal/invitation/errors"
	"github.com/JerkingFan/Evalyze/internal/user"
	usererrors "github.com/JerkingFan/Evalyze/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=invitation_service.go -destination=mock/invitation_service_mock.go -package=mock

type Service interface {
	Create(ctx context.Context, companyEmail string, req CreateInvitationRequest) (*InvitationResponse, error)
	ListByCompany(ctx context.Context, companyEmail string) ([]InvitationResponse, error)
	GetByCode(ctx context.Context, code string) (*InvitationResponse, error)
	Accept(ctx context.Context, req AcceptInvitationRequest) (*AcceptInvitationResponse, error)
	Delete(ctx context.Context, companyEmail, id string) error
}

type service struct {
	invitations Repository
	users       user.Repository
	companies   company.Repository
	mailer      email.Sender
	logger      *zap.Logger
	now         func() time.Time
}

func NewService(
	invitations Repository,
	users user.Repository,
	companies company.Repository,
	mailer email.Sender,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("invitation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		invitations: invitations,
		users:       users,
		companies:   companies,
		mailer:      mailer,
		logger:      l,
		now:         time.Now,
	}
}

// Create issues a 7-day invitation for an email address. At most one
// valid pending invitation per (company, email) pair exists at a time.
func (s *service) Create(ctx context.Context, companyEmail string, req CreateInvitationRequest) (*InvitationResponse, error) {
	owner, err := s.companyOwner(ctx, companyEmail)
	if err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, autherrors.ErrEmailAlreadyExists
	}

	if _, err := s.invitations.FindPendingByEmail(ctx, *owner.CompanyID, req.Email); err == nil {
		return nil, invitationerrors.ErrPendingInvitationExists
	} else if !errors.Is(err, invitationerrors.ErrInvitationNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	inv := &Invitation{
		ID:             uuid.New(),
		CompanyID:      *owner.CompanyID,
		Email:          req.Email,
		InvitationCode: generateCode(),
		Status:         StatusPending,
		CreatedAt:      now,
		ExpiresAt:      now.Add(DefaultTTL),
	}
	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.sendInvitationEmail(ctx, owner, inv)

	s.logger.Info("invitation created",
		zap.String("invitation_id", inv.ID.String()),
		zap.String("company_id", inv.CompanyID.String()),
		zap.String("email", inv.Email),
	)

	resp := s.toResponse(inv)
	return &resp, nil
}

func (s *service) ListByCompany(ctx context.Context, companyEmail string) ([]InvitationResponse, error) {
	owner, err := s.companyOwner(ctx, companyEmail)
	if err != nil {
		return nil, err
	}

	invs, err := s.invitations.FindByCompany(ctx, *owner.CompanyID)
	if err != nil {
		return nil, err
	}

	resp := make([]InvitationResponse, len(invs))
	for i := range invs {
		resp[i] = s.toResponse(&invs[i])
	}
	return resp, nil
}

func (s *service) GetByCode(ctx context.Context, code string) (*InvitationResponse, error) {
	inv, err := s.invitations.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(inv)
	return &resp, nil
}

// Accept redeems a pending invitation: an employee account is created
// with a fresh activation code and the invitation flips to ACCEPTED.
func (s *service) Accept(ctx context.Context, req AcceptInvitationRequest) (*AcceptInvitationResponse, error) {
	inv, err := s.invitations.FindByCode(ctx, req.InvitationCode)
	if err != nil {
		return nil, err
	}

	if inv.Status == StatusAccepted {
		return nil, invitationerrors.ErrInvitationAlreadyAccepted
	}
	if !inv.IsValid(s.now()) {
		return nil, invitationerrors.ErrInvitationExpired
	}

	// The account is created first: if the email got registered through
	// another path in the meantime, the invitation stays redeemable
	// instead of being burned without an account. The unique email
	// constraint also serializes two racing accepts of the same code.
	u := &user.User{
		ID:             uuid.New(),
		CompanyID:      &inv.CompanyID,
		FullName:       req.FullName,
		Email:          inv.Email,
		TelegramChatID: req.TelegramChatID,
		Role:           user.RoleEmployee,
		Status:         user.StatusActive,
		ActivationCode: uuid.NewString(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, usererrors.ErrEmailAlreadyExists) {
			return nil, autherrors.ErrEmailAlreadyExists
		}
		return nil, err
	}

	if err := s.invitations.MarkAccepted(ctx, inv.ID); err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(u.Email, u.Role)
	if err != nil {
		return nil, autherrors.ErrTokenGeneration
	}

	s.logger.Info("invitation accepted",
		zap.String("invitation_id", inv.ID.String()),
		zap.String("user_id", u.ID.String()),
	)

	return &AcceptInvitationResponse{
		Token:          token,
		UserID:         u.ID.String(),
		Email:          u.Email,
		FullName:       u.FullName,
		CompanyID:      inv.CompanyID.String(),
		ActivationCode: u.ActivationCode,
		Status:         u.Status,
	}, nil
}

func (s *service) Delete(ctx context.Context, companyEmail, id string) error {
	owner, err := s.companyOwner(ctx, companyEmail)
	if err != nil {
		return err
	}

	invID, err := uuid.Parse(id)
	if err != nil {
		return invitationerrors.ErrInvalidInvitationID
	}

	return s.invitations.DeleteByID(ctx, *owner.CompanyID, invID)
}

func (s *service) companyOwner(ctx context.Context, companyEmail string) (*user.User, error) {
	owner, err := s.users.FindByEmail(ctx, companyEmail)
	if err != nil {
		return nil, err
	}
	if owner.CompanyID == nil {
		return nil, usererrors.ErrUserNotFound
	}
	return owner, nil
}

func (s *service) sendInvitationEmail(ctx context.Context, owner *user.User, inv *Invitation) {
	if s.mailer == nil {
		return
	}

	companyName := ""
	if comp, err := s.companies.FindByID(ctx, inv.CompanyID); err == nil {
		companyName = comp.Name
	}

	if err := s.mailer.Send(inv.Email, "You are invited to Evalyze", email.InvitationBody(companyName, inv.InvitationCode)); err != nil {
		s.logger.Warn("invitation email failed",
			zap.String("email", inv.Email),
			zap.Error(err),
		)
	}
}

func (s *service) toResponse(inv *Invitation) InvitationResponse {
	return InvitationResponse{
		ID:             inv.ID.String(),
		CompanyID:      inv.CompanyID.String(),
		Email:          inv.Email,
		InvitationCode: inv.InvitationCode,
		Status:         inv.Status,
		IsValid:        inv.IsValid(s.now()),
		CreatedAt:      inv.CreatedAt.UTC().Format(time.RFC3339),
		ExpiresAt:      inv.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

// generateCode returns a 32-hex-char code from crypto/rand. Codes are
// bearer credentials, so they must not come from a guessable source.
func generateCode() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform RNG is broken.
		panic(err)
	}
	return hex.EncodeToString(buf)
}
