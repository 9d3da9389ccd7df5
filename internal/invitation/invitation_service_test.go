package invitation_test

import (
	"context"
	"testing"
	"time"

	autherrors "github.com/JerkingFan/Evalyze/internal/auth/errors"
	"github.com/JerkingFan/Evalyze/internal/invitation"
	invitationerrors "github.com/JerkingFan/Evalyze/internal/invitation/errors"
	"github.com/JerkingFan/Evalyze/internal/user"
	usererrors "github.com/JerkingFan/Evalyze/internal/user/errors"

	companyMock "github.com/JerkingFan/Evalyze/internal/company/mock"
	emailMock "github.com/JerkingFan/Evalyze/internal/email/mock"
	invitationMock "github.com/JerkingFan/Evalyze/internal/invitation/mock"
	userMock "github.com/JerkingFan/Evalyze/internal/user/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type serviceDeps struct {
	service     invitation.Service
	invitations *invitationMock.MockRepository
	users       *userMock.MockRepository
	companies   *companyMock.MockRepository
	mailer      *emailMock.MockSender
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	ctrl := gomock.NewController(t)
	invitations := invitationMock.NewMockRepository(ctrl)
	users := userMock.NewMockRepository(ctrl)
	companies := companyMock.NewMockRepository(ctrl)
	mailer := emailMock.NewMockSender(ctrl)

	svc := invitation.NewService(invitations, users, companies, mailer)

	return &serviceDeps{
		service:     svc,
		invitations: invitations,
		users:       users,
		companies:   companies,
		mailer:      mailer,
	}
}

func TestInvitationService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	owner := &user.User{
		ID:        uuid.New(),
		CompanyID: &companyID,
		Email:     "owner@acme.com",
		Role:      user.RoleCompany,
	}

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().FindByEmail(ctx, owner.Email).Return(owner, nil)
		deps.users.EXPECT().ExistsByEmail(ctx, "invitee@acme.com").Return(false, nil)
		deps.invitations.EXPECT().
			FindPendingByEmail(ctx, companyID, "invitee@acme.com").
			Return(nil, invitationerrors.ErrInvitationNotFound)

		deps.invitations.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, inv *invitation.Invitation) error {
				assert.Equal(t, companyID, inv.CompanyID)
				assert.Equal(t, "invitee@acme.com", inv.Email)
				assert.Equal(t, invitation.StatusPending, inv.Status)
				assert.Len(t, inv.InvitationCode, 32)
				assert.WithinDuration(t, inv.CreatedAt.Add(invitation.DefaultTTL), inv.ExpiresAt, time.Second)
				return nil
			})

		deps.companies.EXPECT().FindByID(ctx, companyID).Return(nil, assert.AnError)
		deps.mailer.EXPECT().Send("invitee@acme.com", gomock.Any(), gomock.Any()).Return(nil)

		resp, err := deps.service.Create(ctx, owner.Email, invitation.CreateInvitationRequest{Email: "invitee@acme.com"})

		assert.NoError(t, err)
		assert.Equal(t, invitation.StatusPending, resp.Status)
		assert.True(t, resp.IsValid)
	})

	t.Run("email already registered", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().FindByEmail(ctx, owner.Email).Return(owner, nil)
		deps.users.EXPECT().ExistsByEmail(ctx, "taken@acme.com").Return(true, nil)

		_, err := deps.service.Create(ctx, owner.Email, invitation.CreateInvitationRequest{Email: "taken@acme.com"})

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyExists)
	})

	t.Run("pending invitation already exists", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().FindByEmail(ctx, owner.Email).Return(owner, nil)
		deps.users.EXPECT().ExistsByEmail(ctx, "invitee@acme.com").Return(false, nil)
		deps.invitations.EXPECT().
			FindPendingByEmail(ctx, companyID, "invitee@acme.com").
			Return(&invitation.Invitation{ID: uuid.New()}, nil)

		_, err := deps.service.Create(ctx, owner.Email, invitation.CreateInvitationRequest{Email: "invitee@acme.com"})

		assert.ErrorIs(t, err, invitationerrors.ErrPendingInvitationExists)
	})

	t.Run("caller without company", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().
			FindByEmail(ctx, "solo@acme.com").
			Return(&user.User{ID: uuid.New(), Email: "solo@acme.com"}, nil)

		_, err := deps.service.Create(ctx, "solo@acme.com", invitation.CreateInvitationRequest{Email: "x@acme.com"})

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}

func TestInvitationService_Accept(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	pendingInv := func() *invitation.Invitation {
		now := time.Now().UTC()
		return &invitation.Invitation{
			ID:             uuid.New(),
			CompanyID:      companyID,
			Email:          "invitee@acme.com",
			InvitationCode: "abcdef0123456789abcdef0123456789",
			Status:         invitation.StatusPending,
			CreatedAt:      now,
			ExpiresAt:      now.Add(invitation.DefaultTTL),
		}
	}

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		inv := pendingInv()

		deps.invitations.EXPECT().FindByCode(ctx, inv.InvitationCode).Return(inv, nil)
		deps.invitations.EXPECT().MarkAccepted(ctx, inv.ID).Return(nil)

		deps.users.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, u *user.User) error {
				assert.Equal(t, inv.Email, u.Email)
				assert.Equal(t, user.RoleEmployee, u.Role)
				assert.Equal(t, user.StatusActive, u.Status)
				assert.Equal(t, companyID, *u.CompanyID)
				assert.NotEmpty(t, u.ActivationCode)
				return nil
			})

		resp, err := deps.service.Accept(ctx, invitation.AcceptInvitationRequest{
			InvitationCode: inv.InvitationCode,
			FullName:       "Invitee Name",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, inv.Email, resp.Email)
		assert.Equal(t, companyID.String(), resp.CompanyID)
	})

	t.Run("expired invitation", func(t *testing.T) {
		deps := setupServiceTest(t)
		inv := pendingInv()
		inv.CreatedAt = time.Now().UTC().Add(-8 * 24 * time.Hour)
		inv.ExpiresAt = inv.CreatedAt.Add(invitation.DefaultTTL)

		deps.invitations.EXPECT().FindByCode(ctx, inv.InvitationCode).Return(inv, nil)

		_, err := deps.service.Accept(ctx, invitation.AcceptInvitationRequest{
			InvitationCode: inv.InvitationCode,
			FullName:       "Invitee Name",
		})

		assert.ErrorIs(t, err, invitationerrors.ErrInvitationExpired)
	})

	t.Run("already accepted", func(t *testing.T) {
		deps := setupServiceTest(t)
		inv := pendingInv()
		inv.Status = invitation.StatusAccepted

		deps.invitations.EXPECT().FindByCode(ctx, inv.InvitationCode).Return(inv, nil)

		_, err := deps.service.Accept(ctx, invitation.AcceptInvitationRequest{
			InvitationCode: inv.InvitationCode,
			FullName:       "Invitee Name",
		})

		assert.ErrorIs(t, err, invitationerrors.ErrInvitationAlreadyAccepted)
	})

	t.Run("racing accept loses on the status guard", func(t *testing.T) {
		deps := setupServiceTest(t)
		inv := pendingInv()

		deps.invitations.EXPECT().FindByCode(ctx, inv.InvitationCode).Return(inv, nil)
		deps.users.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.invitations.EXPECT().
			MarkAccepted(ctx, inv.ID).
			Return(invitationerrors.ErrInvitationAlreadyAccepted)

		_, err := deps.service.Accept(ctx, invitation.AcceptInvitationRequest{
			InvitationCode: inv.InvitationCode,
			FullName:       "Invitee Name",
		})

		assert.ErrorIs(t, err, invitationerrors.ErrInvitationAlreadyAccepted)
	})

	t.Run("failed account creation leaves the invitation redeemable", func(t *testing.T) {
		deps := setupServiceTest(t)
		inv := pendingInv()

		// The invited email registered directly in the meantime. The
		// invitation must stay PENDING so the conflict can be resolved
		// and the code retried.
		deps.invitations.EXPECT().FindByCode(ctx, inv.InvitationCode).Return(inv, nil)
		deps.users.EXPECT().
			Create(ctx, gomock.Any()).
			Return(usererrors.ErrEmailAlreadyExists)
		deps.invitations.EXPECT().MarkAccepted(gomock.Any(), gomock.Any()).Times(0)

		_, err := deps.service.Accept(ctx, invitation.AcceptInvitationRequest{
			InvitationCode: inv.InvitationCode,
			FullName:       "Invitee Name",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyExists)
	})

	t.Run("unknown code", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.invitations.EXPECT().
			FindByCode(ctx, "nope").
			Return(nil, invitationerrors.ErrInvitationNotFound)

		_, err := deps.service.Accept(ctx, invitation.AcceptInvitationRequest{
			InvitationCode: "nope",
			FullName:       "Invitee Name",
		})

		assert.ErrorIs(t, err, invitationerrors.ErrInvitationNotFound)
	})
}

func TestInvitationService_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	owner := &user.User{
		ID:        uuid.New(),
		CompanyID: &companyID,
		Email:     "owner@acme.com",
		Role:      user.RoleCompany,
	}

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		invID := uuid.New()

		deps.users.EXPECT().FindByEmail(ctx, owner.Email).Return(owner, nil)
		deps.invitations.EXPECT().DeleteByID(ctx, companyID, invID).Return(nil)

		err := deps.service.Delete(ctx, owner.Email, invID.String())

		assert.NoError(t, err)
	})

	t.Run("malformed id", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().FindByEmail(ctx, owner.Email).Return(owner, nil)

		err := deps.service.Delete(ctx, owner.Email, "not-a-uuid")

		assert.ErrorIs(t, err, invitationerrors.ErrInvalidInvitationID)
	})
}

func TestInvitation_IsValid(t *testing.T) {
	now := time.Now().UTC()

	inv := invitation.Invitation{
		Status:    invitation.StatusPending,
		ExpiresAt: now.Add(time.Hour),
	}
	assert.True(t, inv.IsValid(now))

	// Expiry is evaluated at read time, no sweeper flips the status.
	assert.False(t, inv.IsValid(now.Add(2*time.Hour)))

	inv.Status = invitation.StatusAccepted
	assert.False(t, inv.IsValid(now))
}
