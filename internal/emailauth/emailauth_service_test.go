package emailauth_test

import (
	"context"
	"testing"
	"time"

	"github.com/JerkingFan/Evalyze/internal/emailauth"
	emailautherrors "github.com/JerkingFan/Evalyze/internal/emailauth/errors"
	"github.com/JerkingFan/Evalyze/internal/user"
	usererrors "github.com/JerkingFan/Evalyze/internal/user/errors"

	emailMock "github.com/JerkingFan/Evalyze/internal/email/mock"
	emailauthMock "github.com/JerkingFan/Evalyze/internal/emailauth/mock"
	userMock "github.com/JerkingFan/Evalyze/internal/user/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type serviceDeps struct {
	service emailauth.Service
	codes   *emailauthMock.MockRepository
	users   *userMock.MockRepository
	mailer  *emailMock.MockSender
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	ctrl := gomock.NewController(t)
	codes := emailauthMock.NewMockRepository(ctrl)
	users := userMock.NewMockRepository(ctrl)
	mailer := emailMock.NewMockSender(ctrl)

	svc := emailauth.NewService(codes, users, mailer)

	return &serviceDeps{
		service: svc,
		codes:   codes,
		users:   users,
		mailer:  mailer,
	}
}

func TestEmailAuthService_RequestCode(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.codes.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, v *emailauth.EmailVerification) error {
				assert.Equal(t, "owner@acme.com", v.Email)
				assert.Len(t, v.Code, 6)
				assert.WithinDuration(t, time.Now().UTC().Add(emailauth.CodeTTL), v.ExpiresAt, time.Minute)
				return nil
			})

		deps.mailer.EXPECT().Send("owner@acme.com", gomock.Any(), gomock.Any()).Return(nil)

		err := deps.service.RequestCode(ctx, emailauth.RequestCodeRequest{Email: "owner@acme.com"})

		assert.NoError(t, err)
	})

	t.Run("unknown email still gets a code", func(t *testing.T) {
		deps := setupServiceTest(t)

		// The account is created at verification time, so the request
		// stage must not reject a first-time email.
		deps.codes.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.mailer.EXPECT().Send("newhire@acme.com", gomock.Any(), gomock.Any()).Return(nil)

		err := deps.service.RequestCode(ctx, emailauth.RequestCodeRequest{Email: "newhire@acme.com"})

		assert.NoError(t, err)
	})
}

func TestEmailAuthService_VerifyCode(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	activeCode := func() *emailauth.EmailVerification {
		return &emailauth.EmailVerification{
			ID:        uuid.New(),
			Email:     "owner@acme.com",
			Code:      "123456",
			ExpiresAt: time.Now().UTC().Add(emailauth.CodeTTL),
		}
	}

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		v := activeCode()

		deps.codes.EXPECT().FindActiveByEmail(ctx, v.Email).Return(v, nil)
		deps.codes.EXPECT().MarkUsed(ctx, v.ID).Return(nil)
		deps.users.EXPECT().
			FindByEmail(ctx, v.Email).
			Return(&user.User{
				ID:        uuid.New(),
				CompanyID: &companyID,
				Email:     v.Email,
				Role:      user.RoleCompany,
				Status:    user.StatusCompany,
			}, nil)

		resp, err := deps.service.VerifyCode(ctx, emailauth.VerifyCodeRequest{Email: v.Email, Code: "123456"})

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, companyID.String(), resp.CompanyID)
	})

	t.Run("first login creates an employee account", func(t *testing.T) {
		deps := setupServiceTest(t)
		v := activeCode()
		v.Email = "newhire@acme.com"

		deps.codes.EXPECT().FindActiveByEmail(ctx, v.Email).Return(v, nil)
		deps.codes.EXPECT().MarkUsed(ctx, v.ID).Return(nil)
		deps.users.EXPECT().
			FindByEmail(ctx, v.Email).
			Return(nil, usererrors.ErrUserNotFound)
		deps.users.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, u *user.User) error {
				assert.Equal(t, v.Email, u.Email)
				assert.Equal(t, user.RoleEmployee, u.Role)
				assert.Equal(t, user.StatusActive, u.Status)
				assert.Equal(t, "Newhire", u.FullName)
				assert.Nil(t, u.CompanyID)
				assert.NotEmpty(t, u.ActivationCode)
				return nil
			})

		resp, err := deps.service.VerifyCode(ctx, emailauth.VerifyCodeRequest{Email: v.Email, Code: "123456"})

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, user.RoleEmployee, resp.Role)
		assert.Empty(t, resp.CompanyID)
	})

	t.Run("wrong code increments attempts", func(t *testing.T) {
		deps := setupServiceTest(t)
		v := activeCode()

		deps.codes.EXPECT().FindActiveByEmail(ctx, v.Email).Return(v, nil)
		deps.codes.EXPECT().IncrementAttempts(ctx, v.ID).Return(nil).Times(1)

		_, err := deps.service.VerifyCode(ctx, emailauth.VerifyCodeRequest{Email: v.Email, Code: "000000"})

		assert.ErrorIs(t, err, emailautherrors.ErrCodeMismatch)
	})

	t.Run("burned out after max attempts", func(t *testing.T) {
		deps := setupServiceTest(t)
		v := activeCode()
		v.Attempts = emailauth.MaxAttempts

		deps.codes.EXPECT().FindActiveByEmail(ctx, v.Email).Return(v, nil)

		_, err := deps.service.VerifyCode(ctx, emailauth.VerifyCodeRequest{Email: v.Email, Code: "123456"})

		assert.ErrorIs(t, err, emailautherrors.ErrTooManyAttempts)
	})

	t.Run("expired code", func(t *testing.T) {
		deps := setupServiceTest(t)
		v := activeCode()
		v.ExpiresAt = time.Now().UTC().Add(-time.Minute)

		deps.codes.EXPECT().FindActiveByEmail(ctx, v.Email).Return(v, nil)

		_, err := deps.service.VerifyCode(ctx, emailauth.VerifyCodeRequest{Email: v.Email, Code: "123456"})

		assert.ErrorIs(t, err, emailautherrors.ErrCodeExpired)
	})

	t.Run("no active code", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.codes.EXPECT().
			FindActiveByEmail(ctx, "owner@acme.com").
			Return(nil, emailautherrors.ErrCodeNotFound)

		_, err := deps.service.VerifyCode(ctx, emailauth.VerifyCodeRequest{Email: "owner@acme.com", Code: "123456"})

		assert.ErrorIs(t, err, emailautherrors.ErrCodeNotFound)
	})
}
