package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/JerkingFan/Evalyze/internal/auth"
	autherrors "github.com/JerkingFan/Evalyze/internal/auth/errors"
	"github.com/JerkingFan/Evalyze/internal/company"
	"github.com/JerkingFan/Evalyze/internal/events"
	"github.com/JerkingFan/Evalyze/internal/messaging/kafka"
	"github.com/JerkingFan/Evalyze/internal/shared/contextutil"
	"github.com/JerkingFan/Evalyze/internal/user"
	usererrors "github.com/JerkingFan/Evalyze/internal/user/errors"

	companyMock "github.com/JerkingFan/Evalyze/internal/company/mock"
	emailMock "github.com/JerkingFan/Evalyze/internal/email/mock"
	kafkaMock "github.com/JerkingFan/Evalyze/internal/messaging/kafka/mock"
	userMock "github.com/JerkingFan/Evalyze/internal/user/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

type serviceDeps struct {
	service   auth.Service
	users     *userMock.MockRepository
	companies *companyMock.MockRepository
	outbox    *kafkaMock.MockOutboxRepository
	mailer    *emailMock.MockSender
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	ctrl := gomock.NewController(t)
	users := userMock.NewMockRepository(ctrl)
	companies := companyMock.NewMockRepository(ctrl)
	outbox := kafkaMock.NewMockOutboxRepository(ctrl)
	mailer := emailMock.NewMockSender(ctrl)

	svc := auth.NewService(users, companies, outbox, mailer)

	return &serviceDeps{
		service:   svc,
		users:     users,
		companies: companies,
		outbox:    outbox,
		mailer:    mailer,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)

		req := auth.RegisterRequest{
			CompanyName: "Acme Corp",
			Email:       "owner@acme.com",
			Password:    "supersecret",
			FullName:    "Acme Owner",
		}

		deps.users.EXPECT().ExistsByEmail(ctx, req.Email).Return(false, nil)

		var companyID uuid.UUID
		deps.companies.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, c *company.Company) error {
				assert.Equal(t, req.CompanyName, c.Name)
				companyID = c.ID
				return nil
			})

		deps.users.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, u *user.User) error {
				assert.Equal(t, req.Email, u.Email)
				assert.Equal(t, user.RoleCompany, u.Role)
				assert.Equal(t, user.StatusCompany, u.Status)
				assert.Equal(t, companyID, *u.CompanyID)
				assert.NotEmpty(t, u.ActivationCode)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)))
				return nil
			})

		resp, err := deps.service.Register(ctx, req)

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, req.Email, resp.Email)
		assert.Equal(t, user.RoleCompany, resp.Role)
		assert.Equal(t, companyID.String(), resp.CompanyID)
	})

	t.Run("duplicate email rejected before any row is written", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().ExistsByEmail(ctx, "owner@acme.com").Return(true, nil)
		deps.companies.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
		deps.users.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := deps.service.Register(ctx, auth.RegisterRequest{
			CompanyName: "Acme Corp",
			Email:       "owner@acme.com",
			Password:    "supersecret",
			FullName:    "Acme Owner",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyExists)
	})

	t.Run("constraint race cleans up the company row", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().ExistsByEmail(ctx, "owner@acme.com").Return(false, nil)

		var companyID uuid.UUID
		deps.companies.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, c *company.Company) error {
				companyID = c.ID
				return nil
			})
		deps.users.EXPECT().
			Create(ctx, gomock.Any()).
			Return(usererrors.ErrEmailAlreadyExists)
		deps.companies.EXPECT().
			DeleteByID(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, id uuid.UUID) error {
				assert.Equal(t, companyID, id)
				return nil
			})

		_, err := deps.service.Register(ctx, auth.RegisterRequest{
			CompanyName: "Acme Corp",
			Email:       "owner@acme.com",
			Password:    "supersecret",
			FullName:    "Acme Owner",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	hash := func(pw string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
		assert.NoError(t, err)
		return string(h)
	}

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().
			FindByEmail(ctx, "owner@acme.com").
			Return(&user.User{
				ID:        uuid.New(),
				CompanyID: &companyID,
				Email:     "owner@acme.com",
				Role:      user.RoleCompany,
				Status:    user.StatusCompany,
				Password:  hash("supersecret"),
			}, nil)

		resp, err := deps.service.Login(ctx, auth.LoginRequest{
			Email:    "owner@acme.com",
			Password: "supersecret",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, companyID.String(), resp.CompanyID)
	})

	t.Run("wrong password", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().
			FindByEmail(ctx, "owner@acme.com").
			Return(&user.User{
				Email:    "owner@acme.com",
				Role:     user.RoleCompany,
				Password: hash("supersecret"),
			}, nil)

		_, err := deps.service.Login(ctx, auth.LoginRequest{
			Email:    "owner@acme.com",
			Password: "wrong",
		})

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("employee account -> activation code flow", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().
			FindByEmail(ctx, "emp@acme.com").
			Return(&user.User{
				Email: "emp@acme.com",
				Role:  user.RoleEmployee,
			}, nil)

		_, err := deps.service.Login(ctx, auth.LoginRequest{
			Email:    "emp@acme.com",
			Password: "whatever",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmployeeLogin)
	})

	t.Run("unknown email", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().
			FindByEmail(ctx, "nobody@acme.com").
			Return(nil, usererrors.ErrUserNotFound)

		_, err := deps.service.Login(ctx, auth.LoginRequest{
			Email:    "nobody@acme.com",
			Password: "supersecret",
		})

		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}

func TestAuthService_LoginByActivationCode(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("first login flips invited to active", func(t *testing.T) {
		deps := setupServiceTest(t)

		u := &user.User{
			ID:             uuid.New(),
			CompanyID:      &companyID,
			Email:          "emp@acme.com",
			Role:           user.RoleEmployee,
			Status:         user.StatusInvited,
			ActivationCode: "code-123",
		}

		deps.users.EXPECT().
			FindByActivationCode(ctx, "code-123").
			Return(u, nil)

		deps.users.EXPECT().
			Save(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, saved *user.User) (*user.User, error) {
				assert.Equal(t, user.StatusActive, saved.Status)
				return saved, nil
			}).
			Times(1)

		resp, err := deps.service.LoginByActivationCode(ctx, auth.ActivationLoginRequest{ActivationCode: "code-123"})

		assert.NoError(t, err)
		assert.Equal(t, user.StatusActive, resp.Status)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("repeat login leaves status untouched", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().
			FindByActivationCode(ctx, "code-123").
			Return(&user.User{
				ID:             uuid.New(),
				CompanyID:      &companyID,
				Email:          "emp@acme.com",
				Role:           user.RoleEmployee,
				Status:         user.StatusActive,
				ActivationCode: "code-123",
			}, nil)

		deps.users.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

		resp, err := deps.service.LoginByActivationCode(ctx, auth.ActivationLoginRequest{ActivationCode: "code-123"})

		assert.NoError(t, err)
		assert.Equal(t, user.StatusActive, resp.Status)
	})

	t.Run("unknown code", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().
			FindByActivationCode(ctx, "nope").
			Return(nil, usererrors.ErrActivationCodeNotFound)

		_, err := deps.service.LoginByActivationCode(ctx, auth.ActivationLoginRequest{ActivationCode: "nope"})

		assert.ErrorIs(t, err, autherrors.ErrInvalidActivationCode)
	})
}

func TestAuthService_CreateEmployee(t *testing.T) {
	companyID := uuid.New()

	owner := &user.User{
		ID:        uuid.New(),
		CompanyID: &companyID,
		Email:     "owner@acme.com",
		Role:      user.RoleCompany,
	}

	t.Run("success - persists outbox event with request id", func(t *testing.T) {
		deps := setupServiceTest(t)

		rid := "REQ-123-ABC"
		ctx := contextutil.WithRequestID(context.Background(), rid)

		req := auth.CreateEmployeeRequest{
			Email:    "emp@acme.com",
			FullName: "New Employee",
		}

		deps.users.EXPECT().FindByEmail(ctx, owner.Email).Return(owner, nil)

		var createdID uuid.UUID
		deps.users.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, u *user.User) error {
				assert.Equal(t, req.Email, u.Email)
				assert.Equal(t, user.RoleEmployee, u.Role)
				assert.Equal(t, user.StatusInvited, u.Status)
				assert.Equal(t, companyID, *u.CompanyID)
				assert.NotEmpty(t, u.ActivationCode)
				createdID = u.ID
				return nil
			})

		deps.outbox.EXPECT().
			Create(gomock.Any(), MatchOutboxWithRID(rid)).
			Return(nil).
			Times(1)

		deps.mailer.EXPECT().
			Send(req.Email, gomock.Any(), gomock.Any()).
			Return(nil)

		resp, err := deps.service.CreateEmployee(ctx, owner.Email, req)

		assert.NoError(t, err)
		assert.Equal(t, createdID.String(), resp.UserID)
		assert.Equal(t, user.StatusInvited, resp.Status)
		assert.NotEmpty(t, resp.ActivationCode)
	})

	t.Run("duplicate email -> conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		deps.users.EXPECT().FindByEmail(ctx, owner.Email).Return(owner, nil)
		deps.users.EXPECT().
			Create(ctx, gomock.Any()).
			Return(usererrors.ErrEmailAlreadyExists)

		_, err := deps.service.CreateEmployee(ctx, owner.Email, auth.CreateEmployeeRequest{
			Email:    "emp@acme.com",
			FullName: "New Employee",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyExists)
	})

	t.Run("outbox failure does not fail the request", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		deps.users.EXPECT().FindByEmail(ctx, owner.Email).Return(owner, nil)
		deps.users.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.outbox.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(errors.New("outbox table unavailable"))
		deps.mailer.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		resp, err := deps.service.CreateEmployee(ctx, owner.Email, auth.CreateEmployeeRequest{
			Email:    "emp@acme.com",
			FullName: "New Employee",
		})

		assert.NoError(t, err)
		assert.NotNil(t, resp)
	})

	t.Run("caller without company", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		deps.users.EXPECT().
			FindByEmail(ctx, "solo@acme.com").
			Return(&user.User{ID: uuid.New(), Email: "solo@acme.com"}, nil)

		_, err := deps.service.CreateEmployee(ctx, "solo@acme.com", auth.CreateEmployeeRequest{
			Email:    "emp@acme.com",
			FullName: "New Employee",
		})

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}

// Helper
type outboxRequestIDMatcher struct {
	expectedRID string
}

func (m outboxRequestIDMatcher) Matches(x any) bool {
	event, ok := x.(kafka.OutboxEvent)
	if !ok {
		return false
	}
	if event.RequestID != m.expectedRID {
		return false
	}

	var payload events.EmployeeCreatedEvent
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return false
	}
	return payload.RequestID == m.expectedRID
}

func (m outboxRequestIDMatcher) String() string {
	return "matches outbox event with request_id " + m.expectedRID
}

func MatchOutboxWithRID(rid string) gomock.Matcher {
	return outboxRequestIDMatcher{expectedRID: rid}
}
