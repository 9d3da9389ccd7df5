package auth

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	autherrors "github.com/JerkingFan/Evalyze/internal/auth/errors"
	"github.com/JerkingFan/Evalyze/internal/company"
	"github.com/JerkingFan/Evalyze/internal/email"
	"github.com/JerkingFan/Evalyze/internal/events"
	"github.com/JerkingFan/Evalyze/internal/messaging/kafka"
	"github.com/JerkingFan/Evalyze/internal/shared/contextutil"
	"github.com/JerkingFan/Evalyze/internal/user"
	usererrors "github.com/JerkingFan/Evalyze/internal/user/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	LoginByActivationCode(ctx context.Context, req ActivationLoginRequest) (*AuthResponse, error)
	CreateEmployee(ctx context.Context, companyEmail string, req CreateEmployeeRequest) (*EmployeeCreatedResponse, error)
	GetCurrentUser(ctx context.Context, email string) (*CurrentUserResponse, error)
}

type service struct {
	users     user.Repository
	companies company.Repository
	outbox    kafka.OutboxRepository
	mailer    email.Sender
	logger    *zap.Logger
}

// NewService wires the auth flows. outbox and mailer may be nil; employee
// creation then skips the lifecycle event and the activation email.
func NewService(
	users user.Repository,
	companies company.Repository,
	outbox kafka.OutboxRepository,
	mailer email.Sender,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		users:     users,
		companies: companies,
		outbox:    outbox,
		mailer:    mailer,
		logger:    l,
	}
}

// Register creates a company account. Only companies register with a
// password; employees enter through activation codes. A rejected
// registration must leave no Company row behind, so the email is checked
// first and the company write is compensated if the user insert still
// hits the unique constraint.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, autherrors.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	comp := &company.Company{
		ID:   uuid.New(),
		Name: req.CompanyName,
	}
	if err := s.companies.Create(ctx, comp); err != nil {
		return nil, err
	}

	u := &user.User{
		ID:             uuid.New(),
		CompanyID:      &comp.ID,
		FullName:       req.FullName,
		Email:          req.Email,
		Role:           user.RoleCompany,
		Status:         user.StatusCompany,
		ActivationCode: uuid.NewString(),
		Password:       string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if derr := s.companies.DeleteByID(ctx, comp.ID); derr != nil {
			s.logger.Error("company cleanup after rejected registration failed",
				zap.String("company_id", comp.ID.String()),
				zap.Error(derr),
			)
		}
		if errors.Is(err, usererrors.ErrEmailAlreadyExists) {
			return nil, autherrors.ErrEmailAlreadyExists
		}
		return nil, err
	}

	s.logger.Info("company registered",
		zap.String("company_id", comp.ID.String()),
		zap.String("email", u.Email),
	)

	return s.buildAuthResponse(u)
}

// Login authenticates a company account with email and password.
func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, usererrors.ErrUserNotFound) {
			return nil, autherrors.ErrUserNotFound
		}
		return nil, err
	}

	if u.Role != user.RoleCompany && u.Role != user.RoleAdmin {
		return nil, autherrors.ErrEmployeeLogin
	}
	if req.Password == "" {
		return nil, autherrors.ErrPasswordRequired
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, autherrors.ErrInvalidCredentials
	}

	return s.buildAuthResponse(u)
}

// LoginByActivationCode signs an employee in with their personal code.
// The first successful login flips the account from invited to active;
// later logins with the same code leave the status untouched.
func (s *service) LoginByActivationCode(ctx context.Context, req ActivationLoginRequest) (*AuthResponse, error) {
	u, err := s.users.FindByActivationCode(ctx, req.ActivationCode)
	if err != nil {
		if errors.Is(err, usererrors.ErrActivationCodeNotFound) {
			return nil, autherrors.ErrInvalidActivationCode
		}
		return nil, err
	}

	if u.Status == user.StatusInvited {
		u.Status = user.StatusActive
		if u, err = s.users.Save(ctx, u); err != nil {
			return nil, err
		}
		s.logger.Info("employee activated",
			zap.String("user_id", u.ID.String()),
			zap.String("email", u.Email),
		)
	}

	return s.buildAuthResponse(u)
}

// CreateEmployee registers an invited employee under the caller's
// company and hands back the activation code. A lifecycle event goes to
// the outbox so the profile bootstrap can run asynchronously.
func (s *service) CreateEmployee(ctx context.Context, companyEmail string, req CreateEmployeeRequest) (*EmployeeCreatedResponse, error) {
	owner, err := s.users.FindByEmail(ctx, companyEmail)
	if err != nil {
		return nil, err
	}
	if owner.CompanyID == nil {
		return nil, usererrors.ErrUserNotFound
	}

	u := &user.User{
		ID:             uuid.New(),
		CompanyID:      owner.CompanyID,
		FullName:       req.FullName,
		Email:          req.Email,
		TelegramChatID: req.TelegramChatID,
		Role:           user.RoleEmployee,
		Status:         user.StatusInvited,
		ActivationCode: uuid.NewString(),
	}
	if req.JobRoleID != "" {
		id, err := uuid.Parse(req.JobRoleID)
		if err != nil {
			return nil, usererrors.ErrInvalidUserID
		}
		u.JobRoleID = &id
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, usererrors.ErrEmailAlreadyExists) {
			return nil, autherrors.ErrEmailAlreadyExists
		}
		return nil, err
	}

	s.enqueueEmployeeCreated(ctx, u)
	s.sendActivationEmail(u)

	return &EmployeeCreatedResponse{
		UserID:         u.ID.String(),
		Email:          u.Email,
		FullName:       u.FullName,
		ActivationCode: u.ActivationCode,
		Status:         u.Status,
	}, nil
}

func (s *service) GetCurrentUser(ctx context.Context, email string) (*CurrentUserResponse, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	resp := &CurrentUserResponse{
		ID:             u.ID.String(),
		Email:          u.Email,
		FullName:       u.FullName,
		Role:           u.Role,
		Status:         u.Status,
		TelegramChatID: u.TelegramChatID,
	}
	if u.CompanyID != nil {
		resp.CompanyID = u.CompanyID.String()
	}
	if u.JobRoleID != nil {
		resp.JobRoleID = u.JobRoleID.String()
	}
	return resp, nil
}

// The lifecycle event is best effort. Entity writes may land on a remote
// backend, so no shared transaction exists; a lost event only delays the
// profile bootstrap until the employee first saves a profile.
func (s *service) enqueueEmployeeCreated(ctx context.Context, u *user.User) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(events.EmployeeCreatedEvent{
		EventType:  "employee_created",
		RequestID:  contextutil.GetRequestID(ctx),
		UserID:     u.ID.String(),
		CompanyID:  u.CompanyID.String(),
		Email:      u.Email,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("marshal employee_created event failed", zap.Error(err))
		return
	}

	evt := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "user",
		AggregateID:   u.ID.String(),
		EventType:     "employee_created",
		Topic:         events.EmployeeCreatedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := s.outbox.Create(ctx, evt); err != nil {
		s.logger.Error("enqueue employee_created event failed",
			zap.String("user_id", u.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) sendActivationEmail(u *user.User) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.Send(u.Email, "Your Evalyze activation code", email.ActivationBody(u.FullName, u.ActivationCode)); err != nil {
		s.logger.Warn("activation email failed",
			zap.String("email", u.Email),
			zap.Error(err),
		)
	}
}

func (s *service) buildAuthResponse(u *user.User) (*AuthResponse, error) {
	token, err := GenerateToken(u.Email, u.Role)
	if err != nil {
		return nil, autherrors.ErrTokenGeneration
	}

	resp := &AuthResponse{
		Token:    token,
		Email:    u.Email,
		Role:     u.Role,
		FullName: u.FullName,
		Status:   u.Status,
	}
	if u.CompanyID != nil {
		resp.CompanyID = u.CompanyID.String()
	}
	return resp, nil
}

// GenerateToken mints an HS256 token carrying the subject's email and role.
func GenerateToken(userEmail, role string) (string, error) {
	claims := jwt.MapClaims{
		"email": userEmail,
		"role":  role,
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
