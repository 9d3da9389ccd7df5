package emailauth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/JerkingFan/Evalyze/internal/auth"
	autherrors "github.com/JerkingFan/Evalyze/internal/auth/errors"
	"github.com/JerkingFan/Evalyze/internal/email"
	emailautherrors "github.com/JerkingFan/Evalyze/internal/emailauth/errors"
	"github.com/JerkingFan/Evalyze/internal/user"
	usererrors "github.com/JerkingFan/Evalyze/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=emailauth_service.go -destination=mock/emailauth_service_mock.go -package=mock

type Service interface {
	RequestCode(ctx context.Context, req RequestCodeRequest) error
	VerifyCode(ctx context.Context, req VerifyCodeRequest) (*auth.AuthResponse, error)
}

type service struct {
	codes  Repository
	users  user.Repository
	mailer email.Sender
	logger *zap.Logger
	now    func() time.Time
}

func NewService(codes Repository, users user.Repository, mailer email.Sender, logger ...*zap.Logger) Service {
	l := zap.L().Named("emailauth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		codes:  codes,
		users:  users,
		mailer: mailer,
		logger: l,
		now:    time.Now,
	}
}

// RequestCode issues a six-digit login code. Unknown emails get a code
// too; the account is created when the first code is verified.
func (s *service) RequestCode(ctx context.Context, req RequestCodeRequest) error {
	code, err := generateNumericCode()
	if err != nil {
		return err
	}

	v := &EmailVerification{
		ID:        uuid.New(),
		Email:     req.Email,
		Code:      code,
		ExpiresAt: s.now().UTC().Add(CodeTTL),
	}
	if err := s.codes.Create(ctx, v); err != nil {
		return err
	}

	if s.mailer != nil {
		if err := s.mailer.Send(req.Email, "Your Evalyze login code", email.VerificationBody(code)); err != nil {
			s.logger.Warn("login code email failed",
				zap.String("email", req.Email),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("login code issued", zap.String("email", req.Email))
	return nil
}

// VerifyCode redeems a login code. Codes are single use, expire after
// ten minutes and burn out after three wrong guesses. A first-time email
// gets an EMPLOYEE account created on successful verification.
func (s *service) VerifyCode(ctx context.Context, req VerifyCodeRequest) (*auth.AuthResponse, error) {
	v, err := s.codes.FindActiveByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if s.now().After(v.ExpiresAt) {
		return nil, emailautherrors.ErrCodeExpired
	}
	if v.Attempts >= MaxAttempts {
		return nil, emailautherrors.ErrTooManyAttempts
	}

	if v.Code != req.Code {
		if err := s.codes.IncrementAttempts(ctx, v.ID); err != nil {
			s.logger.Warn("incrementing code attempts failed", zap.Error(err))
		}
		return nil, emailautherrors.ErrCodeMismatch
	}

	if err := s.codes.MarkUsed(ctx, v.ID); err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, usererrors.ErrUserNotFound) {
		u, err = s.createEmployee(ctx, req.Email)
	}
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(u.Email, u.Role)
	if err != nil {
		return nil, autherrors.ErrTokenGeneration
	}

	resp := &auth.AuthResponse{
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

// RunSweeper deletes expired codes on an interval until the context is
// cancelled.
func RunSweeper(ctx context.Context, codes Repository, logger *zap.Logger, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	log := logger.Named("emailauth.sweeper")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("login code sweeper started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			log.Info("login code sweeper stopped")
			return
		case <-ticker.C:
			removed, err := codes.DeleteExpired(ctx, time.Now().UTC())
			if err != nil {
				log.Error("sweeping expired login codes failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				log.Info("expired login codes removed", zap.Int64("count", removed))
			}
		}
	}
}

// createEmployee provisions an account for a first-time login. The user
// starts without a company; joining one happens through an invitation.
func (s *service) createEmployee(ctx context.Context, address string) (*user.User, error) {
	u := &user.User{
		ID:             uuid.New(),
		Email:          address,
		FullName:       nameFromEmail(address),
		Role:           user.RoleEmployee,
		Status:         user.StatusActive,
		ActivationCode: uuid.NewString(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("employee created on first login", zap.String("email", address))
	return u, nil
}

func nameFromEmail(address string) string {
	local, _, _ := strings.Cut(address, "@")
	if local == "" {
		return address
	}
	return strings.ToUpper(local[:1]) + local[1:]
}

func generateNumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
