package jobrole

import (
	"context"
	"time"

	jobroleerrors "github.com/JerkingFan/Evalyze/internal/jobrole/errors"
	"github.com/JerkingFan/Evalyze/internal/user"
	usererrors "github.com/JerkingFan/Evalyze/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=jobrole_service.go -destination=mock/jobrole_service_mock.go -package=mock

type Service interface {
	Create(ctx context.Context, companyEmail string, req CreateJobRoleRequest) (*JobRoleResponse, error)
	GetByID(ctx context.Context, companyEmail, id string) (*JobRoleResponse, error)
	ListByCompany(ctx context.Context, companyEmail, roleType string) ([]JobRoleResponse, error)
	Update(ctx context.Context, companyEmail, id string, req UpdateJobRoleRequest) (*JobRoleResponse, error)
	Delete(ctx context.Context, companyEmail, id string) error
}

type service struct {
	jobRoles Repository
	users    user.Repository
	logger   *zap.Logger
}

func NewService(jobRoles Repository, users user.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("jobrole.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{jobRoles: jobRoles, users: users, logger: l}
}

func (s *service) Create(ctx context.Context, companyEmail string, req CreateJobRoleRequest) (*JobRoleResponse, error) {
	companyID, err := s.companyID(ctx, companyEmail)
	if err != nil {
		return nil, err
	}

	roleType := req.RoleType
	if roleType == "" {
		roleType = TypeRole
	}

	jr := &JobRole{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Title:        req.Title,
		RoleType:     roleType,
		Description:  req.Description,
		Requirements: req.Requirements,
	}
	if err := s.jobRoles.Create(ctx, jr); err != nil {
		return nil, err
	}

	s.logger.Info("job role created",
		zap.String("job_role_id", jr.ID.String()),
		zap.String("company_id", companyID.String()),
		zap.String("role_type", jr.RoleType),
	)

	resp := toResponse(jr)
	return &resp, nil
}

func (s *service) GetByID(ctx context.Context, companyEmail, id string) (*JobRoleResponse, error) {
	companyID, err := s.companyID(ctx, companyEmail)
	if err != nil {
		return nil, err
	}

	jrID, err := uuid.Parse(id)
	if err != nil {
		return nil, jobroleerrors.ErrInvalidJobRoleID
	}

	jr, err := s.jobRoles.FindByID(ctx, companyID, jrID)
	if err != nil {
		return nil, err
	}

	resp := toResponse(jr)
	return &resp, nil
}

func (s *service) ListByCompany(ctx context.Context, companyEmail, roleType string) ([]JobRoleResponse, error) {
	companyID, err := s.companyID(ctx, companyEmail)
	if err != nil {
		return nil, err
	}

	if roleType != "" && !ValidType(roleType) {
		return nil, jobroleerrors.ErrInvalidRoleType
	}

	roles, err := s.jobRoles.FindByCompany(ctx, companyID, roleType)
	if err != nil {
		return nil, err
	}

	resp := make([]JobRoleResponse, len(roles))
	for i := range roles {
		resp[i] = toResponse(&roles[i])
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, companyEmail, id string, req UpdateJobRoleRequest) (*JobRoleResponse, error) {
	companyID, err := s.companyID(ctx, companyEmail)
	if err != nil {
		return nil, err
	}

	jrID, err := uuid.Parse(id)
	if err != nil {
		return nil, jobroleerrors.ErrInvalidJobRoleID
	}

	jr := &JobRole{
		ID:           jrID,
		CompanyID:    companyID,
		Title:        req.Title,
		RoleType:     req.RoleType,
		Description:  req.Description,
		Requirements: req.Requirements,
	}
	if err := s.jobRoles.Update(ctx, jr); err != nil {
		return nil, err
	}

	stored, err := s.jobRoles.FindByID(ctx, companyID, jrID)
	if err != nil {
		return nil, err
	}

	resp := toResponse(stored)
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, companyEmail, id string) error {
	companyID, err := s.companyID(ctx, companyEmail)
	if err != nil {
		return err
	}

	jrID, err := uuid.Parse(id)
	if err != nil {
		return jobroleerrors.ErrInvalidJobRoleID
	}

	return s.jobRoles.DeleteByID(ctx, companyID, jrID)
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

func toResponse(jr *JobRole) JobRoleResponse {
	return JobRoleResponse{
		ID:           jr.ID.String(),
		CompanyID:    jr.CompanyID.String(),
		Title:        jr.Title,
		RoleType:     jr.RoleType,
		Description:  jr.Description,
		Requirements: jr.Requirements,
		CreatedAt:    jr.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    jr.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
