package company

import (
	"context"
	"time"

	companyerrors "github.com/JerkingFan/Evalyze/internal/company/errors"

	"github.com/google/uuid"
)

//go:generate mockgen -source=company_service.go -destination=mock/company_service_mock.go -package=mock
type Service interface {
	GetByID(ctx context.Context, id string) (*CompanyResponse, error)
	GetByName(ctx context.Context, name string) (*CompanyResponse, error)
	GetAll(ctx context.Context) ([]CompanyResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*CompanyResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, companyerrors.ErrInvalidCompanyID
	}

	comp, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	return mapToResponse(comp), nil
}

func (s *service) GetByName(ctx context.Context, name string) (*CompanyResponse, error) {
	comp, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	return mapToResponse(comp), nil
}

func (s *service) GetAll(ctx context.Context) ([]CompanyResponse, error) {
	companies, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]CompanyResponse, len(companies))
	for i, c := range companies {
		res[i] = *mapToResponse(&c)
	}
	return res, nil
}

func mapToResponse(c *Company) *CompanyResponse {
	return &CompanyResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
}
