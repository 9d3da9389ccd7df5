package companycontent

import (
	"context"
	"time"

	contenterrors "github.com/JerkingFan/Evalyze/internal/companycontent/errors"
	"github.com/JerkingFan/Evalyze/internal/user"
	usererrors "github.com/JerkingFan/Evalyze/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=content_service.go -destination=mock/content_service_mock.go -package=mock

type Service interface {
	Create(ctx context.Context, companyEmail string, req CreateContentRequest) (*ContentResponse, error)
	GetByID(ctx context.Context, companyEmail, id string) (*ContentResponse, error)
	ListByCompany(ctx context.Context, companyEmail, contentType string) ([]ContentResponse, error)
	Update(ctx context.Context, companyEmail, id string, req UpdateContentRequest) (*ContentResponse, error)
	Delete(ctx context.Context, companyEmail, id string) error
}

type service struct {
	contents Repository
	users    user.Repository
	logger   *zap.Logger
}

func NewService(contents Repository, users user.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("companycontent.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{contents: contents, users: users, logger: l}
}

func (s *service) Create(ctx context.Context, companyEmail string, req CreateContentRequest) (*ContentResponse, error) {
	companyID, err := s.companyID(ctx, companyEmail)
	if err != nil {
		return nil, err
	}

	cc := &CompanyContent{
		ID:          uuid.New(),
		CompanyID:   companyID,
		ContentType: req.ContentType,
		Title:       req.Title,
		Data:        req.Data,
	}
	if err := s.contents.Create(ctx, cc); err != nil {
		return nil, err
	}

	s.logger.Info("company content created",
		zap.String("content_id", cc.ID.String()),
		zap.String("company_id", companyID.String()),
		zap.String("content_type", cc.ContentType),
	)

	resp := toResponse(cc)
	return &resp, nil
}

func (s *service) GetByID(ctx context.Context, companyEmail, id string) (*ContentResponse, error) {
	companyID, err := s.companyID(ctx, companyEmail)
	if err != nil {
		return nil, err
	}

	contentID, err := uuid.Parse(id)
	if err != nil {
		return nil, contenterrors.ErrInvalidContentID
	}

	cc, err := s.contents.FindByID(ctx, companyID, contentID)
	if err != nil {
		return nil, err
	}

	resp := toResponse(cc)
	return &resp, nil
}

func (s *service) ListByCompany(ctx context.Context, companyEmail, contentType string) ([]ContentResponse, error) {
	companyID, err := s.companyID(ctx, companyEmail)
	if err != nil {
		return nil, err
	}

	contents, err := s.contents.FindByCompany(ctx, companyID, contentType)
	if err != nil {
		return nil, err
	}

	resp := make([]ContentResponse, len(contents))
	for i := range contents {
		resp[i] = toResponse(&contents[i])
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, companyEmail, id string, req UpdateContentRequest) (*ContentResponse, error) {
	companyID, err := s.companyID(ctx, companyEmail)
	if err != nil {
		return nil, err
	}

	contentID, err := uuid.Parse(id)
	if err != nil {
		return nil, contenterrors.ErrInvalidContentID
	}

	cc := &CompanyContent{
		ID:          contentID,
		CompanyID:   companyID,
		ContentType: req.ContentType,
		Title:       req.Title,
		Data:        req.Data,
	}
	if err := s.contents.Update(ctx, cc); err != nil {
		return nil, err
	}

	stored, err := s.contents.FindByID(ctx, companyID, contentID)
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

	contentID, err := uuid.Parse(id)
	if err != nil {
		return contenterrors.ErrInvalidContentID
	}

	return s.contents.DeleteByID(ctx, companyID, contentID)
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

func toResponse(cc *CompanyContent) ContentResponse {
	return ContentResponse{
		ID:          cc.ID.String(),
		CompanyID:   cc.CompanyID.String(),
		ContentType: cc.ContentType,
		Title:       cc.Title,
		Data:        cc.Data,
		CreatedAt:   cc.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   cc.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
