package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JerkingFan/Evalyze/internal/jobrole"
	profileerrors "github.com/JerkingFan/Evalyze/internal/profile/errors"
	"github.com/JerkingFan/Evalyze/internal/user"
	usererrors "github.com/JerkingFan/Evalyze/internal/user/errors"
	"github.com/JerkingFan/Evalyze/internal/webhook"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const companyCacheTTL = 60 * time.Second

//go:generate mockgen -source=profile_service.go -destination=mock/profile_service_mock.go -package=mock

// FileAttachment is a stored file rendered for an automation payload.
type FileAttachment struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	DataBase64  string `json:"data_base64"`
}

// FileSource supplies a user's uploaded files for automation flows that
// need document context. Implemented by the file upload service.
type FileSource interface {
	LoadUserFiles(ctx context.Context, userID uuid.UUID) ([]FileAttachment, error)
}

type Service interface {
	Save(ctx context.Context, userEmail string, req SaveProfileRequest) (*ProfileResponse, error)
	GetMine(ctx context.Context, userEmail string) (*ProfileResponse, error)
	GetByUserID(ctx context.Context, companyEmail, userID string) (*ProfileResponse, error)
	ListByCompany(ctx context.Context, companyEmail string) ([]ProfileResponse, error)
	UpdateStatus(ctx context.Context, companyEmail, userID string, req UpdateStatusRequest) error
	ListSnapshots(ctx context.Context, companyEmail, userID string) ([]SnapshotResponse, error)
	AssignJobRole(ctx context.Context, companyEmail, userID string, req AssignJobRoleRequest) error
	AssignJobRoleFlexible(ctx context.Context, companyEmail string, req AssignJobRoleFlexibleRequest) error
	GenerateAIProfile(ctx context.Context, userEmail string) (*GenerateAIProfileResponse, error)
}

type service struct {
	profiles   Repository
	snapshots  SnapshotRepository
	users      user.Repository
	jobRoles   jobrole.Repository
	dispatcher webhook.Dispatcher
	files      FileSource
	cache      *redis.Client
	group      singleflight.Group
	logger     *zap.Logger
}

// NewService wires profile flows. dispatcher, files and cache may be nil;
// the service then skips automation calls, file context and caching.
func NewService(
	profiles Repository,
	snapshots SnapshotRepository,
	users user.Repository,
	jobRoles jobrole.Repository,
	dispatcher webhook.Dispatcher,
	files FileSource,
	cache *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("profile.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		profiles:   profiles,
		snapshots:  snapshots,
		users:      users,
		jobRoles:   jobRoles,
		dispatcher: dispatcher,
		files:      files,
		cache:      cache,
		logger:     l,
	}
}

// Save upserts the caller's profile, appends a snapshot and queues the
// competency analysis hook. Saving the same data twice still yields one
// profile row and two snapshots.
func (s *service) Save(ctx context.Context, userEmail string, req SaveProfileRequest) (*ProfileResponse, error) {
	u, err := s.users.FindByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}

	// A self-saved profile stays PENDING; COMPLETED is reserved for job
	// role assignment and explicit status updates.
	p := &Profile{
		ID:          uuid.New(),
		UserID:      u.ID,
		CompanyID:   u.CompanyID,
		Status:      StatusPending,
		ProfileData: req.ProfileData,
	}
	stored, err := s.profiles.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ID:          uuid.New(),
		ProfileID:   stored.ID,
		UserID:      u.ID,
		ProfileData: req.ProfileData,
	}
	if err := s.snapshots.Create(ctx, snap); err != nil {
		// The profile write already landed; history misses one entry.
		s.logger.Error("snapshot append failed",
			zap.String("user_id", u.ID.String()),
			zap.Error(err),
		)
	}

	s.invalidateCompanyCache(ctx, u.CompanyID)
	s.enqueueAnalysis(ctx, u, req.ProfileData)

	resp := toProfileResponse(stored)
	return &resp, nil
}

func (s *service) GetMine(ctx context.Context, userEmail string) (*ProfileResponse, error) {
	u, err := s.users.FindByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}

	p, err := s.profiles.FindByUserID(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	resp := toProfileResponse(p)
	return &resp, nil
}

func (s *service) GetByUserID(ctx context.Context, companyEmail, userID string) (*ProfileResponse, error) {
	target, err := s.companyMember(ctx, companyEmail, userID)
	if err != nil {
		return nil, err
	}

	p, err := s.profiles.FindByUserID(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	resp := toProfileResponse(p)
	return &resp, nil
}

// ListByCompany serves the dashboard listing. The result sits in Redis
// for a minute and concurrent misses collapse into a single database
// read through the singleflight group.
func (s *service) ListByCompany(ctx context.Context, companyEmail string) ([]ProfileResponse, error) {
	owner, err := s.users.FindByEmail(ctx, companyEmail)
	if err != nil {
		return nil, err
	}
	if owner.CompanyID == nil {
		return nil, usererrors.ErrUserNotFound
	}
	companyID := *owner.CompanyID

	key := companyCacheKey(companyID)
	if cached, ok := s.cacheGet(ctx, key); ok {
		return cached, nil
	}

	result, err, _ := s.group.Do(key, func() (any, error) {
		profiles, err := s.profiles.FindByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		resp := make([]ProfileResponse, len(profiles))
		for i := range profiles {
			resp[i] = toProfileResponse(&profiles[i])
		}
		s.cacheSet(ctx, key, resp)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]ProfileResponse), nil
}

func (s *service) UpdateStatus(ctx context.Context, companyEmail, userID string, req UpdateStatusRequest) error {
	target, err := s.companyMember(ctx, companyEmail, userID)
	if err != nil {
		return err
	}

	if !ValidStatus(req.Status) {
		return profileerrors.ErrInvalidStatus
	}

	if err := s.profiles.UpdateStatus(ctx, target.ID, req.Status); err != nil {
		return err
	}

	s.invalidateCompanyCache(ctx, target.CompanyID)
	return nil
}

func (s *service) ListSnapshots(ctx context.Context, companyEmail, userID string) ([]SnapshotResponse, error) {
	target, err := s.companyMember(ctx, companyEmail, userID)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.snapshots.FindByUserID(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]SnapshotResponse, len(snapshots))
	for i, snap := range snapshots {
		resp[i] = SnapshotResponse{
			ID:          snap.ID.String(),
			ProfileID:   snap.ProfileID.String(),
			UserID:      snap.UserID.String(),
			ProfileData: snap.ProfileData,
			CreatedAt:   snap.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return resp, nil
}

func (s *service) AssignJobRole(ctx context.Context, companyEmail, userID string, req AssignJobRoleRequest) error {
	target, err := s.companyMember(ctx, companyEmail, userID)
	if err != nil {
		return err
	}
	if target.CompanyID == nil {
		return profileerrors.ErrNotCompanyMember
	}

	jobRoleID, err := uuid.Parse(req.JobRoleID)
	if err != nil {
		return usererrors.ErrInvalidUserID
	}

	return s.assignRole(ctx, target, *target.CompanyID, jobRoleID)
}

// AssignJobRoleFlexible resolves the target by activation code first and
// falls back to email, mirroring how automation flows identify users.
func (s *service) AssignJobRoleFlexible(ctx context.Context, companyEmail string, req AssignJobRoleFlexibleRequest) error {
	owner, err := s.users.FindByEmail(ctx, companyEmail)
	if err != nil {
		return err
	}
	if owner.CompanyID == nil {
		return usererrors.ErrUserNotFound
	}

	jobRoleID, err := uuid.Parse(req.JobRoleID)
	if err != nil {
		return usererrors.ErrInvalidUserID
	}

	var target *user.User
	if req.ActivationCode != "" {
		target, err = s.users.FindByActivationCode(ctx, req.ActivationCode)
		if err != nil && !errors.Is(err, usererrors.ErrActivationCodeNotFound) {
			return err
		}
	}
	if target == nil && req.Email != "" {
		target, err = s.users.FindByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
	}
	if target == nil {
		return profileerrors.ErrTargetRequired
	}

	if target.CompanyID == nil || *target.CompanyID != *owner.CompanyID {
		return profileerrors.ErrNotCompanyMember
	}

	return s.assignRole(ctx, target, *owner.CompanyID, jobRoleID)
}

// assignRole writes the role onto the user, folds the role's title,
// description and requirements into the profile JSON, marks the profile
// COMPLETED and queues the assignment hook with the folded data.
func (s *service) assignRole(ctx context.Context, target *user.User, companyID, jobRoleID uuid.UUID) error {
	role, err := s.jobRoles.FindByID(ctx, companyID, jobRoleID)
	if err != nil {
		return err
	}

	if err := s.setUserJobRole(ctx, target, jobRoleID); err != nil {
		return err
	}

	data, err := roleProfileData(role)
	if err != nil {
		return err
	}

	p := &Profile{
		ID:          uuid.New(),
		UserID:      target.ID,
		CompanyID:   target.CompanyID,
		Status:      StatusCompleted,
		ProfileData: data,
	}
	stored, err := s.profiles.Upsert(ctx, p)
	if err != nil {
		return err
	}

	s.invalidateCompanyCache(ctx, target.CompanyID)
	s.enqueueAssignment(ctx, target, role, stored.ProfileData)

	s.logger.Info("job role assigned",
		zap.String("user_id", target.ID.String()),
		zap.String("job_role_id", jobRoleID.String()),
	)
	return nil
}

// setUserJobRole updates the user row by activation code when the user
// carries one, falling back to the email column.
func (s *service) setUserJobRole(ctx context.Context, target *user.User, jobRoleID uuid.UUID) error {
	if target.ActivationCode != "" {
		err := s.users.SetJobRoleByActivationCode(ctx, target.ActivationCode, jobRoleID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, usererrors.ErrUserNotFound) {
			return err
		}
	}
	return s.users.SetJobRoleByEmail(ctx, target.Email, jobRoleID)
}

func roleProfileData(role *jobrole.JobRole) (json.RawMessage, error) {
	requirements := role.Requirements
	if len(requirements) == 0 {
		requirements = json.RawMessage(`{}`)
	}
	return json.Marshal(map[string]any{
		"currentPosition": role.Title,
		"jobRoleData":     requirements,
		"assignedRoleId":  role.ID.String(),
		"description":     role.Description,
	})
}

// GenerateAIProfile calls the profile generation hook inline, shipping
// the user's uploaded documents as base64 context, and returns the raw
// automation result.
func (s *service) GenerateAIProfile(ctx context.Context, userEmail string) (*GenerateAIProfileResponse, error) {
	if s.dispatcher == nil {
		return nil, webhook.ErrHookNotConfigured
	}

	u, err := s.users.FindByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}

	var attachments []FileAttachment
	if s.files != nil {
		attachments, err = s.files.LoadUserFiles(ctx, u.ID)
		if err != nil {
			s.logger.Warn("loading user files for generation failed",
				zap.String("user_id", u.ID.String()),
				zap.Error(err),
			)
		}
	}

	payload := map[string]any{
		"user_id":   u.ID.String(),
		"email":     u.Email,
		"full_name": u.FullName,
		"files":     attachments,
	}
	if p, err := s.profiles.FindByUserID(ctx, u.ID); err == nil {
		payload["profile_data"] = p.ProfileData
	}

	body, err := s.dispatcher.Send(ctx, webhook.KindGenerateAIProfile, payload)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		body, _ = json.Marshal(string(body))
	}
	return &GenerateAIProfileResponse{Result: body}, nil
}

func (s *service) companyMember(ctx context.Context, companyEmail, userID string) (*user.User, error) {
	owner, err := s.users.FindByEmail(ctx, companyEmail)
	if err != nil {
		return nil, err
	}

	targetID, err := uuid.Parse(userID)
	if err != nil {
		return nil, usererrors.ErrInvalidUserID
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	// Employees may only reach their own profile; companies any member.
	if owner.ID == target.ID {
		return target, nil
	}
	if owner.CompanyID == nil || target.CompanyID == nil || *owner.CompanyID != *target.CompanyID {
		return nil, profileerrors.ErrNotCompanyMember
	}
	if owner.Role != user.RoleCompany && owner.Role != user.RoleAdmin {
		return nil, profileerrors.ErrNotCompanyMember
	}
	return target, nil
}

func (s *service) enqueueAnalysis(ctx context.Context, u *user.User, data json.RawMessage) {
	if s.dispatcher == nil {
		return
	}

	payload := map[string]any{
		"user_id":      u.ID.String(),
		"email":        u.Email,
		"full_name":    u.FullName,
		"profile_data": data,
	}
	if u.CompanyID != nil {
		payload["company_id"] = u.CompanyID.String()
	}

	if err := s.dispatcher.Enqueue(ctx, webhook.KindAnalyzeCompetencies, payload); err != nil {
		s.logger.Warn("competency analysis hook enqueue failed",
			zap.String("user_id", u.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) enqueueAssignment(ctx context.Context, target *user.User, role *jobrole.JobRole, profileData json.RawMessage) {
	if s.dispatcher == nil {
		return
	}

	payload := map[string]any{
		"user_id":              target.ID.String(),
		"email":                target.Email,
		"full_name":            target.FullName,
		"activation_code":      target.ActivationCode,
		"job_role_id":          role.ID.String(),
		"job_role_title":       role.Title,
		"job_role_description": role.Description,
		"profile_data":         profileData,
	}
	if err := s.dispatcher.Enqueue(ctx, webhook.KindAssignJobRole, payload); err != nil {
		s.logger.Warn("job role assignment hook enqueue failed",
			zap.String("user_id", target.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) cacheGet(ctx context.Context, key string) ([]ProfileResponse, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("profile cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var resp []ProfileResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return resp, true
}

func (s *service) cacheSet(ctx context.Context, key string, resp []ProfileResponse) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, companyCacheTTL).Err(); err != nil {
		s.logger.Warn("profile cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *service) invalidateCompanyCache(ctx context.Context, companyID *uuid.UUID) {
	if s.cache == nil || companyID == nil {
		return
	}
	if err := s.cache.Del(ctx, companyCacheKey(*companyID)).Err(); err != nil {
		s.logger.Warn("profile cache invalidation failed",
			zap.String("company_id", companyID.String()),
			zap.Error(err),
		)
	}
}

func companyCacheKey(companyID uuid.UUID) string {
	return fmt.Sprintf("profiles:company:%s", companyID)
}

func toProfileResponse(p *Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:          p.ID.String(),
		UserID:      p.UserID.String(),
		Status:      p.Status,
		ProfileData: p.ProfileData,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		LastUpdated: p.LastUpdated.UTC().Format(time.RFC3339),
	}
	if p.CompanyID != nil {
		resp.CompanyID = p.CompanyID.String()
	}
	return resp
}
