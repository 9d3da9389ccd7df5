package profile_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/JerkingFan/Evalyze/internal/jobrole"
	"github.com/JerkingFan/Evalyze/internal/profile"
	profileerrors "github.com/JerkingFan/Evalyze/internal/profile/errors"
	"github.com/JerkingFan/Evalyze/internal/user"
	usererrors "github.com/JerkingFan/Evalyze/internal/user/errors"
	"github.com/JerkingFan/Evalyze/internal/webhook"

	jobroleMock "github.com/JerkingFan/Evalyze/internal/jobrole/mock"
	profileMock "github.com/JerkingFan/Evalyze/internal/profile/mock"
	userMock "github.com/JerkingFan/Evalyze/internal/user/mock"
	webhookMock "github.com/JerkingFan/Evalyze/internal/webhook/mock"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type serviceDeps struct {
	service    profile.Service
	profiles   *profileMock.MockRepository
	snapshots  *profileMock.MockSnapshotRepository
	users      *userMock.MockRepository
	jobRoles   *jobroleMock.MockRepository
	dispatcher *webhookMock.MockDispatcher
	redismock  redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	ctrl := gomock.NewController(t)
	profiles := profileMock.NewMockRepository(ctrl)
	snapshots := profileMock.NewMockSnapshotRepository(ctrl)
	users := userMock.NewMockRepository(ctrl)
	jobRoles := jobroleMock.NewMockRepository(ctrl)
	dispatcher := webhookMock.NewMockDispatcher(ctrl)
	rdb, redisMock := redismock.NewClientMock()

	svc := profile.NewService(profiles, snapshots, users, jobRoles, dispatcher, nil, rdb)

	return &serviceDeps{
		service:    svc,
		profiles:   profiles,
		snapshots:  snapshots,
		users:      users,
		jobRoles:   jobRoles,
		dispatcher: dispatcher,
		redismock:  redisMock,
	}
}

func companyCacheKey(companyID uuid.UUID) string {
	return fmt.Sprintf("profiles:company:%s", companyID)
}

func TestProfileService_Save(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	emp := &user.User{
		ID:        uuid.New(),
		CompanyID: &companyID,
		Email:     "emp@acme.com",
		FullName:  "Employee",
		Role:      user.RoleEmployee,
	}
	data := json.RawMessage(`{"skills":["go","sql"]}`)

	t.Run("success - upsert, snapshot and analysis hook", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().FindByEmail(ctx, emp.Email).Return(emp, nil)

		stored := &profile.Profile{
			ID:          uuid.New(),
			UserID:      emp.ID,
			CompanyID:   &companyID,
			Status:      profile.StatusPending,
			ProfileData: data,
		}
		deps.profiles.EXPECT().
			Upsert(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, p *profile.Profile) (*profile.Profile, error) {
				assert.Equal(t, emp.ID, p.UserID)
				// A self-saved profile is PENDING until a role assignment
				// or an explicit status update completes it.
				assert.Equal(t, profile.StatusPending, p.Status)
				return stored, nil
			})

		deps.snapshots.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, s *profile.Snapshot) error {
				assert.Equal(t, stored.ID, s.ProfileID)
				assert.Equal(t, emp.ID, s.UserID)
				assert.JSONEq(t, string(data), string(s.ProfileData))
				return nil
			})

		deps.redismock.ExpectDel(companyCacheKey(companyID)).SetVal(1)

		deps.dispatcher.EXPECT().
			Enqueue(ctx, webhook.KindAnalyzeCompetencies, gomock.Any()).
			Return(nil)

		resp, err := deps.service.Save(ctx, emp.Email, profile.SaveProfileRequest{ProfileData: data})

		assert.NoError(t, err)
		assert.Equal(t, stored.ID.String(), resp.ID)
		assert.Equal(t, profile.StatusPending, resp.Status)
	})

	t.Run("second save appends another snapshot over the same row", func(t *testing.T) {
		deps := setupServiceTest(t)

		stored := &profile.Profile{
			ID:        uuid.New(),
			UserID:    emp.ID,
			CompanyID: &companyID,
			Status:    profile.StatusPending,
		}

		deps.users.EXPECT().FindByEmail(ctx, emp.Email).Return(emp, nil).Times(2)
		deps.profiles.EXPECT().Upsert(ctx, gomock.Any()).Return(stored, nil).Times(2)
		deps.snapshots.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(2)
		deps.redismock.ExpectDel(companyCacheKey(companyID)).SetVal(1)
		deps.redismock.ExpectDel(companyCacheKey(companyID)).SetVal(1)
		deps.dispatcher.EXPECT().
			Enqueue(ctx, webhook.KindAnalyzeCompetencies, gomock.Any()).
			Return(nil).
			Times(2)

		first, err := deps.service.Save(ctx, emp.Email, profile.SaveProfileRequest{ProfileData: data})
		assert.NoError(t, err)

		second, err := deps.service.Save(ctx, emp.Email, profile.SaveProfileRequest{ProfileData: data})
		assert.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("snapshot failure does not fail the save", func(t *testing.T) {
		deps := setupServiceTest(t)

		stored := &profile.Profile{ID: uuid.New(), UserID: emp.ID, CompanyID: &companyID}

		deps.users.EXPECT().FindByEmail(ctx, emp.Email).Return(emp, nil)
		deps.profiles.EXPECT().Upsert(ctx, gomock.Any()).Return(stored, nil)
		deps.snapshots.EXPECT().Create(ctx, gomock.Any()).Return(assert.AnError)
		deps.redismock.ExpectDel(companyCacheKey(companyID)).SetVal(1)
		deps.dispatcher.EXPECT().Enqueue(ctx, webhook.KindAnalyzeCompetencies, gomock.Any()).Return(nil)

		resp, err := deps.service.Save(ctx, emp.Email, profile.SaveProfileRequest{ProfileData: data})

		assert.NoError(t, err)
		assert.NotNil(t, resp)
	})
}

func TestProfileService_ListByCompany(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit serves from redis", func(t *testing.T) {
		deps := setupServiceTest(t)
		companyID := uuid.New()
		owner := &user.User{
			ID:        uuid.New(),
			CompanyID: &companyID,
			Email:     "owner@acme.com",
			Role:      user.RoleCompany,
		}

		cached := []profile.ProfileResponse{
			{ID: uuid.New().String(), UserID: uuid.New().String(), Status: profile.StatusCompleted},
		}
		raw, _ := json.Marshal(cached)

		deps.users.EXPECT().FindByEmail(ctx, owner.Email).Return(owner, nil)
		deps.redismock.ExpectGet(companyCacheKey(companyID)).SetVal(string(raw))
		deps.profiles.EXPECT().FindByCompany(gomock.Any(), gomock.Any()).Times(0)

		resp, err := deps.service.ListByCompany(ctx, owner.Email)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, cached[0].ID, resp[0].ID)
	})

	t.Run("cache miss reads the database and fills redis", func(t *testing.T) {
		deps := setupServiceTest(t)
		companyID := uuid.New()
		owner := &user.User{
			ID:        uuid.New(),
			CompanyID: &companyID,
			Email:     "owner@acme.com",
			Role:      user.RoleCompany,
		}

		stored := []profile.Profile{
			{ID: uuid.New(), UserID: uuid.New(), CompanyID: &companyID, Status: profile.StatusCompleted},
			{ID: uuid.New(), UserID: uuid.New(), CompanyID: &companyID, Status: profile.StatusPending},
		}

		deps.users.EXPECT().FindByEmail(ctx, owner.Email).Return(owner, nil)
		deps.redismock.ExpectGet(companyCacheKey(companyID)).RedisNil()
		deps.profiles.EXPECT().FindByCompany(ctx, companyID).Return(stored, nil)
		deps.redismock.Regexp().ExpectSet(companyCacheKey(companyID), `.*`, 60*time.Second).SetVal("OK")

		resp, err := deps.service.ListByCompany(ctx, owner.Email)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, stored[0].ID.String(), resp[0].ID)
	})

	t.Run("caller without company", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().
			FindByEmail(ctx, "solo@acme.com").
			Return(&user.User{ID: uuid.New(), Email: "solo@acme.com"}, nil)

		_, err := deps.service.ListByCompany(ctx, "solo@acme.com")

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}

func TestProfileService_AssignJobRole(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	jobRoleID := uuid.New()

	owner := &user.User{
		ID:        uuid.New(),
		CompanyID: &companyID,
		Email:     "owner@acme.com",
		Role:      user.RoleCompany,
	}
	target := &user.User{
		ID:             uuid.New(),
		CompanyID:      &companyID,
		Email:          "emp@acme.com",
		FullName:       "Employee",
		Role:           user.RoleEmployee,
		ActivationCode: "code-123",
	}
	role := &jobrole.JobRole{
		ID:           jobRoleID,
		CompanyID:    companyID,
		Title:        "Backend Engineer",
		Description:  "Owns the service layer",
		Requirements: json.RawMessage(`{"skills":["go","sql"]}`),
	}

	t.Run("folds the role into the profile and completes it", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().FindByEmail(ctx, owner.Email).Return(owner, nil)
		deps.users.EXPECT().FindByID(ctx, target.ID).Return(target, nil)
		deps.jobRoles.EXPECT().FindByID(ctx, companyID, jobRoleID).Return(role, nil)
		deps.users.EXPECT().SetJobRoleByActivationCode(ctx, target.ActivationCode, jobRoleID).Return(nil)

		var stored *profile.Profile
		deps.profiles.EXPECT().
			Upsert(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, p *profile.Profile) (*profile.Profile, error) {
				assert.Equal(t, target.ID, p.UserID)
				assert.Equal(t, profile.StatusCompleted, p.Status)

				var folded struct {
					CurrentPosition string          `json:"currentPosition"`
					AssignedRoleID  string          `json:"assignedRoleId"`
					Description     string          `json:"description"`
					JobRoleData     json.RawMessage `json:"jobRoleData"`
				}
				assert.NoError(t, json.Unmarshal(p.ProfileData, &folded))
				assert.Equal(t, role.Title, folded.CurrentPosition)
				assert.Equal(t, jobRoleID.String(), folded.AssignedRoleID)
				assert.Equal(t, role.Description, folded.Description)
				assert.JSONEq(t, string(role.Requirements), string(folded.JobRoleData))

				stored = p
				return p, nil
			})
		deps.redismock.ExpectDel(companyCacheKey(companyID)).SetVal(1)
		deps.dispatcher.EXPECT().
			Enqueue(ctx, webhook.KindAssignJobRole, gomock.Any()).
			DoAndReturn(func(ctx context.Context, kind string, payload any) error {
				m, ok := payload.(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, target.ID.String(), m["user_id"])
				assert.Equal(t, role.Title, m["job_role_title"])
				assert.Equal(t, role.Description, m["job_role_description"])
				assert.Equal(t, json.RawMessage(stored.ProfileData), m["profile_data"])
				return nil
			})

		err := deps.service.AssignJobRole(ctx, owner.Email, target.ID.String(), profile.AssignJobRoleRequest{
			JobRoleID: jobRoleID.String(),
		})

		assert.NoError(t, err)
	})

	t.Run("unknown role leaves the user and profile untouched", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().FindByEmail(ctx, owner.Email).Return(owner, nil)
		deps.users.EXPECT().FindByID(ctx, target.ID).Return(target, nil)
		deps.jobRoles.EXPECT().FindByID(ctx, companyID, jobRoleID).Return(nil, assert.AnError)
		deps.users.EXPECT().SetJobRoleByActivationCode(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		deps.users.EXPECT().SetJobRoleByEmail(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		deps.profiles.EXPECT().Upsert(gomock.Any(), gomock.Any()).Times(0)

		err := deps.service.AssignJobRole(ctx, owner.Email, target.ID.String(), profile.AssignJobRoleRequest{
			JobRoleID: jobRoleID.String(),
		})

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestProfileService_AssignJobRoleFlexible(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	jobRoleID := uuid.New()

	owner := &user.User{
		ID:        uuid.New(),
		CompanyID: &companyID,
		Email:     "owner@acme.com",
		Role:      user.RoleCompany,
	}
	target := &user.User{
		ID:             uuid.New(),
		CompanyID:      &companyID,
		Email:          "emp@acme.com",
		Role:           user.RoleEmployee,
		ActivationCode: "code-123",
	}
	role := &jobrole.JobRole{
		ID:          jobRoleID,
		CompanyID:   companyID,
		Title:       "Data Analyst",
		Description: "Reporting and dashboards",
	}

	t.Run("resolves by activation code", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().FindByEmail(ctx, owner.Email).Return(owner, nil)
		deps.users.EXPECT().FindByActivationCode(ctx, "code-123").Return(target, nil)
		deps.jobRoles.EXPECT().FindByID(ctx, companyID, jobRoleID).Return(role, nil)
		deps.users.EXPECT().SetJobRoleByActivationCode(ctx, target.ActivationCode, jobRoleID).Return(nil)
		deps.profiles.EXPECT().
			Upsert(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, p *profile.Profile) (*profile.Profile, error) {
				return p, nil
			})
		deps.redismock.ExpectDel(companyCacheKey(companyID)).SetVal(1)
		deps.dispatcher.EXPECT().Enqueue(ctx, webhook.KindAssignJobRole, gomock.Any()).Return(nil)

		err := deps.service.AssignJobRoleFlexible(ctx, owner.Email, profile.AssignJobRoleFlexibleRequest{
			JobRoleID:      jobRoleID.String(),
			ActivationCode: "code-123",
		})

		assert.NoError(t, err)
	})

	t.Run("falls back to email when the code column is stale", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().FindByEmail(ctx, owner.Email).Return(owner, nil)
		deps.users.EXPECT().
			FindByActivationCode(ctx, "stale-code").
			Return(nil, usererrors.ErrActivationCodeNotFound)
		deps.users.EXPECT().FindByEmail(ctx, target.Email).Return(target, nil)
		deps.jobRoles.EXPECT().FindByID(ctx, companyID, jobRoleID).Return(role, nil)
		deps.users.EXPECT().
			SetJobRoleByActivationCode(ctx, target.ActivationCode, jobRoleID).
			Return(usererrors.ErrUserNotFound)
		deps.users.EXPECT().SetJobRoleByEmail(ctx, target.Email, jobRoleID).Return(nil)
		deps.profiles.EXPECT().
			Upsert(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, p *profile.Profile) (*profile.Profile, error) {
				return p, nil
			})
		deps.redismock.ExpectDel(companyCacheKey(companyID)).SetVal(1)
		deps.dispatcher.EXPECT().Enqueue(ctx, webhook.KindAssignJobRole, gomock.Any()).Return(nil)

		err := deps.service.AssignJobRoleFlexible(ctx, owner.Email, profile.AssignJobRoleFlexibleRequest{
			JobRoleID:      jobRoleID.String(),
			ActivationCode: "stale-code",
			Email:          target.Email,
		})

		assert.NoError(t, err)
	})

	t.Run("target from another company", func(t *testing.T) {
		deps := setupServiceTest(t)
		otherCompany := uuid.New()
		outsider := &user.User{
			ID:        uuid.New(),
			CompanyID: &otherCompany,
			Email:     "outsider@other.com",
		}

		deps.users.EXPECT().FindByEmail(ctx, owner.Email).Return(owner, nil)
		deps.users.EXPECT().FindByEmail(ctx, outsider.Email).Return(outsider, nil)

		err := deps.service.AssignJobRoleFlexible(ctx, owner.Email, profile.AssignJobRoleFlexibleRequest{
			JobRoleID: jobRoleID.String(),
			Email:     outsider.Email,
		})

		assert.ErrorIs(t, err, profileerrors.ErrNotCompanyMember)
	})

	t.Run("no target given", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().FindByEmail(ctx, owner.Email).Return(owner, nil)

		err := deps.service.AssignJobRoleFlexible(ctx, owner.Email, profile.AssignJobRoleFlexibleRequest{
			JobRoleID: jobRoleID.String(),
		})

		assert.ErrorIs(t, err, profileerrors.ErrTargetRequired)
	})
}

func TestProfileService_GetByUserID(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	owner := &user.User{
		ID:        uuid.New(),
		CompanyID: &companyID,
		Email:     "owner@acme.com",
		Role:      user.RoleCompany,
	}
	target := &user.User{
		ID:        uuid.New(),
		CompanyID: &companyID,
		Email:     "emp@acme.com",
		Role:      user.RoleEmployee,
	}

	t.Run("company reads a member profile", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().FindByEmail(ctx, owner.Email).Return(owner, nil)
		deps.users.EXPECT().FindByID(ctx, target.ID).Return(target, nil)
		deps.profiles.EXPECT().
			FindByUserID(ctx, target.ID).
			Return(&profile.Profile{ID: uuid.New(), UserID: target.ID, Status: profile.StatusCompleted}, nil)

		resp, err := deps.service.GetByUserID(ctx, owner.Email, target.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, target.ID.String(), resp.UserID)
	})

	t.Run("employee cannot read a coworker profile", func(t *testing.T) {
		deps := setupServiceTest(t)
		coworker := &user.User{
			ID:        uuid.New(),
			CompanyID: &companyID,
			Email:     "other@acme.com",
			Role:      user.RoleEmployee,
		}

		deps.users.EXPECT().FindByEmail(ctx, target.Email).Return(target, nil)
		deps.users.EXPECT().FindByID(ctx, coworker.ID).Return(coworker, nil)

		_, err := deps.service.GetByUserID(ctx, target.Email, coworker.ID.String())

		assert.ErrorIs(t, err, profileerrors.ErrNotCompanyMember)
	})
}

func TestProfileService_GenerateAIProfile(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	emp := &user.User{
		ID:        uuid.New(),
		CompanyID: &companyID,
		Email:     "emp@acme.com",
		FullName:  "Employee",
	}

	t.Run("returns the automation result", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().FindByEmail(ctx, emp.Email).Return(emp, nil)
		deps.profiles.EXPECT().
			FindByUserID(ctx, emp.ID).
			Return(&profile.Profile{ID: uuid.New(), UserID: emp.ID, ProfileData: json.RawMessage(`{"a":1}`)}, nil)
		deps.dispatcher.EXPECT().
			Send(ctx, webhook.KindGenerateAIProfile, gomock.Any()).
			Return([]byte(`{"summary":"strong generalist"}`), nil)

		resp, err := deps.service.GenerateAIProfile(ctx, emp.Email)

		assert.NoError(t, err)
		assert.JSONEq(t, `{"summary":"strong generalist"}`, string(resp.Result))
	})

	t.Run("wraps a non-JSON hook body", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.users.EXPECT().FindByEmail(ctx, emp.Email).Return(emp, nil)
		deps.profiles.EXPECT().
			FindByUserID(ctx, emp.ID).
			Return(nil, profileerrors.ErrProfileNotFound)
		deps.dispatcher.EXPECT().
			Send(ctx, webhook.KindGenerateAIProfile, gomock.Any()).
			Return([]byte("plain text summary"), nil)

		resp, err := deps.service.GenerateAIProfile(ctx, emp.Email)

		assert.NoError(t, err)
		assert.Equal(t, `"plain text summary"`, string(resp.Result))
	})
}
