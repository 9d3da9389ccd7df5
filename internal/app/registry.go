package app

import (
	"database/sql"
	"os"

	"github.com/JerkingFan/Evalyze/internal/auth"
	"github.com/JerkingFan/Evalyze/internal/company"
	"github.com/JerkingFan/Evalyze/internal/companycontent"
	"github.com/JerkingFan/Evalyze/internal/email"
	"github.com/JerkingFan/Evalyze/internal/emailauth"
	"github.com/JerkingFan/Evalyze/internal/export"
	"github.com/JerkingFan/Evalyze/internal/fileupload"
	"github.com/JerkingFan/Evalyze/internal/health"
	"github.com/JerkingFan/Evalyze/internal/invitation"
	"github.com/JerkingFan/Evalyze/internal/jobrole"
	"github.com/JerkingFan/Evalyze/internal/messaging/kafka"
	"github.com/JerkingFan/Evalyze/internal/middleware"
	"github.com/JerkingFan/Evalyze/internal/profile"
	"github.com/JerkingFan/Evalyze/internal/rbac"
	"github.com/JerkingFan/Evalyze/internal/supabase"
	"github.com/JerkingFan/Evalyze/internal/user"
	"github.com/JerkingFan/Evalyze/internal/webhook"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	supaClient *supabase.Client,
	backend string,
) error {
	// --- Entity repositories, backend-switched ---
	var (
		userRepo       user.Repository
		companyRepo    company.Repository
		invitationRepo invitation.Repository
		profileRepo    profile.Repository
		snapshotRepo   profile.SnapshotRepository
		jobRoleRepo    jobrole.Repository
		contentRepo    companycontent.Repository
	)
	if backend == BackendSupabase {
		userRepo = user.NewSupabaseRepository(supaClient)
		companyRepo = company.NewSupabaseRepository(supaClient)
		invitationRepo = invitation.NewSupabaseRepository(supaClient)
		profileRepo = profile.NewSupabaseRepository(supaClient)
		snapshotRepo = profile.NewSupabaseSnapshotRepository(supaClient)
		jobRoleRepo = jobrole.NewSupabaseRepository(supaClient)
		contentRepo = companycontent.NewSupabaseRepository(supaClient)
	} else {
		userRepo = user.NewRepository(gormDB)
		companyRepo = company.NewRepository(gormDB)
		invitationRepo = invitation.NewRepository(gormDB)
		profileRepo = profile.NewRepository(gormDB)
		snapshotRepo = profile.NewSnapshotRepository(gormDB)
		jobRoleRepo = jobrole.NewRepository(gormDB)
		contentRepo = companycontent.NewRepository(gormDB)
	}

	// --- Local-only repositories ---
	outboxRepo := kafka.NewOutboxRepository(db)
	deliveryRepo := webhook.NewDeliveryRepository(db)
	fileRepo := fileupload.NewRepository(gormDB)
	codeRepo := emailauth.NewRepository(gormDB)

	// --- Core infrastructure ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}
	mailer := email.NewSMTPSender()
	dispatcher := webhook.NewDispatcher(deliveryRepo)

	// --- Services ---
	authService := auth.NewService(userRepo, companyRepo, outboxRepo, mailer)
	companyService := company.NewService(companyRepo)
	invitationService := invitation.NewService(invitationRepo, userRepo, companyRepo, mailer)
	jobRoleService := jobrole.NewService(jobRoleRepo, userRepo)
	contentService := companycontent.NewService(contentRepo, userRepo)
	fileService := fileupload.NewService(fileRepo, userRepo, dispatcher, os.Getenv("UPLOAD_DIR"))
	profileService := profile.NewService(profileRepo, snapshotRepo, userRepo, jobRoleRepo, dispatcher, fileService, rdb)
	emailAuthService := emailauth.NewService(codeRepo, userRepo, mailer)
	exportService := export.NewService(userRepo, companyRepo, profileRepo, invitationRepo, jobRoleRepo, contentRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	companyHandler := company.NewHandler(companyService)
	invitationHandler := invitation.NewHandler(invitationService)
	jobRoleHandler := jobrole.NewHandler(jobRoleService)
	contentHandler := companycontent.NewHandler(contentService)
	fileHandler := fileupload.NewHandler(fileService)
	profileHandler := profile.NewHandler(profileService)
	emailAuthHandler := emailauth.NewHandler(emailAuthService)
	exportHandler := export.NewHandler(exportService)
	healthHandler := health.NewHandler(gormDB)

	// --- Routes ---
	api := router.Group("/api/v1")
	api.Use(middleware.Idempotency(rdb))
	{
		health.RegisterRoutes(api, healthHandler)
		auth.RegisterRoutes(api, authHandler, rbacService)
		emailauth.RegisterRoutes(api, emailAuthHandler)
		company.RegisterRoutes(api, companyHandler, rbacService)
		invitation.RegisterRoutes(api, invitationHandler, rbacService)
		jobrole.RegisterRoutes(api, jobRoleHandler, rbacService)
		companycontent.RegisterRoutes(api, contentHandler, rbacService)
		fileupload.RegisterRoutes(api, fileHandler, rbacService)
		profile.RegisterRoutes(api, profileHandler, rbacService)
		export.RegisterRoutes(api, exportHandler, rbacService)
	}

	return nil
}
