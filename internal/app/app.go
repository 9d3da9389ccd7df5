package app

import (
	"os"
	"time"

	"github.com/JerkingFan/Evalyze/internal/company"
	"github.com/JerkingFan/Evalyze/internal/companycontent"
	"github.com/JerkingFan/Evalyze/internal/emailauth"
	"github.com/JerkingFan/Evalyze/internal/fileupload"
	"github.com/JerkingFan/Evalyze/internal/invitation"
	"github.com/JerkingFan/Evalyze/internal/jobrole"
	"github.com/JerkingFan/Evalyze/internal/middleware"
	"github.com/JerkingFan/Evalyze/internal/profile"
	"github.com/JerkingFan/Evalyze/internal/shared/connection"
	"github.com/JerkingFan/Evalyze/internal/supabase"
	"github.com/JerkingFan/Evalyze/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Backend selectors for entity storage. Queue tables, login codes and
// file metadata always live in local Postgres.
const (
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"
)

func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	backend := os.Getenv("DATA_BACKEND")
	if backend == "" {
		backend = BackendPostgres
	}

	if err := migrate(gormDB, backend); err != nil {
		return err
	}

	var supaClient *supabase.Client
	if backend == BackendSupabase {
		supaClient = supabase.NewClient(supabase.Config{
			BaseURL: os.Getenv("SUPABASE_URL"),
			APIKey:  os.Getenv("SUPABASE_API_KEY"),
			Timeout: 15 * time.Second,
		})
		logger.Info("entity storage on remote backend")
	} else {
		logger.Info("entity storage on local postgres")
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	router.Use(middleware.ContextLogger(zap.L()))

	return registerModules(router, sqlDB, gormDB, redisClient, supaClient, backend)
}

// migrate creates the local schema. Entity tables are skipped when the
// remote backend owns them; the queue tables are plain SQL because the
// outbox workers read them through database/sql.
func migrate(gormDB *gorm.DB, backend string) error {
	local := []any{
		&fileupload.FileUpload{},
		&emailauth.EmailVerification{},
	}
	if backend == BackendPostgres {
		local = append(local,
			&company.Company{},
			&user.User{},
			&invitation.Invitation{},
			&profile.Profile{},
			&profile.Snapshot{},
			&jobrole.JobRole{},
			&companycontent.CompanyContent{},
		)
	}
	if err := gormDB.AutoMigrate(local...); err != nil {
		return err
	}

	queueDDL := []string{
		`CREATE TABLE IF NOT EXISTS outbox_events (
			id UUID PRIMARY KEY,
			request_id TEXT,
			aggregate_type TEXT NOT NULL,
			aggregate_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			topic TEXT NOT NULL,
			payload JSONB NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			retry_count INT NOT NULL DEFAULT 0,
			error_message TEXT,
			next_retry_at TIMESTAMPTZ,
			processed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS webhook_deliveries (
			id UUID PRIMARY KEY,
			kind TEXT NOT NULL,
			url TEXT NOT NULL,
			payload JSONB NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			retry_count INT NOT NULL DEFAULT 0,
			error_message TEXT,
			next_retry_at TIMESTAMPTZ,
			processed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, ddl := range queueDDL {
		if err := gormDB.Exec(ddl).Error; err != nil {
			return err
		}
	}
	return nil
}
