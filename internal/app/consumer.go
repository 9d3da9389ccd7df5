package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JerkingFan/Evalyze/internal/messaging/kafka/consumer"
	"github.com/JerkingFan/Evalyze/internal/profile"
	"github.com/JerkingFan/Evalyze/internal/shared/connection"
	"github.com/JerkingFan/Evalyze/internal/supabase"

	"go.uber.org/zap"
)

// RunConsumer provisions pending profiles from employee lifecycle
// events. The profile repository follows the same backend switch as the
// API so the bootstrap lands where the entities live.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	var profileRepo profile.Repository
	if os.Getenv("DATA_BACKEND") == BackendSupabase {
		supaClient := supabase.NewClient(supabase.Config{
			BaseURL: os.Getenv("SUPABASE_URL"),
			APIKey:  os.Getenv("SUPABASE_API_KEY"),
			Timeout: 15 * time.Second,
		})
		profileRepo = profile.NewSupabaseRepository(supaClient)
	} else {
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
		sqlDB, err := gormDB.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		profileRepo = profile.NewRepository(gormDB)
	}

	lifecycle := consumer.NewEmployeeLifecycleConsumer(
		kafkaBroker,
		"evalyze-profile-bootstrap",
		profileRepo,
		logger,
	)
	defer lifecycle.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := lifecycle.Run(ctx); err != nil {
			logger.Error("employee lifecycle consumer failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
