package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JerkingFan/Evalyze/internal/emailauth"
	"github.com/JerkingFan/Evalyze/internal/messaging/kafka"
	"github.com/JerkingFan/Evalyze/internal/messaging/kafka/producer"
	"github.com/JerkingFan/Evalyze/internal/shared/connection"
	"github.com/JerkingFan/Evalyze/internal/webhook"

	"go.uber.org/zap"
)

// RunWorker drives the background loops: the outbox publisher, the
// webhook delivery drain and the login code sweeper.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

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

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	deliveryRepo := webhook.NewDeliveryRepository(sqlDB)
	codeRepo := emailauth.NewRepository(gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)
	go webhook.RunDeliveryWorker(ctx, deliveryRepo, logger, 5*time.Second)
	go emailauth.RunSweeper(ctx, codeRepo, logger, 5*time.Minute)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
