package webhook

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RunDeliveryWorker drains due webhook deliveries on a fixed interval
// until the context is cancelled.
func RunDeliveryWorker(
	ctx context.Context,
	repo DeliveryRepository,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}

	log := logger.Named("webhook.worker")
	client := &http.Client{Timeout: 60 * time.Second}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("webhook delivery worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("webhook delivery worker stopped")
			return
		case <-ticker.C:
			if err := drainDueDeliveries(ctx, repo, client, log); err != nil {
				log.Error("drain webhook deliveries failed", zap.Error(err))
			}
		}
	}
}

func drainDueDeliveries(
	ctx context.Context,
	repo DeliveryRepository,
	client *http.Client,
	logger *zap.Logger,
) error {
	deliveries, err := repo.ListDue(ctx, 25)
	if err != nil {
		return err
	}

	if len(deliveries) == 0 {
		return nil
	}

	logger.Info("processing due webhook deliveries", zap.Int("count", len(deliveries)))

	for _, d := range deliveries {
		if _, err := postJSON(ctx, client, d.URL, d.Payload); err != nil {
			logger.Error("webhook delivery failed",
				zap.String("delivery_id", d.ID),
				zap.String("kind", d.Kind),
				zap.Int("retry_count", d.RetryCount),
				zap.Error(err),
			)
			_ = repo.MarkFailed(ctx, d.ID, err.Error())
			continue
		}

		if err := repo.MarkSent(ctx, d.ID); err != nil {
			logger.Error("mark webhook delivery sent failed",
				zap.String("delivery_id", d.ID),
				zap.Error(err),
			)
			continue
		}

		logger.Info("webhook delivered",
			zap.String("delivery_id", d.ID),
			zap.String("kind", d.Kind),
		)
	}

	return nil
}
