package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/JerkingFan/Evalyze/internal/events"
	"github.com/JerkingFan/Evalyze/internal/profile"
	profileerrors "github.com/JerkingFan/Evalyze/internal/profile/errors"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EmployeeLifecycleConsumer provisions an empty pending profile when an
// employee account is created, so the dashboard lists the employee
// before their first profile save.
type EmployeeLifecycleConsumer struct {
	reader   *kafkago.Reader
	profiles profile.Repository
	logger   *zap.Logger
}

func NewEmployeeLifecycleConsumer(
	broker, groupID string,
	profiles profile.Repository,
	logger *zap.Logger,
) *EmployeeLifecycleConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{broker},
		GroupID: groupID,
		Topic:   events.EmployeeCreatedTopic,
	})
	return &EmployeeLifecycleConsumer{
		reader:   reader,
		profiles: profiles,
		logger:   logger.Named("kafka.consumer.employee"),
	}
}

func (c *EmployeeLifecycleConsumer) Run(ctx context.Context) error {
	c.logger.Info("employee lifecycle consumer started", zap.String("topic", events.EmployeeCreatedTopic))

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				c.logger.Info("employee lifecycle consumer stopped")
				return nil
			}
			return err
		}

		if err := c.handle(ctx, msg); err != nil {
			c.logger.Error("handling employee event failed",
				zap.String("key", string(msg.Key)),
				zap.Error(err),
			)
		}
	}
}

func (c *EmployeeLifecycleConsumer) Close() error {
	return c.reader.Close()
}

func (c *EmployeeLifecycleConsumer) handle(ctx context.Context, msg kafkago.Message) error {
	var event events.EmployeeCreatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		// Poison message: log and move on, redelivery cannot fix it.
		c.logger.Warn("unparseable employee event dropped", zap.Error(err))
		return nil
	}

	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		c.logger.Warn("employee event with invalid user id dropped",
			zap.String("user_id", event.UserID),
		)
		return nil
	}

	// Redeliveries and late events are no-ops once a profile exists.
	if _, err := c.profiles.FindByUserID(ctx, userID); err == nil {
		return nil
	} else if !errors.Is(err, profileerrors.ErrProfileNotFound) {
		return err
	}

	p := &profile.Profile{
		ID:     uuid.New(),
		UserID: userID,
		Status: profile.StatusPending,
	}
	if companyID, err := uuid.Parse(event.CompanyID); err == nil {
		p.CompanyID = &companyID
	}

	if _, err := c.profiles.Upsert(ctx, p); err != nil {
		return err
	}

	c.logger.Info("pending profile provisioned",
		zap.String("user_id", event.UserID),
		zap.String("company_id", event.CompanyID),
	)
	return nil
}
