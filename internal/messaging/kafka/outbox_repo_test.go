package kafka_test

import (
	"context"
	"testing"
	"time"

	"github.com/JerkingFan/Evalyze/internal/events"
	"github.com/JerkingFan/Evalyze/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepoTest(t *testing.T) (kafka.OutboxRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return kafka.NewOutboxRepository(db), mock
}

func TestOutboxRepository_Create(t *testing.T) {
	repo, mock := setupRepoTest(t)
	ctx := context.Background()

	event := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     "REQ-1",
		AggregateType: "user",
		AggregateID:   uuid.NewString(),
		EventType:     "employee_created",
		Topic:         events.EmployeeCreatedTopic,
		Payload:       []byte(`{"user_id":"u1"}`),
		Status:        kafka.OutboxStatusPending,
	}

	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(
			event.ID, event.RequestID, event.AggregateType,
			event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(ctx, event)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListPending(t *testing.T) {
	repo, mock := setupRepoTest(t)
	ctx := context.Background()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "retry_count", "coalesce",
	}).
		AddRow("e1", "user", "u1", "employee_created", events.EmployeeCreatedTopic, []byte(`{}`), kafka.OutboxStatusPending, 0, now).
		AddRow("e2", "user", "u2", "employee_created", events.EmployeeCreatedTopic, []byte(`{}`), kafka.OutboxStatusFailed, 3, now)

	mock.ExpectQuery("FROM outbox_events").
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 50).
		WillReturnRows(rows)

	pending, err := repo.ListPending(ctx, 50)

	assert.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "e1", pending[0].ID)
	assert.Equal(t, 3, pending[1].RetryCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkSent(t *testing.T) {
	repo, mock := setupRepoTest(t)
	ctx := context.Background()

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("e1", kafka.OutboxStatusSent).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkSent(ctx, "e1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	repo, mock := setupRepoTest(t)
	ctx := context.Background()

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("e1", kafka.OutboxStatusFailed, "broker unreachable").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkFailed(ctx, "e1", "broker unreachable")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := kafka.OutboxEvent{
		ID:      uuid.NewString(),
		Topic:   events.EmployeeCreatedTopic,
		Payload: []byte(`{}`),
		Status:  kafka.OutboxStatusPending,
	}
	assert.NoError(t, kafka.ValidateOutboxEvent(valid))

	missingTopic := valid
	missingTopic.Topic = ""
	assert.Error(t, kafka.ValidateOutboxEvent(missingTopic))

	badStatus := valid
	badStatus.Status = "queued"
	assert.Error(t, kafka.ValidateOutboxEvent(badStatus))
}
