package webhook

import (
	"context"
	"database/sql"
	"time"
)

const (
	DeliveryStatusPending = "pending"
	DeliveryStatusSent    = "sent"
	DeliveryStatusFailed  = "failed"
)

// Delivery is one queued outbound webhook call. Rows survive restarts;
// the drain worker retries failed ones with a growing backoff.
type Delivery struct {
	ID          string
	Kind        string
	URL         string
	Payload     []byte
	Status      string
	RetryCount  int
	NextRetryAt time.Time
}

//go:generate mockgen -source=delivery_repo.go -destination=mock/delivery_repo_mock.go -package=mock

type DeliveryRepository interface {
	Create(ctx context.Context, d Delivery) error
	ListDue(ctx context.Context, limit int) ([]Delivery, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type deliveryRepository struct {
	db *sql.DB
}

func NewDeliveryRepository(db *sql.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) Create(ctx context.Context, d Delivery) error {
	query := `
        INSERT INTO webhook_deliveries (
            id, kind, url, payload, status
        ) VALUES ($1, $2, $3, $4, $5)
    `

	_, err := r.db.ExecContext(ctx, query, d.ID, d.Kind, d.URL, d.Payload, d.Status)
	return err
}

func (r *deliveryRepository) ListDue(ctx context.Context, limit int) ([]Delivery, error) {
	query := `
SELECT
	id::text,
	kind,
	url,
	payload,
	status,
	retry_count,
	COALESCE(next_retry_at, created_at)
FROM webhook_deliveries
WHERE status IN ($1, $2)
	AND (next_retry_at IS NULL OR next_retry_at <= NOW())
ORDER BY created_at ASC
LIMIT $3
`

	rows, err := r.db.QueryContext(ctx, query, DeliveryStatusPending, DeliveryStatusFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deliveries := make([]Delivery, 0, limit)
	for rows.Next() {
		var d Delivery
		if err := rows.Scan(
			&d.ID,
			&d.Kind,
			&d.URL,
			&d.Payload,
			&d.Status,
			&d.RetryCount,
			&d.NextRetryAt,
		); err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return deliveries, nil
}

func (r *deliveryRepository) MarkSent(ctx context.Context, id string) error {
	query := `
UPDATE webhook_deliveries
SET
	status = $2,
	processed_at = NOW(),
	error_message = NULL,
	updated_at = NOW()
WHERE id = $1
`
	_, err := r.db.ExecContext(ctx, query, id, DeliveryStatusSent)
	return err
}

func (r *deliveryRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	query := `
UPDATE webhook_deliveries
SET
	status = $2,
	retry_count = retry_count + 1,
	error_message = LEFT($3, 500),
	next_retry_at = NOW() + (LEAST(retry_count + 1, 10) * INTERVAL '30 seconds'),
	updated_at = NOW()
WHERE id = $1
`
	_, err := r.db.ExecContext(ctx, query, id, DeliveryStatusFailed, reason)
	return err
}
