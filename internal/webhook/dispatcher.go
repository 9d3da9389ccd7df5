package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/JerkingFan/Evalyze/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outbound automation hooks. Each kind resolves to a URL from the
// environment at startup.
const (
	KindAnalyzeCompetencies = "analyze_competencies"
	KindAssignJobRole       = "assign_job_role"
	KindGenerateAIProfile   = "generate_ai_profile"
)

var kindEnvVars = map[string]string{
	KindAnalyzeCompetencies: "N8N_ANALYZE_COMPETENCIES_URL",
	KindAssignJobRole:       "N8N_ASSIGN_JOB_ROLE_URL",
	KindGenerateAIProfile:   "N8N_GENERATE_AI_PROFILE_URL",
}

var ErrHookNotConfigured = apperror.New(
	apperror.CodeServiceUnavailable,
	"Automation hook is not configured",
	http.StatusServiceUnavailable,
)

//go:generate mockgen -source=dispatcher.go -destination=mock/dispatcher_mock.go -package=mock

// Dispatcher hands payloads to the automation platform. Enqueue persists
// the call for the background drain worker; Send posts inline and returns
// the raw response body for flows where the caller needs the result.
type Dispatcher interface {
	Enqueue(ctx context.Context, kind string, payload any) error
	Send(ctx context.Context, kind string, payload any) ([]byte, error)
}

type dispatcher struct {
	deliveries DeliveryRepository
	urls       map[string]string
	http       *http.Client
	logger     *zap.Logger
}

func NewDispatcher(deliveries DeliveryRepository, logger ...*zap.Logger) Dispatcher {
	l := zap.L().Named("webhook.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}

	urls := make(map[string]string, len(kindEnvVars))
	for kind, envVar := range kindEnvVars {
		urls[kind] = os.Getenv(envVar)
	}

	return &dispatcher{
		deliveries: deliveries,
		urls:       urls,
		http:       &http.Client{Timeout: 60 * time.Second},
		logger:     l,
	}
}

func (d *dispatcher) Enqueue(ctx context.Context, kind string, payload any) error {
	url, err := d.resolveURL(kind)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	delivery := Delivery{
		ID:      uuid.NewString(),
		Kind:    kind,
		URL:     url,
		Payload: body,
		Status:  DeliveryStatusPending,
	}
	if err := d.deliveries.Create(ctx, delivery); err != nil {
		return err
	}

	d.logger.Info("webhook enqueued",
		zap.String("delivery_id", delivery.ID),
		zap.String("kind", kind),
	)
	return nil
}

func (d *dispatcher) Send(ctx context.Context, kind string, payload any) ([]byte, error) {
	url, err := d.resolveURL(kind)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return postJSON(ctx, d.http, url, body)
}

func (d *dispatcher) resolveURL(kind string) (string, error) {
	url, ok := d.urls[kind]
	if !ok || url == "" {
		return "", ErrHookNotConfigured
	}
	return url, nil
}

func postJSON(ctx context.Context, client *http.Client, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeServiceUnavailable, "Automation hook request failed", http.StatusBadGateway)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperror.Wrap(
			fmt.Errorf("%s", respBody),
			apperror.CodeServiceUnavailable,
			fmt.Sprintf("Automation hook error (%d)", resp.StatusCode),
			http.StatusBadGateway,
		)
	}

	return respBody, nil
}
