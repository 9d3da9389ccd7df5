package webhook_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JerkingFan/Evalyze/internal/shared/apperror"
	"github.com/JerkingFan/Evalyze/internal/webhook"
	webhookMock "github.com/JerkingFan/Evalyze/internal/webhook/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDispatcher_Enqueue(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a pending delivery for the drain worker", func(t *testing.T) {
		t.Setenv("N8N_ANALYZE_COMPETENCIES_URL", "https://automation.example.com/analyze")

		ctrl := gomock.NewController(t)
		deliveries := webhookMock.NewMockDeliveryRepository(ctrl)
		d := webhook.NewDispatcher(deliveries)

		deliveries.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, del webhook.Delivery) error {
				assert.Equal(t, webhook.KindAnalyzeCompetencies, del.Kind)
				assert.Equal(t, "https://automation.example.com/analyze", del.URL)
				assert.Equal(t, webhook.DeliveryStatusPending, del.Status)
				assert.JSONEq(t, `{"user_id":"u1"}`, string(del.Payload))
				return nil
			})

		err := d.Enqueue(ctx, webhook.KindAnalyzeCompetencies, map[string]string{"user_id": "u1"})

		assert.NoError(t, err)
	})

	t.Run("unconfigured kind", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		deliveries := webhookMock.NewMockDeliveryRepository(ctrl)
		d := webhook.NewDispatcher(deliveries)

		err := d.Enqueue(ctx, webhook.KindAssignJobRole, map[string]string{})

		assert.ErrorIs(t, err, webhook.ErrHookNotConfigured)
	})
}

func TestDispatcher_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("posts the payload and returns the body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, _ := io.ReadAll(r.Body)
			var payload map[string]string
			require.NoError(t, json.Unmarshal(body, &payload))
			assert.Equal(t, "u1", payload["user_id"])

			_, _ = w.Write([]byte(`{"result":"ok"}`))
		}))
		defer srv.Close()

		t.Setenv("N8N_GENERATE_AI_PROFILE_URL", srv.URL)

		ctrl := gomock.NewController(t)
		d := webhook.NewDispatcher(webhookMock.NewMockDeliveryRepository(ctrl))

		body, err := d.Send(ctx, webhook.KindGenerateAIProfile, map[string]string{"user_id": "u1"})

		assert.NoError(t, err)
		assert.JSONEq(t, `{"result":"ok"}`, string(body))
	})

	t.Run("non-2xx answer surfaces as a gateway error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("workflow crashed"))
		}))
		defer srv.Close()

		t.Setenv("N8N_GENERATE_AI_PROFILE_URL", srv.URL)

		ctrl := gomock.NewController(t)
		d := webhook.NewDispatcher(webhookMock.NewMockDeliveryRepository(ctrl))

		_, err := d.Send(ctx, webhook.KindGenerateAIProfile, map[string]string{})

		assert.Error(t, err)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusBadGateway, appErr.HTTPStatus)
		assert.Contains(t, appErr.Error(), "workflow crashed")
	})
}
