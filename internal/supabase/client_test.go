package supabase_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JerkingFan/Evalyze/internal/shared/apperror"
	"github.com/JerkingFan/Evalyze/internal/supabase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *supabase.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return supabase.NewClient(supabase.Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	})
}

func TestClient_Select(t *testing.T) {
	ctx := context.Background()

	t.Run("filters become query parameters", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/users", r.URL.Path)
			assert.Equal(t, "eq.someone@example.com", r.URL.Query().Get("email"))
			assert.Equal(t, "test-key", r.Header.Get("apikey"))
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			_ = json.NewEncoder(w).Encode([]row{{ID: "1", Email: "someone@example.com"}})
		})

		rows, err := supabase.Select[row](ctx, client, "users", supabase.Filters{
			"email": supabase.Eq("someone@example.com"),
		})

		assert.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "someone@example.com", rows[0].Email)
	})

	t.Run("nil filters fetch the whole table", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.URL.RawQuery)
			_ = json.NewEncoder(w).Encode([]row{{ID: "1"}, {ID: "2"}})
		})

		rows, err := supabase.Select[row](ctx, client, "users", nil)

		assert.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}

func TestClient_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("wraps the row in an array and unwraps the echo", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, _ := io.ReadAll(r.Body)
			var sent []row
			require.NoError(t, json.Unmarshal(body, &sent))
			require.Len(t, sent, 1)

			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(sent)
		})

		stored, err := supabase.Insert(ctx, client, "users", row{ID: "1", Email: "a@b.com"})

		assert.NoError(t, err)
		assert.Equal(t, "a@b.com", stored.Email)
	})
}

func TestClient_Upsert(t *testing.T) {
	ctx := context.Background()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "email", r.URL.Query().Get("on_conflict"))
		assert.Equal(t, "resolution=merge-duplicates,return=representation", r.Header.Get("Prefer"))

		_ = json.NewEncoder(w).Encode([]row{{ID: "1", Email: "a@b.com"}})
	})

	stored, err := supabase.Upsert(ctx, client, "users", "email", row{Email: "a@b.com"})

	assert.NoError(t, err)
	assert.Equal(t, "1", stored.ID)
}

func TestClient_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("patch carries a bare object body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "eq.1", r.URL.Query().Get("id"))

			body, _ := io.ReadAll(r.Body)
			var sent row
			require.NoError(t, json.Unmarshal(body, &sent))

			_ = json.NewEncoder(w).Encode([]row{sent})
		})

		stored, err := supabase.Update(ctx, client, "users", row{ID: "1", Email: "new@b.com"}, supabase.Filters{
			"id": supabase.Eq("1"),
		})

		assert.NoError(t, err)
		assert.Equal(t, "new@b.com", stored.Email)
	})

	t.Run("no matched rows -> empty response error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("[]"))
		})

		_, err := supabase.Update(ctx, client, "users", row{ID: "1"}, supabase.Filters{
			"id": supabase.Eq("1"),
		})

		assert.Error(t, err)
		assert.True(t, supabase.IsEmptyResponse(err))
	})
}

func TestClient_ErrorResponse(t *testing.T) {
	ctx := context.Background()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"duplicate key value violates unique constraint"}`))
	})

	_, err := supabase.Select[row](ctx, client, "users", nil)

	assert.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.HTTPStatus)
	assert.Contains(t, appErr.Error(), "duplicate key")
}
