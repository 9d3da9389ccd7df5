package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/JerkingFan/Evalyze/internal/shared/apperror"

	"go.uber.org/zap"
)

// ErrEmptyResponse is returned when a write with return=representation
// comes back with no rows, i.e. the filters matched nothing.
var ErrEmptyResponse = apperror.New(apperror.CodeNotFound, "Empty response from remote table", http.StatusBadGateway)

// IsEmptyResponse reports whether err is the no-rows write result.
func IsEmptyResponse(err error) bool {
	return errors.Is(err, ErrEmptyResponse)
}

// Filters maps a column name to a PostgREST predicate string, e.g.
// {"email": "eq.someone@example.com"}. Filters are appended verbatim as
// query parameters.
type Filters map[string]string

// Eq builds the PostgREST equality predicate for a value.
func Eq(value string) string {
	return "eq." + value
}

type Config struct {
	BaseURL string // e.g. https://<project>.supabase.co/rest/v1
	APIKey  string
	Timeout time.Duration
}

// Client is a thin HTTP client over a PostgREST-style tabular API. Entity
// repositories layer their row mapping on top of it; the client itself knows
// nothing about the schema.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(cfg Config, logger ...*zap.Logger) *Client {
	l := zap.L().Named("supabase.client")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("supabase.client")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		logger:  l,
	}
}

// Select fetches rows from table matching filters. A nil filter map returns
// the whole table.
func Select[T any](ctx context.Context, c *Client, table string, filters Filters) ([]T, error) {
	body, err := c.do(ctx, http.MethodGet, table, filters, nil, nil)
	if err != nil {
		return nil, err
	}

	var rows []T
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Error parsing remote table response", http.StatusInternalServerError)
	}
	return rows, nil
}

// Insert adds a single row and returns the stored representation. PostgREST
// expects an array body and echoes an array back; the first element is
// unwrapped.
func Insert[T any](ctx context.Context, c *Client, table string, row T) (T, error) {
	return writeOne(ctx, c, http.MethodPost, table, nil, row, "return=representation")
}

// Upsert inserts the row, resolving a conflict on conflictColumn as an
// update. Unlike a lookup-then-write sequence this is atomic on the remote
// side, so concurrent writers on the same natural key cannot duplicate rows.
func Upsert[T any](ctx context.Context, c *Client, table, conflictColumn string, row T) (T, error) {
	filters := Filters{"on_conflict": conflictColumn}
	return writeOne(ctx, c, http.MethodPost, table, filters, row, "resolution=merge-duplicates,return=representation")
}

// Update patches rows matching filters and returns the first updated row.
func Update[T any](ctx context.Context, c *Client, table string, row T, filters Filters) (T, error) {
	return writeOne(ctx, c, http.MethodPatch, table, filters, row, "return=representation")
}

// Delete removes rows matching filters.
func Delete(ctx context.Context, c *Client, table string, filters Filters) error {
	_, err := c.do(ctx, http.MethodDelete, table, filters, nil, nil)
	return err
}

func writeOne[T any](ctx context.Context, c *Client, method, table string, filters Filters, row T, prefer string) (T, error) {
	var zero T

	// PATCH takes a bare object; POST wraps the payload in a one-element
	// array because PostgREST inserts expect an array body.
	var payload any = row
	if method == http.MethodPost {
		payload = []T{row}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return zero, err
	}

	respBody, err := c.do(ctx, method, table, filters, body, map[string]string{"Prefer": prefer})
	if err != nil {
		return zero, err
	}

	var rows []T
	if err := json.Unmarshal(respBody, &rows); err != nil {
		return zero, apperror.Wrap(err, apperror.CodeInternalError, "Error parsing remote table response", http.StatusInternalServerError)
	}
	if len(rows) == 0 {
		return zero, ErrEmptyResponse
	}
	return rows[0], nil
}

func (c *Client) do(ctx context.Context, method, table string, filters Filters, body []byte, headers map[string]string) ([]byte, error) {
	u, err := url.Parse(c.baseURL + "/" + table)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Invalid remote table URL", http.StatusInternalServerError)
	}

	q := u.Query()
	for k, v := range filters {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeServiceUnavailable, "Remote table request failed", http.StatusServiceUnavailable)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("remote table error",
			zap.String("table", table),
			zap.String("method", method),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		// No structured error parsing: the raw body is carried as-is.
		return nil, apperror.Wrap(
			fmt.Errorf("%s", respBody),
			apperror.CodeServiceUnavailable,
			fmt.Sprintf("Remote table error (%d)", resp.StatusCode),
			http.StatusBadGateway,
		)
	}

	return respBody, nil
}
