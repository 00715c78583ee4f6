package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/helmcode/actionplan/pkg/metrics"
	"github.com/helmcode/actionplan/pkg/model"
)

// SessionsPath is the session API route on the relay server.
const SessionsPath = "/api/sessions"

const maxErrorBody = 4096

// SaveResponse is the body returned by POST /api/sessions.
type SaveResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// DeleteResponse is the body returned by DELETE /api/sessions/{id}.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPClient implements SessionStore against a running relay server.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithClientLogger sets the logger used for failed operations.
func WithClientLogger(logger *zap.Logger) ClientOption {
	return func(c *HTTPClient) {
		c.logger = logger.Named("store")
	}
}

// WithClientMetrics counts operations on m.
func WithClientMetrics(m *metrics.Metrics) ClientOption {
	return func(c *HTTPClient) {
		c.metrics = m
	}
}

// NewHTTPClient returns a client for the server at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create implements SessionStore.
func (c *HTTPClient) Create(ctx context.Context, s model.Session) (id string, err error) {
	defer func() { c.observe(OpSave, s.ID, err) }()

	body, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}
	var resp SaveResponse
	if err := c.do(ctx, http.MethodPost, SessionsPath, body, OpSave, s.ID, &resp); err != nil {
		return "", err
	}
	return resp.SessionID, nil
}

// List implements SessionStore.
func (c *HTTPClient) List(ctx context.Context) (summaries []model.SessionSummary, err error) {
	defer func() { c.observe(OpList, "", err) }()

	summaries = []model.SessionSummary{}
	if err := c.do(ctx, http.MethodGet, SessionsPath, nil, OpList, "", &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Get implements SessionStore.
func (c *HTTPClient) Get(ctx context.Context, id string) (s model.Session, err error) {
	defer func() { c.observe(OpLoad, id, err) }()

	if err := c.do(ctx, http.MethodGet, SessionsPath+"/"+url.PathEscape(id), nil, OpLoad, id, &s); err != nil {
		return model.Session{}, err
	}
	return s, nil
}

// Delete implements SessionStore.
func (c *HTTPClient) Delete(ctx context.Context, id string) (err error) {
	defer func() { c.observe(OpDelete, id, err) }()

	var resp DeleteResponse
	return c.do(ctx, http.MethodDelete, SessionsPath+"/"+url.PathEscape(id), nil, OpDelete, id, &resp)
}

func (c *HTTPClient) observe(op, id string, err error) {
	c.metrics.SessionOp(op, err)
	if IsPersistenceError(err) {
		c.logger.Warn("Session operation failed", zap.String("op", op), zap.String("id", id), zap.Error(err))
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte, op, id string, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &PersistenceError{Op: op, ID: id, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(raw))
		var e ErrorResponse
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &PersistenceError{Op: op, ID: id, Err: fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &PersistenceError{Op: op, ID: id, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
