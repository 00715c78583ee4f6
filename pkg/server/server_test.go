package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/helmcode/actionplan/pkg/config"
	"github.com/helmcode/actionplan/pkg/metrics"
	"github.com/helmcode/actionplan/pkg/model"
	"github.com/helmcode/actionplan/pkg/store"
)

func testConfig(t *testing.T, upstream string) *config.Config {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.Anthropic.APIKey = "server-key"
	cfg.Server.UpstreamURL = upstream
	cfg.Server.UpstreamTimeout = 2 * time.Second
	cfg.Server.RelayRPS = 1000
	cfg.Server.RelayBurst = 1000
	cfg.Server.ShutdownTimeout = time.Second
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	st := store.NewFileStore(filepath.Join(t.TempDir(), "sessions"))
	return New(cfg, st, zap.NewNop(), m), m
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var e store.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e.Error
}

func TestRelayForwardsWithServerKey(t *testing.T) {
	const reqBody = `{"model":"m","max_tokens":10,"messages":[{"role":"user","content":"hi"}]}`
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "server-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, reqBody, string(body))
		_, _ = io.WriteString(w, `{"content":[{"type":"text","text":"ok"}]}`)
	}))
	defer upstream.Close()

	s, m := newTestServer(t, testConfig(t, upstream.URL))
	rec := do(t, s.Handler(), http.MethodPost, RelayRoute, reqBody, "x-api-key", "client-key")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"content":[{"type":"text","text":"ok"}]}`, rec.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RelayUpstream.WithLabelValues(relayOK)))
}

func TestRelayUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `invalid x-api-key`)
	}))
	defer upstream.Close()

	s, _ := newTestServer(t, testConfig(t, upstream.URL))
	rec := do(t, s.Handler(), http.MethodPost, RelayRoute, `{}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid x-api-key", decodeError(t, rec))
}

func TestRelayFailures(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		body   string
		status int
		msg    string
	}{
		{"transport failure", func(*config.Config) {}, `{}`, http.StatusInternalServerError, msgInternalError},
		{"missing key", func(c *config.Config) { c.Anthropic.APIKey = "" }, `{}`, http.StatusInternalServerError, msgInternalError},
		{"not json", func(*config.Config) {}, `hello`, http.StatusBadRequest, "Request body must be JSON"},
		{"too large", func(*config.Config) {}, `"` + strings.Repeat("a", MaxBodyBytes) + `"`, http.StatusRequestEntityTooLarge, "Request body too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, closedURL)
			tt.mutate(cfg)
			s, _ := newTestServer(t, cfg)

			rec := do(t, s.Handler(), http.MethodPost, RelayRoute, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.msg, decodeError(t, rec))
		})
	}
}

func TestRelayRateLimit(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	}))
	defer upstream.Close()

	cfg := testConfig(t, upstream.URL)
	cfg.Server.RelayRPS = 0.001
	cfg.Server.RelayBurst = 1
	s, m := newTestServer(t, cfg)
	h := s.Handler()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, RelayRoute, `{}`).Code)
	rec := do(t, h, http.MethodPost, RelayRoute, `{}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, msgTooManyRequests, decodeError(t, rec))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RelayUpstream.WithLabelValues(relayRateLimited)))
}

func TestSessionAPI(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t, "http://unused"))
	h := s.Handler()

	rec := do(t, h, http.MethodGet, SessionsRoute, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodPost, SessionsRoute, `{"problem":"Team misses deadlines","theme":"dark"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var saved store.SaveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.True(t, saved.Success)
	assert.Equal(t, "Session saved successfully", saved.Message)
	require.NotEmpty(t, saved.SessionID)

	rec = do(t, h, http.MethodGet, SessionsRoute+"/"+saved.SessionID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Team misses deadlines", got["title"])
	assert.Equal(t, "dark", got["theme"])

	rec = do(t, h, http.MethodGet, SessionsRoute, "")
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, saved.SessionID, list[0]["id"])

	rec = do(t, h, http.MethodDelete, SessionsRoute+"/"+saved.SessionID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Session deleted successfully"}`, rec.Body.String())

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec = do(t, h, method, SessionsRoute+"/"+saved.SessionID, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Session not found"}`, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, SessionsRoute, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionAPIWithHTTPClient(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t, "http://unused"))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx := context.Background()
	c := store.NewHTTPClient(srv.URL, time.Second)

	id, err := c.Create(ctx, model.Session{Problem: "Flaky builds"})
	require.NoError(t, err)

	got, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Flaky builds", got.Problem)

	require.NoError(t, c.Delete(ctx, id))
	assert.ErrorIs(t, c.Delete(ctx, id), store.ErrNotFound)
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t, "http://unused"))
	h := s.Handler()

	rec := do(t, h, http.MethodOptions, RelayRoute, "",
		"Origin", "http://localhost:3000",
		"Access-Control-Request-Method", "POST",
	)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "x-api-key")

	rec = do(t, h, http.MethodGet, HealthRoute, "", "Origin", "http://evil.example")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthAndMetrics(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t, "http://unused"))
	h := s.Handler()

	rec := do(t, h, http.MethodGet, HealthRoute, "")
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, MetricsRoute, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `actionplan_http_requests_total{code="200",route="/healthz"} 1`)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s, _ := newTestServer(t, testConfig(t, "http://unused"))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + HealthRoute)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
