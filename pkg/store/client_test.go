package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/helmcode/actionplan/pkg/config"
	"github.com/helmcode/actionplan/pkg/metrics"
	"github.com/helmcode/actionplan/pkg/model"
)

func TestHTTPClientRoundTrip(t *testing.T) {
	var saved model.Session
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&saved))
		saved.ID = "generated"
		_ = json.NewEncoder(w).Encode(SaveResponse{Success: true, SessionID: saved.ID, Message: "Session saved successfully"})
	})
	mux.HandleFunc("GET /api/sessions", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]model.SessionSummary{saved.Summary()})
	})
	mux.HandleFunc("GET /api/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != saved.ID {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"Session not found"}`)
			return
		}
		_ = json.NewEncoder(w).Encode(saved)
	})
	mux.HandleFunc("DELETE /api/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"Failed to delete session"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	c := NewHTTPClient(srv.URL+"/", time.Second)

	id, err := c.Create(ctx, model.Session{Problem: "p"})
	require.NoError(t, err)
	assert.Equal(t, "generated", id)

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "generated", list[0].ID)

	got, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "p", got.Problem)

	_, err = c.Get(ctx, "other")
	assert.ErrorIs(t, err, ErrNotFound)

	err = c.Delete(ctx, id)
	require.Error(t, err)
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, OpDelete, pe.Op)
	assert.Contains(t, pe.Error(), "Failed to delete session")
}

func TestHTTPClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url, time.Second).List(context.Background())
	assert.True(t, IsPersistenceError(err))
}

func TestHTTPClientCountsOperations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/sessions", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	mux.HandleFunc("GET /api/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"Session not found"}`)
	})
	mux.HandleFunc("DELETE /api/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"Failed to delete session"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := config.NewDefaultConfig()
	cfg.Store.Mode = config.StoreModeHTTP
	cfg.Store.URL = srv.URL
	m := metrics.New()
	core, logs := observer.New(zap.WarnLevel)

	st, err := NewFromConfig(cfg, zap.New(core), m)
	require.NoError(t, err)
	c, ok := st.(*HTTPClient)
	require.True(t, ok)
	assert.Equal(t, cfg.Store.Timeout, c.client.Timeout)

	ctx := context.Background()
	_, err = st.List(ctx)
	require.NoError(t, err)
	_, err = st.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.Error(t, st.Delete(ctx, "x"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionOps.WithLabelValues(OpList, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionOps.WithLabelValues(OpLoad, "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionOps.WithLabelValues(OpDelete, "error")))

	entries := logs.FilterMessage("Session operation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, OpDelete, entries[0].ContextMap()["op"])
}
