package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// MaxBodyBytes caps request bodies on every write endpoint.
const MaxBodyBytes = 1 << 20

const maxUpstreamBody = 10 << 20

// Relay outcomes, used as the metrics label.
const (
	relayOK            = "ok"
	relayUpstreamError = "upstream_error"
	relayFailed        = "failed"
	relayRateLimited   = "rate_limited"
)

const (
	msgInternalError   = "Internal server error"
	msgTooManyRequests = "Too many requests"
)

// handleRelay forwards the body verbatim to the Messages API with the
// server's key. Any client-supplied x-api-key is ignored.
func (s *Server) handleRelay(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		s.metrics.Relay(relayRateLimited)
		writeError(w, http.StatusTooManyRequests, msgTooManyRequests)
		return
	}

	if s.apiKey == "" {
		s.logger.Error("Relay called without ANTHROPIC_API_KEY configured")
		s.metrics.Relay(relayFailed)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		s.logger.Error("Failed to read relay body", zap.Error(err))
		s.metrics.Relay(relayFailed)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "Request body must be JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.UpstreamTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.UpstreamURL, bytes.NewReader(body))
	if err != nil {
		s.logger.Error("Failed to build upstream request", zap.Error(err))
		s.metrics.Relay(relayFailed)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", s.cfg.AnthropicVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("Upstream request failed", zap.Error(err))
		s.metrics.Relay(relayFailed)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		s.logger.Error("Failed to read upstream response", zap.Error(err))
		s.metrics.Relay(relayFailed)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Error("Anthropic API error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)),
		)
		s.metrics.Relay(relayUpstreamError)
		writeError(w, resp.StatusCode, string(respBody))
		return
	}

	s.metrics.Relay(relayOK)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(respBody)
}
