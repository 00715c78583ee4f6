package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/helmcode/actionplan/pkg/model"
	"github.com/helmcode/actionplan/pkg/store"
)

const msgSessionNotFound = "Session not found"

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	var sess model.Session
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&sess); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid session body")
		return
	}

	id, err := s.store.Create(r.Context(), sess)
	if errors.Is(err, store.ErrInvalidID) {
		writeError(w, http.StatusBadRequest, "Invalid session id")
		return
	}
	if err != nil {
		s.logger.Error("Failed to save session", zap.String("id", sess.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	writeJSON(w, http.StatusOK, store.SaveResponse{
		Success:   true,
		SessionID: id,
		Message:   "Session saved successfully",
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("Failed to list sessions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgSessionNotFound)
		return
	}
	if err != nil {
		s.logger.Error("Failed to load session", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load session")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgSessionNotFound)
		return
	}
	if err != nil {
		s.logger.Error("Failed to delete session", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	writeJSON(w, http.StatusOK, store.DeleteResponse{
		Success: true,
		Message: "Session deleted successfully",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON marshals v as JSON and writes it to w with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, store.ErrorResponse{Error: msg})
}
