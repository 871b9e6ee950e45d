package server

import (
	"errors"
	"net/http"
	"strings"

	"facility-chat/internal/chat/history"
	"facility-chat/internal/chat/orchestrator"
	apperrors "facility-chat/internal/common/errors"
	"facility-chat/internal/models"
)

type chatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type connectRequest struct {
	SessionID string `json:"sessionId"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Region    string `json:"region"`
}

type connectResponse struct {
	SessionID string `json:"sessionId"`
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = history.NewSessionID()
	}
	session := s.sessions.Get(r.Context(), sessionID)

	reply, err := s.orch.HandleMessage(r.Context(), session, req.Message)
	if errors.Is(err, orchestrator.ErrEmptyMessage) {
		writeError(w, http.StatusBadRequest, "message is empty")
		return
	}
	if err != nil {
		s.logger.Error("chat pipeline failed", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, reply.Response(sessionID))
}

// handleConnect answers 200 on success and 401 when the credentials were
// rejected; both carry the resulting connected flag.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	session := s.sessions.Get(r.Context(), sessionID)
	err := s.orch.Connect(r.Context(), session, models.Credentials{
		Username: req.Username,
		Password: req.Password,
		Region:   req.Region,
	})
	if err != nil {
		msg := err.Error()
		if se, ok := apperrors.AsStandardError(err); ok {
			msg = se.Message
			if se.Details != "" {
				msg += ": " + se.Details
			}
		}
		writeJSON(w, http.StatusUnauthorized, connectResponse{SessionID: sessionID, Connected: false, Error: msg})
		return
	}
	writeJSON(w, http.StatusOK, connectResponse{SessionID: sessionID, Connected: true})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	sessions := []models.ChatSession{}
	if s.history != nil {
		list, err := s.history.List(r.Context(), s.cfg.HistoryLimit)
		if err != nil {
			s.logger.Warn("failed to list sessions", map[string]interface{}{"error": err.Error()})
			writeError(w, http.StatusServiceUnavailable, "history unavailable")
			return
		}
		if list != nil {
			sessions = list
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}
