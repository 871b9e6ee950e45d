// Package transport serves the chat pipeline as NATS request/reply.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"facility-chat/internal/chat/history"
	"facility-chat/internal/chat/orchestrator"
	"facility-chat/internal/common/config"
	"facility-chat/internal/common/logger"
)

// Error codes carried in ErrorResponse.
const (
	ErrorParseError   = "PARSE_ERROR"
	ErrorEmptyMessage = "EMPTY_MESSAGE"
	ErrorInternal     = "INTERNAL_ERROR"
)

const defaultRequestTimeout = 30 * time.Second

// SessionResolver returns the live session for an id, creating it if needed.
type SessionResolver interface {
	Get(ctx context.Context, id string) *orchestrator.Session
}

type Request struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type ErrorResponse struct {
	SessionID string `json:"sessionId,omitempty"`
	ErrorCode string `json:"errorCode"`
	Error     string `json:"error"`
}

type NATSTransport struct {
	conn     *nats.Conn
	sub      *nats.Subscription
	subject  string
	queue    string
	timeout  time.Duration
	orch     *orchestrator.Orchestrator
	sessions SessionResolver
	logger   logger.Logger
}

func NewNATSTransport(cfg config.NATSConfig, serviceName string, orch *orchestrator.Orchestrator, sessions SessionResolver, log logger.Logger) (*NATSTransport, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name(serviceName),
		nats.Timeout(5*time.Second),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Info("connected to NATS", map[string]interface{}{"url": cfg.URL})
	t := newTransport(cfg, orch, sessions, log)
	t.conn = conn
	return t, nil
}

func newTransport(cfg config.NATSConfig, orch *orchestrator.Orchestrator, sessions SessionResolver, log logger.Logger) *NATSTransport {
	return &NATSTransport{
		subject:  cfg.Subject,
		queue:    cfg.QueueGroup,
		timeout:  defaultRequestTimeout,
		orch:     orch,
		sessions: sessions,
		logger:   log,
	}
}

// Start subscribes on the configured subject, in a queue group when one is set.
func (t *NATSTransport) Start() error {
	var err error
	if t.queue != "" {
		t.sub, err = t.conn.QueueSubscribe(t.subject, t.queue, t.handleMessage)
	} else {
		t.sub, err = t.conn.Subscribe(t.subject, t.handleMessage)
	}
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", t.subject, err)
	}

	t.logger.Info("subscribed", map[string]interface{}{
		"subject":    t.subject,
		"queueGroup": t.queue,
	})
	return nil
}

func (t *NATSTransport) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	if err := msg.Respond(t.process(ctx, msg.Data)); err != nil {
		t.logger.Error("failed to send response", map[string]interface{}{
			"subject": msg.Subject,
			"error":   err.Error(),
		})
	}
}

// process turns one request payload into a reply payload. Every failure is
// answered; the requester never has to wait for a timeout.
func (t *NATSTransport) process(ctx context.Context, data []byte) []byte {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		t.logger.Warn("invalid request", map[string]interface{}{"error": err.Error()})
		return marshal(ErrorResponse{ErrorCode: ErrorParseError, Error: "Invalid request format"})
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = history.NewSessionID()
	}

	reply, err := t.orch.HandleMessage(ctx, t.sessions.Get(ctx, sessionID), req.Message)
	if errors.Is(err, orchestrator.ErrEmptyMessage) {
		return marshal(ErrorResponse{SessionID: sessionID, ErrorCode: ErrorEmptyMessage, Error: "message is empty"})
	}
	if err != nil {
		t.logger.Error("chat pipeline failed", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
		return marshal(ErrorResponse{SessionID: sessionID, ErrorCode: ErrorInternal, Error: err.Error()})
	}
	return marshal(reply.Response(sessionID))
}

func marshal(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte(`{"errorCode":"INTERNAL_ERROR","error":"failed to marshal response"}`)
	}
	return data
}

func (t *NATSTransport) Close() error {
	if t.sub != nil {
		_ = t.sub.Unsubscribe()
	}
	if t.conn != nil {
		if err := t.conn.Drain(); err != nil {
			t.conn.Close()
			return err
		}
		t.logger.Info("NATS connection closed", nil)
	}
	return nil
}
