// Package orchestrator runs one chat message through classification, the
// connection gate, the data fetch and composition.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"facility-chat/internal/chat/connection"
	"facility-chat/internal/chat/gateway"
	"facility-chat/internal/chat/history"
	apperrors "facility-chat/internal/common/errors"
	"facility-chat/internal/common/logger"
	"facility-chat/internal/common/metrics"
	"facility-chat/internal/common/observability"
	"facility-chat/internal/models"
)

var (
	ErrEmptyMessage  = errors.New("EMPTY_MESSAGE")
	ErrConnectFailed = errors.New("CONNECT_FAILED")
)

// DefaultRegion is used when the connect form leaves the region blank.
const DefaultRegion = "US"

type Outcome string

const (
	OutcomeAnswered        Outcome = "answered"
	OutcomeConnectRequired Outcome = "connect_required"
	OutcomeFetchFailed     Outcome = "fetch_failed"
	OutcomeClarification   Outcome = "clarification"
	OutcomeGeneral         Outcome = "general"
)

// Reply is what one pipeline delivers. RequestCredentials asks the
// presentation layer to open its credential dialog.
type Reply struct {
	Outcome            Outcome               `json:"outcome"`
	Intent             models.IntentResult   `json:"intent"`
	Reply              *models.ComposedReply `json:"reply"`
	RequestCredentials bool                  `json:"requestCredentials"`
}

type Classifier interface {
	Classify(text string) models.IntentResult
}

type Composer interface {
	Compose(intent models.IntentResult, data *models.DomainData) (*models.ComposedReply, bool)
	ConnectPrompt(domain models.DomainTag) *models.ComposedReply
	FetchFailed() *models.ComposedReply
	Clarification() *models.ComposedReply
}

type Orchestrator struct {
	classifier   Classifier
	composer     Composer
	gateway      gateway.Gateway
	history      history.Recorder
	connector    connection.Connector
	store        connection.Store
	logger       logger.Logger
	obs          *observability.Observability
	tracer       trace.Tracer
	fetchTimeout time.Duration
	serialize    bool
}

type Option func(*Orchestrator)

func WithHistory(r history.Recorder) Option {
	return func(o *Orchestrator) { o.history = r }
}

func WithConnector(c connection.Connector) Option {
	return func(o *Orchestrator) { o.connector = c }
}

func WithConnectionStore(s connection.Store) Option {
	return func(o *Orchestrator) { o.store = s }
}

func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

func WithObservability(obs *observability.Observability) Option {
	return func(o *Orchestrator) { o.obs = obs }
}

// WithFetchTimeout bounds each gateway call; a timeout is a failed fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.fetchTimeout = d }
}

// WithSerializedSessions runs at most one pipeline per session at a time,
// so replies are delivered in submission order. Without it pipelines of the
// same session may overlap and finish out of order.
func WithSerializedSessions() Option {
	return func(o *Orchestrator) { o.serialize = true }
}

func New(classifier Classifier, composer Composer, gw gateway.Gateway, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		classifier: classifier,
		composer:   composer,
		gateway:    gw,
		connector:  connection.NewProbeConnector(),
		logger:     logger.NewNoOpLogger(),
		tracer:     observability.Tracer("facility-chat/orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RestoreSession builds a session whose connected flag comes from the
// connection store. A store error leaves the session disconnected.
func (o *Orchestrator) RestoreSession(ctx context.Context, id string) *Session {
	if o.store == nil {
		return NewSession(id, false)
	}
	st, err := o.store.Load(ctx, id)
	if err != nil {
		o.logger.Warn("failed to load connection state", map[string]interface{}{
			"sessionId": id,
			"error":     err.Error(),
		})
		return NewSession(id, false)
	}
	return NewSession(id, st.Connected)
}

// HandleMessage runs the pipeline for one inbound message. The only error
// is ErrEmptyMessage; every other failure is delivered as a reply.
func (o *Orchestrator) HandleMessage(ctx context.Context, session *Session, text string) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	if o.serialize {
		session.mu.Lock()
		defer session.mu.Unlock()
	}

	start := time.Now()
	ctx, span := o.tracer.Start(ctx, "chat.handle_message",
		trace.WithAttributes(attribute.String("session.id", session.ID)))
	defer span.End()

	intent := o.classifier.Classify(text)
	span.SetAttributes(attribute.String("chat.intent", string(intent.Intent)))

	reply := o.respond(ctx, session, intent)

	span.SetAttributes(attribute.String("chat.outcome", string(reply.Outcome)))
	elapsed := time.Since(start)
	metrics.ChatMessagesTotal.WithLabelValues(string(intent.Intent), string(reply.Outcome)).Inc()
	metrics.ChatPipelineDuration.WithLabelValues(string(reply.Outcome)).Observe(elapsed.Seconds())
	o.obs.RecordReply(ctx, string(reply.Outcome), elapsed)

	o.logger.Info("message handled", map[string]interface{}{
		"sessionId":  session.ID,
		"intent":     intent.Intent,
		"outcome":    reply.Outcome,
		"durationMs": elapsed.Milliseconds(),
	})

	if o.history != nil {
		if err := o.history.Record(ctx, session.ID, text); err != nil {
			o.logger.Warn("failed to record history", map[string]interface{}{
				"sessionId": session.ID,
				"error":     err.Error(),
			})
		}
	}
	return reply, nil
}

func (o *Orchestrator) respond(ctx context.Context, session *Session, intent models.IntentResult) *Reply {
	if !intent.NeedsData() {
		composed, ok := o.composer.Compose(intent, nil)
		if !ok {
			composed = o.composer.Clarification()
		}
		outcome := OutcomeClarification
		if intent.Intent == models.IntentGeneral {
			outcome = OutcomeGeneral
		}
		return &Reply{Outcome: outcome, Intent: intent, Reply: composed}
	}

	if !session.Connected() {
		return o.connectRequired(intent)
	}

	data, err := o.fetch(ctx, intent)
	if err != nil {
		o.logger.Warn("data fetch failed", map[string]interface{}{
			"sessionId": session.ID,
			"domain":    intent.Domain,
			"errorCode": apperrors.CodeOf(err),
			"error":     err.Error(),
		})
		trace.SpanFromContext(ctx).SetStatus(codes.Error, err.Error())
		return &Reply{Outcome: OutcomeFetchFailed, Intent: intent, Reply: o.composer.FetchFailed()}
	}

	composed, ok := o.composer.Compose(intent, data)
	if !ok {
		return o.connectRequired(intent)
	}
	return &Reply{Outcome: OutcomeAnswered, Intent: intent, Reply: composed}
}

func (o *Orchestrator) connectRequired(intent models.IntentResult) *Reply {
	return &Reply{
		Outcome:            OutcomeConnectRequired,
		Intent:             intent,
		Reply:              o.composer.ConnectPrompt(intent.Domain),
		RequestCredentials: true,
	}
}

func (o *Orchestrator) fetch(ctx context.Context, intent models.IntentResult) (*models.DomainData, error) {
	if o.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.fetchTimeout)
		defer cancel()
	}

	ctx, span := o.tracer.Start(ctx, "chat.fetch",
		trace.WithAttributes(attribute.String("chat.domain", string(intent.Domain))))
	defer span.End()

	data, err := o.gateway.Fetch(ctx, intent.Domain, gateway.OptionsFor(intent))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: gateway returned no data for %s", gateway.ErrUnavailable, intent.Domain)
	}
	return data, nil
}

// Connect checks credentials and updates the session's connected flag.
// On success the flag and the non-secret credentials are persisted; on
// failure the session is disconnected and the error wraps ErrConnectFailed.
func (o *Orchestrator) Connect(ctx context.Context, session *Session, creds models.Credentials) error {
	creds.Username = strings.TrimSpace(creds.Username)
	creds.Region = strings.TrimSpace(creds.Region)
	if creds.Region == "" {
		creds.Region = DefaultRegion
	}

	ctx, span := o.tracer.Start(ctx, "chat.connect",
		trace.WithAttributes(attribute.String("session.id", session.ID)))
	defer span.End()

	if err := o.connector.Connect(ctx, creds); err != nil {
		session.SetConnected(false)
		o.persist(ctx, session.ID, false, nil)
		metrics.ChatConnectAttempts.WithLabelValues("failed").Inc()
		span.SetStatus(codes.Error, err.Error())
		o.logger.Warn("connect failed", map[string]interface{}{
			"sessionId": session.ID,
			"username":  creds.Username,
			"errorCode": apperrors.CodeOf(err),
		})
		return fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}

	session.SetConnected(true)
	o.persist(ctx, session.ID, true, &creds)
	metrics.ChatConnectAttempts.WithLabelValues("ok").Inc()
	o.logger.Info("connected", map[string]interface{}{
		"sessionId": session.ID,
		"username":  creds.Username,
		"region":    creds.Region,
	})
	return nil
}

func (o *Orchestrator) persist(ctx context.Context, sessionID string, connected bool, creds *models.Credentials) {
	if o.store == nil {
		return
	}
	if err := o.store.Save(ctx, sessionID, connected); err != nil {
		o.logger.Warn("failed to persist connection state", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
	}
	if creds == nil {
		return
	}
	if err := o.store.SaveCredentials(ctx, sessionID, *creds); err != nil {
		o.logger.Warn("failed to persist credentials", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
	}
}
