// internal/workers/chat/handle-chat-message/handler_test.go
package handlechatmessage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facility-chat/internal/chat/compose"
	"facility-chat/internal/chat/gateway"
	"facility-chat/internal/chat/history"
	"facility-chat/internal/chat/intent"
	"facility-chat/internal/chat/orchestrator"
	apperrors "facility-chat/internal/common/errors"
	"facility-chat/internal/common/logger"
)

func newTestHandler(t *testing.T, opts ...orchestrator.Option) *Handler {
	log := logger.NewTestLogger(t)
	opts = append(opts, orchestrator.WithLogger(log))
	orch := orchestrator.New(
		intent.New(intent.DefaultRules()...),
		compose.New(""),
		gateway.NewSampleGateway("../../../../data/api"),
		opts...,
	)
	return NewHandler(LoadConfig(), orch, log)
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name        string
		input       *Input
		wantOutcome orchestrator.Outcome
		wantCreds   bool
		wantChart   bool
	}{
		{
			name:        "connected gets chart",
			input:       &Input{SessionID: "s-1", Message: "Top 5 assets by cost", Connected: true},
			wantOutcome: orchestrator.OutcomeAnswered,
			wantChart:   true,
		},
		{
			name:        "disconnected is gated",
			input:       &Input{SessionID: "s-1", Message: "Top 5 assets by cost"},
			wantOutcome: orchestrator.OutcomeConnectRequired,
			wantCreds:   true,
		},
		{
			name:        "greeting",
			input:       &Input{SessionID: "s-1", Message: "hi"},
			wantOutcome: orchestrator.OutcomeGeneral,
		},
		{
			name:        "unknown",
			input:       &Input{SessionID: "s-1", Message: "tell me a joke about penguins", Connected: true},
			wantOutcome: orchestrator.OutcomeClarification,
		},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.input.SessionID, out.SessionID)
			assert.Equal(t, tt.wantOutcome, out.Outcome)
			assert.Equal(t, tt.wantCreds, out.RequestCredentials)
			assert.Equal(t, tt.wantChart, out.Chart != nil)
			assert.NotEmpty(t, out.HTML)
		})
	}
}

func TestHandler_Execute_RecordsHistory(t *testing.T) {
	store := history.NewMemoryStore()
	h := newTestHandler(t, orchestrator.WithHistory(store))

	_, err := h.Execute(context.Background(), &Input{SessionID: "s-7", Message: "show locations"})
	require.NoError(t, err)

	sessions, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "show locations", sessions[0].Title)
}

func TestHandler_Execute_EmptyMessage(t *testing.T) {
	_, err := newTestHandler(t).Execute(context.Background(), &Input{SessionID: "s-1", Message: " "})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeEmptyMessage, apperrors.CodeOf(err))
	assert.Equal(t, "EMPTY_MESSAGE", apperrors.ConvertToBPMNError(apperrors.Normalize(err)).Code)
}

// ==========================
// Variable Parsing
// ==========================

func TestHandler_Run_Variables(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.run(context.Background(), []byte(`{"sessionId":"s-1","message":"list all assets","connected":true}`))
	require.NoError(t, err)
	assert.Equal(t, orchestrator.OutcomeAnswered, out.Outcome)

	for _, bad := range []string{`{"message":"hi"}`, `{"sessionId":"","message":"hi"}`, `{"sessionId":"s-1","message":"hi","connected":"yes"}`} {
		_, err := h.run(context.Background(), []byte(bad))
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.CodeOf(err), bad)
	}
}
