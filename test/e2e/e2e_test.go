// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facility-chat/internal/chat/compose"
	"facility-chat/internal/chat/connection"
	"facility-chat/internal/chat/gateway"
	"facility-chat/internal/chat/history"
	"facility-chat/internal/chat/intent"
	"facility-chat/internal/chat/orchestrator"
	"facility-chat/internal/common/config"
	"facility-chat/internal/common/database"
	"facility-chat/internal/common/logger"
	"facility-chat/internal/models"
	"facility-chat/internal/server"
)

// stack is one running instance wired the way cmd/facility-chat wires it.
type stack struct {
	http  *httptest.Server
	redis *database.RedisClient
}

func loadConfig(t *testing.T, redisAddr string) *config.Config {
	t.Helper()
	dataDir, err := filepath.Abs("../../data/api")
	require.NoError(t, err)

	body := fmt.Sprintf(`
chat:
  data_source: sample
  connector: probe
  store: redis
  cache_ttl: 60000
server:
  data_dir: %s
database:
  redis:
    address: %s
`, dataDir, redisAddr)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	return cfg
}

func startStack(t *testing.T, cfg *config.Config) *stack {
	t.Helper()
	log := logger.NewTestLogger(t)

	rc, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	require.NoError(t, rc.Ping(context.Background()))

	gw, err := gateway.New(cfg, gateway.Deps{Redis: rc.Client, Logger: log})
	require.NoError(t, err)

	hist := history.NewRedisStore(rc.Client)
	orch := orchestrator.New(
		intent.New(intent.DefaultRules()...),
		compose.New(cfg.Chat.SourceName),
		gw,
		orchestrator.WithHistory(hist),
		orchestrator.WithConnector(connection.NewProbeConnector(rc)),
		orchestrator.WithConnectionStore(connection.NewRedisStore(rc.Client, config.GetDuration(cfg.Server.SessionTTL))),
		orchestrator.WithLogger(log),
		orchestrator.WithFetchTimeout(config.GetDuration(cfg.Chat.FetchTimeout)),
	)

	srv := server.New(server.NewConfig(cfg), orch, hist, log, rc)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(func() {
		ts.Close()
		_ = rc.Close()
	})
	return &stack{http: ts, redis: rc}
}

func (s *stack) post(t *testing.T, path string, body interface{}, out interface{}) int {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(s.http.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *stack) get(t *testing.T, path string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(s.http.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// ==========================
// Full Conversation
// ==========================

func TestConversationFlow(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := loadConfig(t, mr.Addr())
	app := startStack(t, cfg)

	// 1. Data question before connecting is gated.
	var first orchestrator.ChatResponse
	status := app.post(t, "/api/chat", map[string]string{"message": "Top 5 assets by cost"}, &first)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, first.SessionID)
	assert.Equal(t, orchestrator.OutcomeConnectRequired, first.Outcome)
	assert.True(t, first.RequestCredentials)
	assert.Contains(t, first.Text, "Please connect with your Corrigo credentials")
	assert.Nil(t, first.Chart)
	assert.False(t, mr.Exists(gateway.CacheKey(models.DomainAssetsByCost, gateway.FetchOptions{})))

	// 2. Connect.
	var connected map[string]interface{}
	status = app.post(t, "/api/connect", map[string]string{
		"sessionId": first.SessionID,
		"username":  "facility.manager",
		"password":  "secret",
	}, &connected)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, connected["connected"])

	// 3. Same question is answered with a chart and cached.
	var second orchestrator.ChatResponse
	app.post(t, "/api/chat", map[string]string{"sessionId": first.SessionID, "message": "Top 5 assets by cost"}, &second)
	assert.Equal(t, orchestrator.OutcomeAnswered, second.Outcome)
	assert.False(t, second.RequestCredentials)
	require.NotNil(t, second.Chart)
	assert.Equal(t, models.ChartBar, second.Chart.Kind)
	assert.Len(t, second.Chart.Series, 5)
	assert.Contains(t, second.HTML, "<strong>")
	assert.Len(t, second.FollowUps, 3)
	assert.True(t, mr.Exists(gateway.CacheKey(models.DomainAssetsByCost, gateway.FetchOptions{})))

	// 4. Conversational messages never need the connection.
	var hello orchestrator.ChatResponse
	app.post(t, "/api/chat", map[string]string{"sessionId": first.SessionID, "message": "hello"}, &hello)
	assert.Equal(t, orchestrator.OutcomeGeneral, hello.Outcome)

	// 5. History lists the session under its latest message.
	var sessions struct {
		Sessions []models.ChatSession `json:"sessions"`
	}
	require.Equal(t, http.StatusOK, app.get(t, "/api/sessions", &sessions))
	require.Len(t, sessions.Sessions, 1)
	assert.Equal(t, first.SessionID, sessions.Sessions[0].ID)
	assert.Equal(t, "hello", sessions.Sessions[0].Title)
}

func TestConnectionSurvivesRestart(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := loadConfig(t, mr.Addr())

	before := startStack(t, cfg)
	var connected map[string]interface{}
	require.Equal(t, http.StatusOK, before.post(t, "/api/connect", map[string]string{
		"sessionId": "s-restart",
		"username":  "tech",
		"password":  "pw",
		"region":    "EU",
	}, &connected))
	before.http.Close()

	after := startStack(t, cfg)
	var reply orchestrator.ChatResponse
	after.post(t, "/api/chat", map[string]string{"sessionId": "s-restart", "message": "show locations"}, &reply)
	assert.Equal(t, orchestrator.OutcomeAnswered, reply.Outcome)
	assert.Contains(t, reply.Text, "Locations/sites:")

	assert.Equal(t, "EU", mr.HGet("facility:conn:s-restart", "region"))
	assert.Empty(t, mr.HGet("facility:conn:s-restart", "password"))
}

func TestRejectedConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	app := startStack(t, loadConfig(t, mr.Addr()))

	var body map[string]interface{}
	status := app.post(t, "/api/connect", map[string]string{"sessionId": "s-bad", "username": "tech"}, &body)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, body["connected"])

	var reply orchestrator.ChatResponse
	app.post(t, "/api/chat", map[string]string{"sessionId": "s-bad", "message": "list all assets"}, &reply)
	assert.Equal(t, orchestrator.OutcomeConnectRequired, reply.Outcome)
}

// ==========================
// Data API and Probes
// ==========================

func TestDataAPI(t *testing.T) {
	mr := miniredis.RunT(t)
	app := startStack(t, loadConfig(t, mr.Addr()))

	var status map[string]string
	require.Equal(t, http.StatusOK, app.get(t, "/api/health", &status))
	assert.Equal(t, "ok", status["status"])

	var byStatus map[string]interface{}
	require.Equal(t, http.StatusOK, app.get(t, "/api/work-orders-by-status", &byStatus))
	assert.Len(t, byStatus["byStatus"], 5)

	assert.Equal(t, http.StatusNotFound, app.get(t, "/api/budgets", nil))
}

func TestReadiness(t *testing.T) {
	mr := miniredis.RunT(t)
	app := startStack(t, loadConfig(t, mr.Addr()))

	var ready map[string]interface{}
	require.Equal(t, http.StatusOK, app.get(t, "/ready", &ready))
	assert.Equal(t, "ready", ready["status"])

	mr.Close()
	require.Equal(t, http.StatusServiceUnavailable, app.get(t, "/ready", &ready))
	assert.Equal(t, "not_ready", ready["status"])
}
