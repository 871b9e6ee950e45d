// Package server exposes the chat pipeline and the facility data API over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"facility-chat/internal/chat/connection"
	"facility-chat/internal/chat/history"
	"facility-chat/internal/chat/orchestrator"
	"facility-chat/internal/common/logger"
)

const maxBodyBytes = 64 << 10

type Server struct {
	cfg      Config
	orch     *orchestrator.Orchestrator
	history  history.Lister
	sessions *SessionCache
	probers  []connection.Prober
	logger   logger.Logger
	now      func() time.Time
}

// New wires the handlers. hist may be nil, in which case /api/sessions is
// always empty. probers back /ready.
func New(cfg Config, orch *orchestrator.Orchestrator, hist history.Lister, log logger.Logger, probers ...connection.Prober) *Server {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = history.DefaultLimit
	}
	return &Server{
		cfg:      cfg,
		orch:     orch,
		history:  hist,
		sessions: NewSessionCache(cfg.SessionCacheSize, cfg.SessionTTL, orch.RestoreSession),
		probers:  probers,
		logger:   log,
		now:      time.Now,
	}
}

// Sessions is shared with other front ends so a session has one live state.
func (s *Server) Sessions() *SessionCache {
	return s.sessions
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/connect", s.handleConnect)
	mux.HandleFunc("GET /api/sessions", s.handleSessions)
	mux.HandleFunc("GET /api/{resource}", s.handleResource)

	if s.cfg.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}
	return CORS(mux)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", map[string]interface{}{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   s.now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(s.probers))
	status := http.StatusOK
	for _, p := range s.probers {
		if err := p.Ping(ctx); err != nil {
			checks[p.Name()] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[p.Name()] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	writeJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": checks,
		"time":   s.now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
