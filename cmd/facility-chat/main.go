// cmd/facility-chat/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"facility-chat/internal/chat/compose"
	"facility-chat/internal/chat/connection"
	"facility-chat/internal/chat/gateway"
	"facility-chat/internal/chat/history"
	"facility-chat/internal/chat/intent"
	"facility-chat/internal/chat/orchestrator"
	"facility-chat/internal/common/auth"
	"facility-chat/internal/common/camunda"
	"facility-chat/internal/common/config"
	"facility-chat/internal/common/database"
	httpclient "facility-chat/internal/common/http"
	"facility-chat/internal/common/logger"
	"facility-chat/internal/common/observability"
	"facility-chat/internal/server"
	"facility-chat/internal/transport"

	ci "facility-chat/internal/workers/chat/classify-intent"
	cr "facility-chat/internal/workers/chat/compose-reply"
	hcm "facility-chat/internal/workers/chat/handle-chat-message"
	qfd "facility-chat/internal/workers/chat/query-facility-data"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// backends holds the clients opened for the configured data source and store.
type backends struct {
	pg      *database.PostgresClient
	es      *database.ElasticsearchClient
	redis   *database.RedisClient
	probers []connection.Prober
}

func (b *backends) close() {
	if b.pg != nil {
		_ = b.pg.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

func openBackends(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (*backends, error) {
	b := &backends{}

	if cfg.Chat.DataSource == config.DataSourceWarehouse {
		err := retryWithBackoff(func() error {
			var err error
			b.pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return b.pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return b, err
		}
		b.probers = append(b.probers, b.pg)
		zapLog.Info("PostgreSQL connected successfully")
	}

	if cfg.Chat.DataSource == config.DataSourceSearch {
		err := retryWithBackoff(func() error {
			var err error
			b.es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return b.es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			return b, err
		}
		b.probers = append(b.probers, b.es)
		zapLog.Info("Elasticsearch connected successfully")
	}

	if cfg.Chat.Store == config.StoreRedis || cfg.Chat.CacheTTL > 0 {
		err := retryWithBackoff(func() error {
			var err error
			b.redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return b.redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			return b, err
		}
		b.probers = append(b.probers, b.redis)
		zapLog.Info("Redis connected successfully")
	}

	return b, nil
}

func buildOrchestrator(cfg *config.Config, b *backends, gw gateway.Gateway, obs *observability.Observability, log logger.Logger) (*orchestrator.Orchestrator, history.Store) {
	var (
		hist  history.Store
		store connection.Store
	)
	if cfg.Chat.Store == config.StoreRedis {
		hist = history.NewRedisStore(b.redis.Client)
		store = connection.NewRedisStore(b.redis.Client, config.GetDuration(cfg.Server.SessionTTL))
	} else {
		hist = history.NewMemoryStore()
		store = connection.NewMemoryStore()
	}

	var connector connection.Connector
	if cfg.Chat.Connector == config.ConnectorKeycloak {
		kc := cfg.Auth.Keycloak
		connector = connection.NewKeycloakConnector(auth.NewKeycloakClient(
			kc.URL, kc.Realm, kc.ClientID, kc.ClientSecret, config.GetDuration(kc.Timeout),
		))
	} else {
		connector = connection.NewProbeConnector(b.probers...)
	}

	opts := []orchestrator.Option{
		orchestrator.WithHistory(hist),
		orchestrator.WithConnector(connector),
		orchestrator.WithConnectionStore(store),
		orchestrator.WithLogger(log),
		orchestrator.WithObservability(obs),
		orchestrator.WithFetchTimeout(config.GetDuration(cfg.Chat.FetchTimeout)),
	}
	if cfg.Chat.SerializeSessions {
		opts = append(opts, orchestrator.WithSerializedSessions())
	}

	orch := orchestrator.New(
		intent.New(intent.DefaultRules()...),
		compose.New(cfg.Chat.SourceName),
		gw,
		opts...,
	)
	return orch, hist
}

func workerTimeout(cfg *config.Config, taskType string, fallback time.Duration) time.Duration {
	if ms := config.GetWorkerConfig(cfg, taskType).Timeout; ms > 0 {
		return config.GetDuration(ms)
	}
	return fallback
}

func startWorkers(ctx context.Context, cfg *config.Config, orch *orchestrator.Orchestrator, gw gateway.Gateway, log logger.Logger, zapLog *zap.Logger) (*camunda.Client, camunda.Workers, error) {
	client, err := camunda.NewClient(ctx, camunda.ConfigFrom(cfg.Camunda))
	if err != nil {
		return nil, nil, err
	}
	zapLog.Info("Zeebe client connected successfully")

	zc := client.GetClient()
	var workers camunda.Workers

	ciCfg := ci.LoadConfig()
	ciCfg.Timeout = workerTimeout(cfg, ci.TaskType, ciCfg.Timeout)
	workers.Add(camunda.StartWorker(zc, ci.TaskType, config.GetWorkerConfig(cfg, ci.TaskType),
		ci.NewHandler(ciCfg, intent.New(intent.DefaultRules()...), log), zapLog))

	qfdCfg := qfd.LoadConfig()
	qfdCfg.Timeout = workerTimeout(cfg, qfd.TaskType, qfdCfg.Timeout)
	workers.Add(camunda.StartWorker(zc, qfd.TaskType, config.GetWorkerConfig(cfg, qfd.TaskType),
		qfd.NewHandler(qfdCfg, gw, log), zapLog))

	crCfg := cr.LoadConfig()
	crCfg.Timeout = workerTimeout(cfg, cr.TaskType, crCfg.Timeout)
	workers.Add(camunda.StartWorker(zc, cr.TaskType, config.GetWorkerConfig(cfg, cr.TaskType),
		cr.NewHandler(crCfg, compose.New(cfg.Chat.SourceName), log), zapLog))

	hcmCfg := hcm.LoadConfig()
	hcmCfg.Timeout = workerTimeout(cfg, hcm.TaskType, hcmCfg.Timeout)
	workers.Add(camunda.StartWorker(zc, hcm.TaskType, config.GetWorkerConfig(cfg, hcm.TaskType),
		hcm.NewHandler(hcmCfg, orch, log), zapLog))

	return client, workers, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting facility chat...",
		zap.String("dataSource", cfg.Chat.DataSource),
		zap.String("connector", cfg.Chat.Connector),
		zap.String("store", cfg.Chat.Store),
	)

	obs, err := observability.New(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint)
	if err != nil {
		zapLog.Warn("observability partially initialized", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackends(ctx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("backend initialization failed", zap.Error(err))
	}
	defer b.close()

	deps := gateway.Deps{
		HTTP:   httpclient.NewClient(config.GetDuration(cfg.Remote.Timeout)),
		Logger: log,
	}
	if b.pg != nil {
		deps.DB = b.pg.DB
	}
	if b.es != nil {
		deps.Search = b.es.Client
	}
	if b.redis != nil {
		deps.Redis = b.redis.Client
	}
	gw, err := gateway.New(cfg, deps)
	if err != nil {
		zapLog.Fatal("gateway initialization failed", zap.Error(err))
	}

	orch, hist := buildOrchestrator(cfg, b, gw, obs, log)

	probers := b.probers
	var workers camunda.Workers
	if cfg.Camunda.Enabled {
		client, started, err := startWorkers(ctx, cfg, orch, gw, log, zapLog)
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer client.Close()
		workers = started
		probers = append(probers, client)
	}

	srv := server.New(server.NewConfig(cfg), orch, hist, log, probers...)

	if cfg.NATS.URL != "" {
		nt, err := transport.NewNATSTransport(cfg.NATS, cfg.App.Name, orch, srv.Sessions(), log)
		if err != nil {
			zapLog.Fatal("nats initialization failed", zap.Error(err))
		}
		if err := nt.Start(); err != nil {
			zapLog.Fatal("nats subscribe failed", zap.Error(err))
		}
		defer nt.Close()
	}

	if err := srv.Run(ctx, cfg.Server.Addr()); err != nil {
		zapLog.Error("http server failed", zap.Error(err))
	}

	zapLog.Info("Shutdown signal received, stopping workers...")
	workers.Close(30 * time.Second)
	zapLog.Info("Facility chat stopped gracefully")
}
