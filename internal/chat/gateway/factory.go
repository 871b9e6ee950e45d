package gateway

import (
	"database/sql"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"

	"facility-chat/internal/common/config"
	httpclient "facility-chat/internal/common/http"
	"facility-chat/internal/common/logger"
)

// Deps carries the already-open clients a source may need. Only the client
// for the configured source has to be set.
type Deps struct {
	DB     *sql.DB
	Search *elasticsearch.Client
	Redis  *redis.Client
	HTTP   *httpclient.Client
	Logger logger.Logger
}

// New builds the gateway selected by chat.data_source, wrapped with the
// Redis cache when chat.cache_ttl is set and with fetch metrics.
func New(cfg *config.Config, deps Deps) (Gateway, error) {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	var gw Gateway
	source := cfg.Chat.DataSource
	switch source {
	case config.DataSourceSample:
		gw = NewSampleGateway(cfg.Server.DataDir)
	case config.DataSourceWarehouse:
		if deps.DB == nil {
			return nil, fmt.Errorf("warehouse data source requires a database connection")
		}
		gw = NewWarehouseGateway(deps.DB, config.GetDuration(cfg.Database.Postgres.QueryTimeout))
	case config.DataSourceSearch:
		if deps.Search == nil {
			return nil, fmt.Errorf("search data source requires an elasticsearch client")
		}
		gw = NewSearchGateway(deps.Search, cfg.Database.Elasticsearch.IndexPrefix)
	case config.DataSourceRemote:
		client := deps.HTTP
		if client == nil {
			client = httpclient.NewClient(config.GetDuration(cfg.Remote.Timeout))
		}
		gw = NewRemoteGateway(cfg.Remote.BaseURL, client)
	default:
		return nil, fmt.Errorf("unsupported data source %q", source)
	}

	if cfg.Chat.CacheTTL > 0 {
		if deps.Redis == nil {
			return nil, fmt.Errorf("chat.cache_ttl requires a redis client")
		}
		gw = NewCachedGateway(gw, deps.Redis, config.GetDuration(cfg.Chat.CacheTTL), log)
	}

	log.Info("data gateway ready", map[string]interface{}{
		"source":  source,
		"cached":  cfg.Chat.CacheTTL > 0,
		"dataDir": cfg.Server.DataDir,
	})
	return NewInstrumented(source, gw), nil
}
