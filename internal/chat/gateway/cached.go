package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "facility-chat/internal/common/errors"
	"facility-chat/internal/common/logger"
	"facility-chat/internal/common/metrics"
	"facility-chat/internal/models"
)

const cacheKeyPrefix = "facility:data:"

// CachedGateway keeps successful fetches in Redis for ttl. Cache failures
// are logged and the inner gateway answers instead.
type CachedGateway struct {
	inner  Gateway
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedGateway(inner Gateway, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedGateway {
	return &CachedGateway{
		inner:  inner,
		redis:  client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "fetch-cache"}),
	}
}

// CacheKey identifies one domain and window, e.g. facility:data:work_orders:7d.
func CacheKey(domain models.DomainTag, opts FetchOptions) string {
	window := "all"
	if days := windowDays(domain, opts); days > 0 {
		window = fmt.Sprintf("%dd", days)
	}
	return cacheKeyPrefix + string(domain) + ":" + window
}

func (g *CachedGateway) Fetch(ctx context.Context, domain models.DomainTag, opts FetchOptions) (*models.DomainData, error) {
	key := CacheKey(domain, opts)

	val, err := g.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var data models.DomainData
		if jsonErr := json.Unmarshal(val, &data); jsonErr == nil && data.Domain == domain {
			metrics.DataCacheTotal.WithLabelValues("hit").Inc()
			return &data, nil
		}
		metrics.DataCacheTotal.WithLabelValues("corrupt").Inc()
	case errors.Is(err, redis.Nil):
		metrics.DataCacheTotal.WithLabelValues("miss").Inc()
	default:
		metrics.DataCacheTotal.WithLabelValues("error").Inc()
		g.logger.Warn("cache read failed", map[string]interface{}{
			"key":   key,
			"error": apperrors.NewCacheFailedError("get", err).Details,
		})
	}

	data, err := g.inner.Fetch(ctx, domain, opts)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return data, nil
	}
	if err := g.redis.Set(ctx, key, payload, g.ttl).Err(); err != nil {
		g.logger.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"error": apperrors.NewCacheFailedError("set", err).Details,
		})
	}
	return data, nil
}
