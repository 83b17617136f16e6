package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/sports-parlay-engine/pkg/contracts/events"
	"github.com/radieske/sports-parlay-engine/pkg/contracts/topics"
)

// RedisCache guarda os parlays da última execução de cada esporte
// Client: cliente Redis
// TTL: tempo de expiração dos registros
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisCache cria uma instância de cache Redis com TTL configurável
func NewRedisCache(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: c, TTL: ttl}
}

// SetLatest substitui a lista de parlays mais recentes do esporte
func (r *RedisCache) SetLatest(ctx context.Context, sport string, parlays []events.ParlayBuilt) error {
	b, err := json.Marshal(parlays)
	if err != nil {
		return fmt.Errorf("marshal latest parlays: %w", err)
	}
	return r.Client.Set(ctx, topics.LatestKey(sport), b, r.TTL).Err()
}
