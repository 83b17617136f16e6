package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/sports-parlay-engine/pkg/contracts/events"
	"github.com/radieske/sports-parlay-engine/pkg/contracts/topics"
)

// Cache lê a chave parlays:latest:{sport} escrita pelo parlay-builder
type Cache struct {
	R   *redis.Client
	TTL time.Duration
}

func New(r *redis.Client, ttl time.Duration) *Cache { return &Cache{R: r, TTL: ttl} }

func (c *Cache) GetLatest(ctx context.Context, sport string) ([]events.ParlayBuilt, bool, error) {
	b, err := c.R.Get(ctx, topics.LatestKey(sport)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out []events.ParlayBuilt
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// SetLatest repopula a chave após um cache miss
func (c *Cache) SetLatest(ctx context.Context, sport string, parlays []events.ParlayBuilt) error {
	b, err := json.Marshal(parlays)
	if err != nil {
		return err
	}
	return c.R.Set(ctx, topics.LatestKey(sport), b, c.TTL).Err()
}
