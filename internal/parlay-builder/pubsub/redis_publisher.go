package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisBroadcaster struct {
	r       *redis.Client
	channel string
}

func NewRedisBroadcaster(r *redis.Client, channel string) *RedisBroadcaster {
	return &RedisBroadcaster{r: r, channel: channel}
}

// Broadcast publica o payload no canal consumido pelo ws do parlay-service
func (b *RedisBroadcaster) Broadcast(ctx context.Context, sport string, payload any) error {
	msg, err := json.Marshal(WSUpdate{Sport: sport, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal ws update: %w", err)
	}
	return b.r.Publish(ctx, b.channel, msg).Err()
}

// Payload padrão para o WS do parlay-service
type WSUpdate struct {
	Sport   string `json:"sport"`
	Payload any    `json:"payload"`
}
