package ws

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StartRedisSubscriber escuta o canal de broadcast do parlay-builder
// e repassa cada atualização ao Hub até o contexto ser cancelado
func StartRedisSubscriber(ctx context.Context, r *redis.Client, channel string, hub *Hub, log *zap.Logger) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if msg == nil {
					continue
				}
				dispatch(hub, []byte(msg.Payload), log)
			}
		}
	}()
}

func dispatch(hub *Hub, payload []byte, log *zap.Logger) {
	var upd ParlayUpdate
	if err := json.Unmarshal(payload, &upd); err != nil {
		log.Warn("ws subscriber unmarshal error", zap.Error(err))
		return
	}
	upd.Sport = strings.ToLower(upd.Sport)
	hub.Broadcast(upd)
}
