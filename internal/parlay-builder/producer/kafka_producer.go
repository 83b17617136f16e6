package producer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	skafka "github.com/radieske/sports-parlay-engine/internal/shared/kafka"
	"github.com/radieske/sports-parlay-engine/pkg/contracts/events"
)

type KafkaPublisher struct {
	Writer *kafka.Writer
	Topic  string
}

func NewKafkaPublisher(w *kafka.Writer, topic string) *KafkaPublisher {
	return &KafkaPublisher{Writer: w, Topic: topic}
}

// PublishParlays envia um evento parlay_built por parlay, numa única escrita;
// a chave é o esporte para manter a ordem dentro de uma partição
func (p *KafkaPublisher) PublishParlays(ctx context.Context, parlays []events.ParlayBuilt) error {
	if len(parlays) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(parlays))
	for _, e := range parlays {
		b, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal parlay_built %s: %w", e.ParlayID, err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(e.Sport), Value: b})
	}
	return skafka.WriteBatch(ctx, p.Writer, msgs)
}
