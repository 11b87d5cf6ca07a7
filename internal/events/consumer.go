package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

// Broadcaster receives message events read off the stream.
type Broadcaster interface {
	Publish(msg models.Message)
}

type Consumer struct {
	reader   *kafka.Reader
	instance string
	log      *zap.SugaredLogger
}

func NewConsumer(brokers []string, topic, groupID, instanceID string, log *zap.SugaredLogger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	return &Consumer{reader: r, instance: instanceID, log: log}
}

// Run reads message.sent events and feeds them into the broadcaster until
// ctx is cancelled.
func (c *Consumer) Run(ctx context.Context, b Broadcaster) {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Errorw("kafka read", "err", err)
			time.Sleep(time.Second)
			continue
		}
		msg, ok := c.decode(m)
		if !ok {
			continue
		}
		b.Publish(msg)
	}
}

// decode unwraps a stream record. Events this instance produced already
// went through the local hub at insert time and are dropped here.
func (c *Consumer) decode(m kafka.Message) (models.Message, bool) {
	for _, h := range m.Headers {
		if h.Key == originHeader && string(h.Value) == c.instance {
			return models.Message{}, false
		}
	}
	var msg models.Message
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		c.log.Errorw("kafka event decode", "err", err)
		return models.Message{}, false
	}
	return msg, true
}

func (c *Consumer) Close() error { return c.reader.Close() }
