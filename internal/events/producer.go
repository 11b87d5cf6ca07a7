package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

// originHeader carries the producing instance's id so that instance can
// skip its own events on the way back in.
const originHeader = "origin"

// Producer publishes message.sent events so other instances (and any
// downstream consumer) see every confirmed insert.
type Producer struct {
	writer   *kafka.Writer
	instance string
}

func NewProducer(brokers []string, topic, instanceID string) *Producer {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &Producer{writer: w, instance: instanceID}
}

func (p *Producer) PublishMessageSent(ctx context.Context, msg *models.Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(msg.ConversationID),
		Value:   b,
		Time:    time.Now(),
		Headers: []kafka.Header{{Key: originHeader, Value: []byte(p.instance)}},
	})
}

func (p *Producer) Close() error { return p.writer.Close() }
