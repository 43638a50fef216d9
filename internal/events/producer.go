package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicCart    = "cart_events"
	TopicPayment = "payment_events"

	publishTimeout = 5 * time.Second
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
			WriteTimeout:           publishTimeout,
		},
	}
}

func newMessage(topic, key string, event any) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
	}, nil
}

func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event any) error {
	msg, err := newMessage(topic, key, event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) PublishEvent(context.Context, string, string, any) error { return nil }

func (Nop) Close() error { return nil }
