package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// HeaderEventType carries Event.Type so consumers can route without decoding.
const HeaderEventType = "event-type"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes events to any topic; the topic is chosen per message.
type Producer struct {
	brokers []string
	writer  messageWriter
	backoff time.Duration
	log     *slog.Logger
}

func NewProducer(brokers []string, log *slog.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
		backoff: 500 * time.Millisecond,
		log:     log,
	}
}

// Publish keys the message by key, so events for one booking or flight
// keep their order within a partition.
func (p *Producer) Publish(ctx context.Context, topic, key string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	message := kafka.Message{
		Topic:   topic,
		Key:     []byte(key),
		Value:   data,
		Time:    event.OccurredAt,
		Headers: []kafka.Header{{Key: HeaderEventType, Value: []byte(event.Type)}},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("write %s event to %s: %w", event.Type, topic, err)
	}

	p.log.Debug("event published",
		slog.String("topic", topic),
		slog.String("type", event.Type),
		slog.String("event_id", event.ID),
	)
	return nil
}

// PublishWithRetry tries up to attempts times with a linearly growing pause.
func (p *Producer) PublishWithRetry(ctx context.Context, topic, key string, event Event, attempts int) error {
	var lastErr error

	for i := 0; i < attempts; i++ {
		err := p.Publish(ctx, topic, key, event)
		if err == nil {
			return nil
		}

		lastErr = err
		p.log.Warn("event publish failed",
			slog.Int("attempt", i+1),
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()),
		)

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i+1) * p.backoff):
			}
		}
	}

	return fmt.Errorf("publish %s after %d attempts: %w", event.ID, attempts, lastErr)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// CheckConnection dials the first broker and lists partitions.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("dial kafka: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("read partitions: %w", err)
	}

	p.log.Info("connected to kafka", slog.Int("partitions", len(partitions)))
	return nil
}
