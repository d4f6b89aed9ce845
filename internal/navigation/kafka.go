package navigation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
)

// messageReader is the subset of *kafka.Reader the source needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSource consumes JSON-encoded navigation events from a topic.
type KafkaSource struct {
	reader  messageReader
	topic   string
	backoff backoff.BackOff
}

// NewKafkaSource creates a consumer-group reader for topic.
func NewKafkaSource(brokers []string, topic, groupID string) *KafkaSource {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newKafkaSource(reader, topic)
}

func newKafkaSource(reader messageReader, topic string) *KafkaSource {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 500 * time.Millisecond
	exp.MaxInterval = 30 * time.Second
	exp.MaxElapsedTime = 0
	return &KafkaSource{reader: reader, topic: topic, backoff: exp}
}

// Run fetches messages until ctx is cancelled. Every message is committed once handled,
// including ones that cannot be decoded, so a bad message never blocks the partition.
func (s *KafkaSource) Run(ctx context.Context, handler Handler) error {
	slog.Info("Started consuming navigation events", "topic", s.topic)
	defer func() {
		if err := s.reader.Close(); err != nil {
			slog.Error("Failed to close kafka reader", "error", err, "topic", s.topic)
		}
	}()

	for {
		m, err := s.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("Stopped consuming navigation events", "topic", s.topic)
				return nil
			}
			wait := s.backoff.NextBackOff()
			slog.Error("Error fetching kafka message", "error", err, "topic", s.topic, "retry_in", wait)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
			continue
		}
		s.backoff.Reset()

		event, err := DecodeEvent(m.Value)
		if err != nil {
			slog.Error("Failed to decode navigation event",
				"error", err,
				"topic", s.topic,
				"partition", m.Partition,
				"offset", m.Offset,
			)
		} else {
			handler.HandleEvent(ctx, event)
		}

		if err := s.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			slog.Error("Failed to commit message", "error", err, "topic", s.topic, "offset", m.Offset)
		}
	}
}

// DecodeEvent parses a JSON navigation event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return Event{}, fmt.Errorf("invalid navigation event: %w", err)
	}
	return event, nil
}
