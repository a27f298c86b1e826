package infra

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// FeedWriter publishes change events to the change-feed topic. When Kafka
// is disabled it degrades to a no-op so the relay can run without a broker.
type FeedWriter struct {
	writer  *kafka.Writer
	logger  *slog.Logger
	enabled bool
}

// NewFeedWriter creates a writer bound to one topic. Messages are keyed by
// aggregate ID and hashed to a partition, so every change to an entity
// stays ordered.
func NewFeedWriter(brokers, topic string, enabled bool, logger *slog.Logger) *FeedWriter {
	if !enabled || brokers == "" {
		logger.Info("change feed publishing disabled")
		return &FeedWriter{enabled: false, logger: logger}
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("change feed writer initialized", "brokers", brokers, "topic", topic)
	return &FeedWriter{writer: w, logger: logger, enabled: true}
}

// Publish sends one change event under the given aggregate key. No-op if
// disabled.
func (w *FeedWriter) Publish(ctx context.Context, key, value []byte) error {
	if !w.enabled {
		return nil
	}

	return w.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
}

// Close shuts down the underlying writer.
func (w *FeedWriter) Close() error {
	if w.writer != nil {
		return w.writer.Close()
	}
	return nil
}

// FeedReader consumes the change-feed topic within a consumer group.
type FeedReader struct {
	reader  *kafka.Reader
	logger  *slog.Logger
	enabled bool
}

// NewFeedReader creates a reader for the change-feed topic.
func NewFeedReader(brokers, topic, groupID string, enabled bool, logger *slog.Logger) *FeedReader {
	if !enabled || brokers == "" {
		return &FeedReader{enabled: false, logger: logger}
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  strings.Split(brokers, ","),
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})

	return &FeedReader{reader: r, logger: logger, enabled: true}
}

// Next blocks until the next change event arrives. A disabled reader
// blocks until ctx is cancelled.
func (r *FeedReader) Next(ctx context.Context) (kafka.Message, error) {
	if !r.enabled {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	return r.reader.ReadMessage(ctx)
}

// Close shuts down the underlying reader.
func (r *FeedReader) Close() error {
	if r.reader != nil {
		return r.reader.Close()
	}
	return nil
}
