// Package kafka hosts the franz-go producer used to mirror audit events onto a
// topic for downstream consumers. The badge backend never consumes; Kafka is an
// optional sink and the audit store remains the local source of truth.
package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"gatepass/internal/platform/config"
)

// Publisher produces audit payloads to a single topic.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewPublisher connects to the configured brokers and ensures the audit topic
// exists. Returns nil if no brokers are configured (Kafka disabled).
func NewPublisher(ctx context.Context, cfg config.KafkaConfig, logger *slog.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.AuditTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	// Best-effort topic creation; already-exists responses are fine.
	adm := kadm.NewClient(client)
	if _, err := adm.CreateTopics(ctx, 1, 1, nil, cfg.AuditTopic); err != nil {
		client.Close()
		return nil, fmt.Errorf("ensure audit topic: %w", err)
	}

	return &Publisher{client: client, topic: cfg.AuditTopic, logger: logger}, nil
}

// Publish produces a single record asynchronously. Delivery failures are logged
// rather than surfaced: audit mirroring must never fail a badge operation.
func (p *Publisher) Publish(ctx context.Context, key string, value []byte) {
	record := &kgo.Record{Topic: p.topic, Key: []byte(key), Value: value}
	p.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("audit event publish failed",
				"topic", p.topic,
				"key", key,
				"error", err,
			)
		}
	})
}

// Close flushes buffered records and releases the client.
func (p *Publisher) Close() {
	p.client.Close()
}
