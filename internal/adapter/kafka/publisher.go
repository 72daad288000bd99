package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/weather-news-service/internal/config"
	"github.com/couchcryptid/weather-news-service/internal/domain"
)

// Publisher produces generated articles to a Kafka topic.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured news topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaNewsTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes and writes one article, keyed by its ID.
func (p *Publisher) Publish(ctx context.Context, article domain.Article) error {
	msg, err := serializeToMessage(article)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish article %s: %w", article.ID, err)
	}
	p.logger.Debug("article published", "id", article.ID, "topic", p.writer.Topic)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an Article into a Kafka message.
func serializeToMessage(article domain.Article) (kafkago.Message, error) {
	data, err := json.Marshal(article)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize article: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(article.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "target_date", Value: []byte(article.Date.Format(time.DateOnly))},
			{Key: "generated_at", Value: []byte(article.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
