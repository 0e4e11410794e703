package notifications

import (
	"context"
	"fmt"
	"time"

	"mergington/internal/shared/config"
	"mergington/internal/shared/constants"
	"mergington/pkg/logger"

	"github.com/IBM/sarama"
)

// Publisher delivers participation events to downstream consumers
type Publisher interface {
	Publish(ctx context.Context, event *ParticipationEvent) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka participation producer
type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	ClientID         string
	RetryMax         int
	Timeout          time.Duration
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "activity-participation",
		ClientID:         constants.EVENT_SOURCE,
		RetryMax:         3,
		Timeout:          10 * time.Second,
		RequiredAcks:     sarama.WaitForAll, // Wait for all in-sync replicas
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

// KafkaProducerConfigFrom maps application config onto producer defaults
func KafkaProducerConfigFrom(cfg config.KafkaConfig) *KafkaProducerConfig {
	pc := DefaultKafkaProducerConfig()
	if len(cfg.Brokers) > 0 {
		pc.Brokers = cfg.Brokers
	}
	if cfg.Topic != "" {
		pc.Topic = cfg.Topic
	}
	if cfg.ClientID != "" {
		pc.ClientID = cfg.ClientID
	}
	if cfg.RetryMax > 0 {
		pc.RetryMax = cfg.RetryMax
	}
	if cfg.Timeout > 0 {
		pc.Timeout = cfg.Timeout
	}
	return pc
}

// NewSaramaConfig builds the sarama settings for a synchronous producer
func (c *KafkaProducerConfig) NewSaramaConfig() *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = c.ClientID

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = c.RequiredAcks
	saramaConfig.Producer.Compression = c.CompressionType
	saramaConfig.Producer.Retry.Max = c.RetryMax
	saramaConfig.Producer.Timeout = c.Timeout
	saramaConfig.Producer.Idempotent = c.IdempotentWrites

	// Idempotent producers require a single in-flight request
	if c.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	return saramaConfig
}

// KafkaPublisher publishes participation events to a Kafka topic
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafkaPublisher dials the brokers and returns a ready publisher
func NewKafkaPublisher(cfg *KafkaProducerConfig, log *logger.Logger) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, cfg.NewSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Info("📤 Kafka participation producer created", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return NewKafkaPublisherWithProducer(producer, cfg.Topic, log), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		log:      log,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *ParticipationEvent) error {
	payload, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal participation event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.GetPartitionKey()),
		Value:     sarama.ByteEncoder(payload),
		Headers:   createHeaders(event),
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send participation event to Kafka: %w", err)
	}

	p.log.DebugContext(ctx, "📤 Participation event published",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"type", string(event.Type),
		"activity", event.Activity,
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

func createHeaders(event *ParticipationEvent) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte(constants.HEADER_EVENT_TYPE), Value: []byte(event.Type)},
		{Key: []byte(constants.HEADER_EVENT_ID), Value: []byte(event.ID.String())},
		{Key: []byte(constants.HEADER_SOURCE), Value: []byte(constants.EVENT_SOURCE)},
	}
}

// NoopPublisher drops events; used when Kafka is disabled
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *ParticipationEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }

// NewPublisher returns a Kafka publisher when enabled, otherwise a NoopPublisher.
// A broker that cannot be reached degrades to the NoopPublisher.
func NewPublisher(cfg config.KafkaConfig, log *logger.Logger) Publisher {
	if !cfg.Enabled {
		log.Info("Kafka disabled, participation events will not be published")
		return NoopPublisher{}
	}

	publisher, err := NewKafkaPublisher(KafkaProducerConfigFrom(cfg), log)
	if err != nil {
		log.Error("Failed to initialize Kafka publisher, continuing without events", "error", err)
		return NoopPublisher{}
	}
	return publisher
}
