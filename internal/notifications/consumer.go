package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mergington/internal/shared/config"
	"mergington/internal/shared/metrics"
	"mergington/pkg/logger"

	"github.com/IBM/sarama"
)

// EventHandler processes one decoded participation event
type EventHandler func(ctx context.Context, event *ParticipationEvent) error

type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeout       time.Duration
	Heartbeat            time.Duration
	OffsetOldest         bool
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              []string{"localhost:9092"},
		GroupID:              "mergington-participation-audit",
		Topics:               []string{"activity-participation"},
		SessionTimeout:       30 * time.Second,
		Heartbeat:            3 * time.Second,
		OffsetOldest:         true,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
	}
}

// ConsumerConfigFrom maps application config onto consumer defaults
func ConsumerConfigFrom(cfg config.KafkaConfig) *ConsumerConfig {
	cc := DefaultConsumerConfig()
	if len(cfg.Brokers) > 0 {
		cc.Brokers = cfg.Brokers
	}
	if cfg.Topic != "" {
		cc.Topics = []string{cfg.Topic}
	}
	if cfg.ConsumerGroupID != "" {
		cc.GroupID = cfg.ConsumerGroupID
	}
	if cfg.RetryMax > 0 {
		cc.MaxRetries = cfg.RetryMax
	}
	return cc
}

// ParticipationConsumer reads participation events from Kafka and hands
// each one to an EventHandler
type ParticipationConsumer struct {
	group   sarama.ConsumerGroup
	config  *ConsumerConfig
	handler EventHandler
	log     *logger.Logger
}

func NewParticipationConsumer(cfg *ConsumerConfig, handler EventHandler, log *logger.Logger) (*ParticipationConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = cfg.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = cfg.Heartbeat
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	if cfg.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return NewParticipationConsumerWithGroup(group, cfg, handler, log), nil
}

// NewParticipationConsumerWithGroup wraps an existing consumer group
func NewParticipationConsumerWithGroup(group sarama.ConsumerGroup, cfg *ConsumerConfig, handler EventHandler, log *logger.Logger) *ParticipationConsumer {
	if log == nil {
		log = logger.GetDefault()
	}
	return &ParticipationConsumer{
		group:   group,
		config:  cfg,
		handler: handler,
		log:     log,
	}
}

// Run consumes until ctx is cancelled. Rebalances restart the session.
func (pc *ParticipationConsumer) Run(ctx context.Context) error {
	pc.log.Info("📥 Starting participation consumer", "topics", pc.config.Topics, "group", pc.config.GroupID)

	go pc.handleErrors()

	handler := &consumerGroupHandler{
		handler: pc.handler,
		config:  pc.config,
		log:     pc.log,
	}

	for {
		if err := pc.group.Consume(ctx, pc.config.Topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			pc.log.Error("📥 Error consuming participation events", "error", err)

			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return nil
			}
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func (pc *ParticipationConsumer) handleErrors() {
	for err := range pc.group.Errors() {
		pc.log.Error("📥 Consumer group error", "error", err)
	}
}

func (pc *ParticipationConsumer) Close() error {
	if err := pc.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	pc.log.Info("📥 Participation consumer stopped")
	return nil
}

type consumerGroupHandler struct {
	handler EventHandler
	config  *ConsumerConfig
	log     *logger.Logger
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	h.log.Debug("📥 Consumer group session started")
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	h.log.Debug("📥 Consumer group session ended")
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}

			if err := h.processMessage(session.Context(), message); err != nil {
				// Leave the offset uncommitted so the next session redelivers it
				if session.Context().Err() != nil || errors.Is(err, context.Canceled) {
					return nil
				}
				h.log.Error("📥 Failed to process participation event",
					"error", err,
					"partition", message.Partition,
					"offset", message.Offset,
				)
			}
			// Undecodable and exhausted messages are skipped
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *consumerGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	event, err := ParticipationEventFromJSON(message.Value)
	if err != nil {
		metrics.ParticipationEventsConsumed.WithLabelValues("invalid").Inc()
		return fmt.Errorf("failed to unmarshal participation event: %w", err)
	}

	if err := h.executeWithRetry(ctx, event); err != nil {
		if ctx.Err() != nil {
			metrics.ParticipationEventsConsumed.WithLabelValues("interrupted").Inc()
		} else {
			metrics.ParticipationEventsConsumed.WithLabelValues("failed").Inc()
		}
		return err
	}

	metrics.ParticipationEventsConsumed.WithLabelValues(string(event.Type)).Inc()
	return nil
}

func (h *consumerGroupHandler) executeWithRetry(ctx context.Context, event *ParticipationEvent) error {
	maxRetries := h.config.MaxRetries
	backoff := h.config.RetryBackoffDuration

	for attempt := 0; ; attempt++ {
		err := h.handler(ctx, event)
		if err == nil {
			return nil
		}

		if attempt >= maxRetries {
			return fmt.Errorf("handler failed after %d attempts: %w", attempt+1, err)
		}

		// Exponential backoff
		delay := backoff * time.Duration(1<<attempt)
		h.log.Warn("📥 Retrying participation event", "event_id", event.ID, "attempt", attempt+1, "delay", delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
