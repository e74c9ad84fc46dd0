package notifications

import (
	"context"
	"fmt"
	"time"

	"cinebook/pkg/logger"

	"github.com/IBM/sarama"
)

// Publisher is the event-publishing contract the booking orchestrator uses.
// Publishing is best effort: callers log failures and move on, a lost event
// never fails a booking.
type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, event *BookingConfirmedEvent) error
	PublishRefundRequired(ctx context.Context, event *RefundRequiredEvent) error
	Close() error
}

// ProducerConfig contains configuration for the Kafka event producer
type ProducerConfig struct {
	Brokers             []string
	BookingTopic        string
	ReconciliationTopic string
	RetryMax            int
	TimeoutMs           int
}

// DefaultProducerConfig returns a default producer configuration
func DefaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		Brokers:             []string{"localhost:9092"},
		BookingTopic:        "booking.confirmed",
		ReconciliationTopic: "payment.reconciliation",
		RetryMax:            3,
		TimeoutMs:           10000,
	}
}

// KafkaPublisher publishes booking lifecycle events to Kafka
type KafkaPublisher struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
	log      *logger.Logger
}

// NewKafkaPublisher creates a Kafka publisher with a synchronous producer.
// Reconciliation events must not be lost, so the producer waits for all
// in-sync replicas and writes idempotently.
func NewKafkaPublisher(config *ProducerConfig) (*KafkaPublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaPublisher{
		producer: producer,
		config:   config,
		log:      logger.GetDefault(),
	}, nil
}

func (p *KafkaPublisher) PublishBookingConfirmed(ctx context.Context, event *BookingConfirmedEvent) error {
	payload, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.BookingTopic,
		Key:       sarama.StringEncoder(event.UserID),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: event.ConfirmedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}

	p.log.Debug("booking event published",
		"topic", p.config.BookingTopic,
		"partition", partition,
		"offset", offset,
		"booking_ref", event.BookingRef,
	)
	return nil
}

func (p *KafkaPublisher) PublishRefundRequired(ctx context.Context, event *RefundRequiredEvent) error {
	payload, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal reconciliation event: %w", err)
	}

	// Keyed by transaction so retries for the same charge stay in order
	message := &sarama.ProducerMessage{
		Topic:     p.config.ReconciliationTopic,
		Key:       sarama.StringEncoder(event.TransactionID),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish reconciliation event: %w", err)
	}

	p.log.Info("reconciliation event published",
		"topic", p.config.ReconciliationTopic,
		"partition", partition,
		"offset", offset,
		"transaction_id", event.TransactionID,
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher is used when Kafka is disabled. Events are logged and
// dropped.
type NoopPublisher struct {
	log *logger.Logger
}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{log: logger.GetDefault()}
}

func (p *NoopPublisher) PublishBookingConfirmed(ctx context.Context, event *BookingConfirmedEvent) error {
	p.log.Debug("kafka disabled, dropping booking event", "booking_ref", event.BookingRef)
	return nil
}

func (p *NoopPublisher) PublishRefundRequired(ctx context.Context, event *RefundRequiredEvent) error {
	p.log.Warn("kafka disabled, refund-required event only logged",
		"transaction_id", event.TransactionID,
		"amount", event.Amount,
		"cause", event.Cause,
	)
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}
