package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cinebook/pkg/logger"

	"github.com/IBM/sarama"
)

// ReconciliationConsumer drains the payment.reconciliation topic and logs
// every refund-required charge for operator follow-up. Refund execution is
// manual; this consumer only makes sure nothing captured is ever silent.
type ReconciliationConsumer struct {
	consumerGroup sarama.ConsumerGroup
	topics        []string
	log           *logger.Logger
	cancel        context.CancelFunc
}

// ConsumerConfig contains configuration for the reconciliation consumer
type ConsumerConfig struct {
	Brokers          []string
	GroupID          string
	Topics           []string
	SessionTimeoutMs int
	HeartbeatMs      int
}

// DefaultConsumerConfig returns a default consumer configuration
func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:          []string{"localhost:9092"},
		GroupID:          "cinebook-reconciliation-workers",
		Topics:           []string{"payment.reconciliation"},
		SessionTimeoutMs: 30000,
		HeartbeatMs:      3000,
	}
}

func NewReconciliationConsumer(config *ConsumerConfig) (*ReconciliationConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Return.Errors = true
	// Replay from the oldest offset so refunds queued while the consumer
	// was down are still surfaced
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &ReconciliationConsumer{
		consumerGroup: consumerGroup,
		topics:        config.Topics,
		log:           logger.GetDefault(),
	}, nil
}

// Start runs the consumer loop until the context is cancelled.
func (c *ReconciliationConsumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go c.handleErrors()
	go func() {
		handler := &reconciliationHandler{log: c.log}
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if err := c.consumerGroup.Consume(ctx, c.topics, handler); err != nil {
					c.log.Error("reconciliation consume error", "error", err)
					time.Sleep(time.Second)
				}
			}
		}
	}()
	return nil
}

func (c *ReconciliationConsumer) handleErrors() {
	for err := range c.consumerGroup.Errors() {
		c.log.Error("reconciliation consumer group error", "error", err)
	}
}

func (c *ReconciliationConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	if err := c.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type reconciliationHandler struct {
	log *logger.Logger
}

func (h *reconciliationHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *reconciliationHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *reconciliationHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var event RefundRequiredEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			h.log.Error("malformed reconciliation event",
				"partition", message.Partition,
				"offset", message.Offset,
				"error", err,
			)
			session.MarkMessage(message, "")
			continue
		}

		h.log.Warn("refund required",
			"transaction_id", event.TransactionID,
			"payment_method", event.PaymentMethod,
			"amount", event.Amount,
			"user_id", event.UserID,
			"movie_id", event.MovieID,
			"cause", event.Cause,
		)
		session.MarkMessage(message, "")
	}
	return nil
}
