package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stagedoor/internal/shared/config"
	"stagedoor/pkg/logger"

	"github.com/IBM/sarama"
)

// Consumer drains the ticket email topic and hands messages to the mailer
type Consumer interface {
	Start(ctx context.Context, numWorkers int) error
	Stop() error
}

const (
	consumerMaxRetries   = 3
	consumerRetryBackoff = time.Second
)

// KafkaConsumer consumes ticket email notifications from Kafka
type KafkaConsumer struct {
	group  sarama.ConsumerGroup
	topics []string
	mailer EmailService
	logger *logger.Logger
	cancel context.CancelFunc
}

// NewKafkaConsumer creates a new Kafka consumer group for ticket emails
func NewKafkaConsumer(cfg config.KafkaConfig, mailer EmailService) (*KafkaConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaConsumer{
		group:  group,
		topics: []string{cfg.TicketTopic},
		mailer: mailer,
		logger: logger.GetDefault(),
	}, nil
}

func (c *KafkaConsumer) Start(ctx context.Context, numWorkers int) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		for err := range c.group.Errors() {
			c.logger.ErrorWithContext(context.Background(), "consumer group error", err, nil)
		}
	}()

	for i := 0; i < numWorkers; i++ {
		go c.runWorker(ctx, i)
	}
	return nil
}

func (c *KafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &ticketEmailHandler{mailer: c.mailer, logger: c.logger, workerID: workerID}

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := c.group.Consume(ctx, c.topics, handler); err != nil {
				c.logger.ErrorWithContext(ctx, "consume failed", err, map[string]interface{}{
					"worker": workerID,
				})
				time.Sleep(time.Second)
			}
		}
	}
}

func (c *KafkaConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type ticketEmailHandler struct {
	mailer   EmailService
	logger   *logger.Logger
	workerID int
}

func (h *ticketEmailHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *ticketEmailHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *ticketEmailHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}
			if err := h.processMessage(session.Context(), message); err != nil {
				h.logger.ErrorWithContext(session.Context(), "ticket email processing failed", err, map[string]interface{}{
					"worker": h.workerID,
					"offset": message.Offset,
				})
			} else {
				session.MarkMessage(message, "")
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *ticketEmailHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var notification TicketEmailNotification
	if err := json.Unmarshal(message.Value, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	notification.Status = NotificationStatusSending

	if err := h.sendWithRetry(ctx, &notification); err != nil {
		notification.MarkFailed(err)
		return err
	}

	notification.MarkSent()
	return nil
}

func (h *ticketEmailHandler) sendWithRetry(ctx context.Context, notification *TicketEmailNotification) error {
	backoff := consumerRetryBackoff

	for attempt := 0; ; attempt++ {
		notification.Attempts++
		err := h.mailer.SendTicketEmail(ctx, notification)
		if err == nil {
			return nil
		}
		if attempt == consumerMaxRetries {
			return err
		}

		select {
		case <-time.After(backoff * time.Duration(1<<attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
