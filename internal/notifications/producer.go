package notifications

import (
	"context"
	"fmt"
	"time"

	"stagedoor/internal/shared/config"
	"stagedoor/pkg/logger"

	"github.com/IBM/sarama"
)

// Producer publishes ticket email notifications onto the pipeline
type Producer interface {
	PublishTicketEmail(ctx context.Context, notification *TicketEmailNotification) error
	Close() error
}

// KafkaProducer publishes ticket email notifications to Kafka
type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *logger.Logger
}

// NewKafkaProducer creates a new Kafka producer for ticket emails
func NewKafkaProducer(cfg config.KafkaConfig) (*KafkaProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaProducer{
		producer: producer,
		topic:    cfg.TicketTopic,
		logger:   logger.GetDefault(),
	}, nil
}

func (p *KafkaProducer) PublishTicketEmail(ctx context.Context, notification *TicketEmailNotification) error {
	notification.Status = NotificationStatusQueued
	notification.UpdatedAt = time.Now()

	value, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(notification.PartitionKey()),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
			{Key: []byte("reservation_code"), Value: []byte(notification.ReservationCode)},
			{Key: []byte("created_at"), Value: []byte(notification.CreatedAt.Format(time.RFC3339))},
		},
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		notification.MarkFailed(err)
		return fmt.Errorf("failed to publish ticket email: %w", err)
	}

	p.logger.InfoWithContext(ctx, "ticket email queued", map[string]interface{}{
		"reservation_id": notification.ReservationID.String(),
		"partition":      partition,
		"offset":         offset,
	})
	return nil
}

func (p *KafkaProducer) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}
