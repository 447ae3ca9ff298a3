package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"ticketcore/internal/shared/config"

	"github.com/IBM/sarama"
)

// Producer publishes notifications to the external observer boundary.
type Producer interface {
	Publish(ctx context.Context, notification *Notification) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka producer
type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig(cfg config.KafkaConfig) *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          cfg.Brokers,
		Topic:            cfg.Topic,
		RetryMax:         3,
		TimeoutMs:        10000, // 10 seconds
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000, // 1MB
	}
}

// KafkaProducer publishes notifications through a sarama sync producer
type KafkaProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

// NewKafkaProducer creates a new Kafka notification producer
func NewKafkaProducer(config *KafkaProducerConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps one entity's notifications on one partition,
	// so per-entity ordering only breaks on redelivery
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaProducer{
		producer: producer,
		config:   config,
	}, nil
}

func (p *KafkaProducer) Publish(ctx context.Context, notification *Notification) error {
	if notification.Timestamp.IsZero() {
		notification.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.config.Topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(notification.EntityID, 10)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(notification.Type)},
		},
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

func (p *KafkaProducer) Close() error {
	return p.producer.Close()
}
