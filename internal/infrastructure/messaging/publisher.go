package messaging

import (
	"fmt"
	"strconv"

	"core-banking-ledger/internal/infrastructure/messaging/kafka"
)

// EventPublisher is the outward, fire-and-forget event stream described in
// spec §9: every committed mutation publishes one event, and the ledger
// never reads the stream back or blocks a commit waiting on it.
type EventPublisher interface {
	PublishTransactionCompleted(event TransactionCompletedEvent) error
	PublishTransactionFailed(event TransactionFailedEvent) error
	PublishAccountCreated(event AccountCreatedEvent) error
	PublishAccountStatusChanged(event AccountStatusChangedEvent) error
	Close() error
	IsHealthy() bool
}

// KafkaEventPublisher implements EventPublisher over the teacher's Kafka
// producer, repurposed for ledger domain events.
type KafkaEventPublisher struct {
	producer *kafka.Producer
}

func NewKafkaEventPublisher(config *kafka.Config) (*KafkaEventPublisher, error) {
	producer, err := kafka.NewProducer(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return &KafkaEventPublisher{producer: producer}, nil
}

func (p *KafkaEventPublisher) PublishTransactionCompleted(event TransactionCompletedEvent) error {
	return p.producer.PublishEvent(kafka.TopicTransactionCompleted, event.ReferenceID, event)
}

func (p *KafkaEventPublisher) PublishTransactionFailed(event TransactionFailedEvent) error {
	return p.producer.PublishEvent(kafka.TopicTransactionFailed, event.TypeCode, event)
}

func (p *KafkaEventPublisher) PublishAccountCreated(event AccountCreatedEvent) error {
	key := strconv.FormatInt(event.AccountID, 10)
	return p.producer.PublishEvent(kafka.TopicAccountCreated, key, event)
}

func (p *KafkaEventPublisher) PublishAccountStatusChanged(event AccountStatusChangedEvent) error {
	key := strconv.FormatInt(event.AccountID, 10)
	return p.producer.PublishEvent(kafka.TopicAccountStatusChanged, key, event)
}

func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}

func (p *KafkaEventPublisher) IsHealthy() bool {
	return p.producer.IsHealthy()
}

// NoOpEventPublisher is used when KAFKA_ENABLED=false and in unit tests;
// the ledger's correctness never depends on the event stream being up.
type NoOpEventPublisher struct{}

func NewNoOpEventPublisher() *NoOpEventPublisher { return &NoOpEventPublisher{} }

func (p *NoOpEventPublisher) PublishTransactionCompleted(event TransactionCompletedEvent) error {
	return nil
}
func (p *NoOpEventPublisher) PublishTransactionFailed(event TransactionFailedEvent) error {
	return nil
}
func (p *NoOpEventPublisher) PublishAccountCreated(event AccountCreatedEvent) error { return nil }
func (p *NoOpEventPublisher) PublishAccountStatusChanged(event AccountStatusChangedEvent) error {
	return nil
}
func (p *NoOpEventPublisher) Close() error    { return nil }
func (p *NoOpEventPublisher) IsHealthy() bool { return true }
