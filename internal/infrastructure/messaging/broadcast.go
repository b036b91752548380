package messaging

import "core-banking-ledger/internal/infrastructure/events"

// BroadcastingPublisher decorates an EventPublisher so every event it ships
// to Kafka is also fanned out to the in-process SSE broker (internal/
// infrastructure/events), without the ledger engine needing to know the
// broker exists. Kafka stays the durable, cross-process stream; the broker
// is the best-effort live feed for this instance's SSE subscribers.
type BroadcastingPublisher struct {
	next   EventPublisher
	broker *events.Broker
}

func NewBroadcastingPublisher(next EventPublisher, broker *events.Broker) *BroadcastingPublisher {
	return &BroadcastingPublisher{next: next, broker: broker}
}

func (p *BroadcastingPublisher) PublishTransactionCompleted(event TransactionCompletedEvent) error {
	p.broker.Publish(events.Event{Type: "transaction.completed", Payload: event})
	return p.next.PublishTransactionCompleted(event)
}

func (p *BroadcastingPublisher) PublishTransactionFailed(event TransactionFailedEvent) error {
	p.broker.Publish(events.Event{Type: "transaction.failed", Payload: event})
	return p.next.PublishTransactionFailed(event)
}

func (p *BroadcastingPublisher) PublishAccountCreated(event AccountCreatedEvent) error {
	p.broker.Publish(events.Event{Type: "account.created", Payload: event})
	return p.next.PublishAccountCreated(event)
}

func (p *BroadcastingPublisher) PublishAccountStatusChanged(event AccountStatusChangedEvent) error {
	p.broker.Publish(events.Event{Type: "account.status_changed", Payload: event})
	return p.next.PublishAccountStatusChanged(event)
}

func (p *BroadcastingPublisher) Close() error    { return p.next.Close() }
func (p *BroadcastingPublisher) IsHealthy() bool { return p.next.IsHealthy() }
