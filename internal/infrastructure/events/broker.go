// Package events implements an in-process publish/subscribe broker used to
// fan ledger domain events out to Server-Sent-Events clients (e.g. an
// internal operations dashboard). It is independent of the Kafka publisher
// in internal/infrastructure/messaging: Kafka is the durable, cross-process
// event stream; this broker is a best-effort, in-memory one for anything
// watching this particular instance live. A client that isn't subscribed
// when an event fires simply misses it.
package events

import "sync"

// Event is a broadcastable ledger occurrence. Type identifies which kind of
// messaging event Payload holds (e.g. "transaction.completed",
// "account.status_changed") so SSE clients can dispatch without parsing the
// payload first.
type Event struct {
	Type    string
	Payload interface{}
}

// Broker manages client subscriptions and broadcasts ledger events.
type Broker struct {
	clients       map[chan Event]bool
	newClients    chan chan Event
	closedClients chan chan Event
	events        chan Event
}

var (
	BrokerInstance *Broker
	brokerOnce     sync.Once
)

// GetBroker returns the singleton event broker instance.
func GetBroker() *Broker {
	brokerOnce.Do(func() {
		BrokerInstance = NewBroker()
	})
	return BrokerInstance
}

// NewBroker creates and starts a new Broker. Public for testing; production
// code should use GetBroker().
func NewBroker() *Broker {
	b := &Broker{
		clients:       make(map[chan Event]bool),
		newClients:    make(chan chan Event),
		closedClients: make(chan chan Event),
		events:        make(chan Event),
	}
	go b.start()
	return b
}

func (b *Broker) start() {
	for {
		select {
		case client := <-b.newClients:
			b.clients[client] = true
		case client := <-b.closedClients:
			delete(b.clients, client)
			close(client)
		case event := <-b.events:
			for client := range b.clients {
				client <- event
			}
		}
	}
}

// Subscribe registers a new listener and returns its channel.
func (b *Broker) Subscribe() chan Event {
	ch := make(chan Event)
	b.newClients <- ch
	return ch
}

// Unsubscribe removes a listener.
func (b *Broker) Unsubscribe(ch chan Event) {
	b.closedClients <- ch
}

// Publish sends the given event to all connected clients. Non-blocking
// callers should run this in a goroutine if a slow subscriber could stall
// the broker's single dispatch loop.
func (b *Broker) Publish(event Event) {
	b.events <- event
}
