package handlers

import (
	"io"

	"core-banking-ledger/internal/infrastructure/events"

	"github.com/gin-gonic/gin"
)

// Events streams ledger domain events (account creation, status changes,
// completed/failed transactions) to a Server-Sent-Events client, fed by
// the messaging.BroadcastingPublisher decorator wired in at startup.
func (d *Dependencies) Events(broker *events.Broker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ch := broker.Subscribe()
		defer broker.Unsubscribe(ch)

		c.Stream(func(w io.Writer) bool {
			if evt, ok := <-ch; ok {
				c.SSEvent(evt.Type, evt.Payload)
				return true
			}
			return false
		})
	}
}
