// Package audit is the ambient observability bridge: a best-effort NATS
// publish that is a no-op when no URL is configured and never surfaces a
// failure back into the pipeline it observes.
package audit

import (
	"encoding/json"
	"log"
	"time"

	nats "github.com/nats-io/nats.go"
)

const subject = "lapimposteur.audit"

// Client publishes audit events. The zero value is a valid no-op client.
type Client struct {
	conn    *nats.Conn
	enabled bool
}

// Connect dials natsURL for audit publishing. An empty URL, or a dial
// failure, yields a disabled client rather than an error: audit is pure
// ambient infrastructure and must never block startup.
func Connect(natsURL string) *Client {
	if natsURL == "" {
		return &Client{}
	}
	nc, err := nats.Connect(natsURL)
	if err != nil {
		log.Printf("audit: failed to connect to nats at %s: %v. audit logging disabled.", natsURL, err)
		return &Client{}
	}
	log.Printf("audit: connected to nats at %s", natsURL)
	return &Client{conn: nc, enabled: true}
}

// Close releases the underlying NATS connection, if any.
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// ReactorLifecycle publishes a reactor state-machine transition.
func (c *Client) ReactorLifecycle(queue, state, errMsg string) {
	c.publish(map[string]interface{}{
		"kind":  "reactor_lifecycle",
		"queue": queue,
		"state": state,
		"error": errMsg,
	})
}

// Delivery publishes a per-delivery dispatch summary.
func (c *Client) Delivery(deliveryID string, actionCount int, acked bool) {
	c.publish(map[string]interface{}{
		"kind":         "delivery",
		"delivery_id":  deliveryID,
		"action_count": actionCount,
		"acked":        acked,
	})
}

// Action publishes a per-action outcome: "published", "skipped", or
// "failed" (with errMsg carrying the error text).
func (c *Client) Action(deliveryID string, index int, outcome string, errMsg string) {
	c.publish(map[string]interface{}{
		"kind":        "action",
		"delivery_id": deliveryID,
		"index":       index,
		"outcome":     outcome,
		"error":       errMsg,
	})
}

func (c *Client) publish(fields map[string]interface{}) {
	if !c.enabled || c.conn == nil {
		return
	}
	fields["timestamp"] = time.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(fields)
	if err != nil {
		log.Printf("audit: failed to marshal event: %v", err)
		return
	}
	if err := c.conn.Publish(subject, data); err != nil {
		log.Printf("audit: failed to publish event: %v", err)
	}
}
