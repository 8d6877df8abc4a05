package nats

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/wricardo/klondike/game/service"
)

const (
	DefaultURL    = "nats://localhost:4222"
	SubjectPrefix = "klondike.events"
)

// Subject returns the subject events of one session are published on. An
// empty session ID gives the wildcard covering every session.
func Subject(sessionID string) string {
	if sessionID == "" {
		return SubjectPrefix + ".>"
	}
	return SubjectPrefix + "." + sessionID
}

// BrokerConnect dials the NATS server at url, or DefaultURL when url is
// empty.
func BrokerConnect(url, name string) (*nats.Conn, error) {
	if url == "" {
		url = DefaultURL
	}

	opts := []nats.Option{
		nats.Name(name),
		nats.Timeout(10 * time.Second),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(5),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return nc, nil
}

// Conn is the part of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Publisher forwards game events to NATS as JSON.
type Publisher struct {
	conn Conn
}

var _ service.EventPublisher = (*Publisher)(nil)

// NewPublisher creates a publisher over conn.
func NewPublisher(conn Conn) *Publisher {
	return &Publisher{conn: conn}
}

// Publish sends event on the session's subject. Failures are logged; the
// game carries on without the broker.
func (p *Publisher) Publish(sessionID string, event service.GameEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Warning: Failed to encode %s event for session %s: %v", event.Type, sessionID, err)
		return
	}
	if err := p.conn.Publish(Subject(sessionID), data); err != nil {
		log.Printf("Warning: Failed to publish %s event for session %s: %v", event.Type, sessionID, err)
	}
}

// Subscribe calls handler for every event of sessionID, or of every session
// when sessionID is empty.
func Subscribe(nc *nats.Conn, sessionID string, handler func(service.GameEvent)) (*nats.Subscription, error) {
	return nc.Subscribe(Subject(sessionID), eventHandler(handler))
}

func eventHandler(handler func(service.GameEvent)) nats.MsgHandler {
	return func(m *nats.Msg) {
		var event service.GameEvent
		if err := json.Unmarshal(m.Data, &event); err != nil {
			log.Printf("Warning: Dropping malformed event on %s: %v", m.Subject, err)
			return
		}
		handler(event)
	}
}
