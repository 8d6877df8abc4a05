package nats

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"

	"github.com/wricardo/klondike/game/service"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	msgs []published
	err  error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{subject, data})
	return nil
}

func TestSubject(t *testing.T) {
	if got := Subject("ab12"); got != "klondike.events.ab12" {
		t.Errorf("Subject(ab12) = %s", got)
	}
	if got := Subject(""); got != "klondike.events.>" {
		t.Errorf("Subject(\"\") = %s", got)
	}
}

func TestPublisher_Publish(t *testing.T) {
	conn := &fakeConn{}
	p := NewPublisher(conn)

	event := service.NewGameEvent("ab12", service.EventMove, "Moved As from PILE-1 to Spades")
	event.Cards = 1
	p.Publish("ab12", event)

	if len(conn.msgs) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(conn.msgs))
	}
	if conn.msgs[0].subject != "klondike.events.ab12" {
		t.Errorf("Unexpected subject %s", conn.msgs[0].subject)
	}

	var got service.GameEvent
	if err := json.Unmarshal(conn.msgs[0].data, &got); err != nil {
		t.Fatalf("Payload is not JSON: %v", err)
	}
	if got.ID != event.ID || got.Type != service.EventMove || got.Cards != 1 {
		t.Errorf("Unexpected payload %+v", got)
	}
}

func TestPublisher_PublishFailure(t *testing.T) {
	p := NewPublisher(&fakeConn{err: errors.New("nats: connection closed")})
	// Must not panic.
	p.Publish("ab12", service.NewGameEvent("ab12", service.EventDiscard, "Discarded 3 card(s)"))
}

func TestEventHandler(t *testing.T) {
	var got []service.GameEvent
	h := eventHandler(func(e service.GameEvent) { got = append(got, e) })

	data, _ := json.Marshal(service.NewGameEvent("ab12", service.EventVictory, "won"))
	h(&nats.Msg{Subject: Subject("ab12"), Data: data})
	h(&nats.Msg{Subject: Subject("ab12"), Data: []byte("not json")})

	if len(got) != 1 || got[0].Type != service.EventVictory {
		t.Errorf("Expected one victory event, got %+v", got)
	}
}

func TestBrokerConnect_Unreachable(t *testing.T) {
	if _, err := BrokerConnect("nats://127.0.0.1:1", "klondike-test"); err == nil {
		t.Error("Expected an error for an unreachable broker")
	}
}
