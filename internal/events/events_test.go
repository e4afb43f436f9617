package events

import "testing"

func TestSimpleBusDeliversToOwnerAndCatchAll(t *testing.T) {
	bus := NewSimpleBus()
	var mine, all []Event

	bus.Subscribe("prussia", func(e Event) { mine = append(mine, e) })
	bus.Subscribe(AllOwners, func(e Event) { all = append(all, e) })

	bus.Publish(Event{Type: EventProductionStarted, Owner: "prussia", Subject: "grow_wheat"})
	bus.Publish(Event{Type: EventProductionStarted, Owner: "france"})

	if len(mine) != 1 {
		t.Fatalf("expected 1 owner event, got %d", len(mine))
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 catch-all events, got %d", len(all))
	}
	if mine[0].Timestamp.IsZero() {
		t.Fatalf("expected publish to stamp the event")
	}
	if all[1].Owner != "france" {
		t.Fatalf("expected events in publish order")
	}

	bus.Unsubscribe("prussia")
	bus.Publish(Event{Type: EventTurnStarted, Owner: "prussia"})
	if len(mine) != 1 {
		t.Fatalf("unsubscribed handler still called")
	}
}

func TestEventTypeString(t *testing.T) {
	if EventTransportDelivered.String() != "TransportDelivered" {
		t.Fatalf("unexpected name %s", EventTransportDelivered)
	}
	if EventType(999).String() != "Unknown" {
		t.Fatalf("expected Unknown for out-of-range type")
	}
}

func TestNullBusIgnoresEverything(t *testing.T) {
	var bus Bus = NewNullBus()
	called := false
	bus.Subscribe(AllOwners, func(Event) { called = true })
	bus.Publish(Event{Type: EventTurnStarted})
	if called {
		t.Fatalf("null bus must not deliver")
	}
}
