package events

import (
	"sync"
	"time"
)

// EventType represents the type of game event.
type EventType int

const (
	// EventTransferCommitted is emitted when a validated batch is applied.
	EventTransferCommitted EventType = iota
	// EventProductionStarted is emitted when a formula unit starts.
	EventProductionStarted
	// EventProductionCancelled is emitted when a formula unit is cancelled and refunded.
	EventProductionCancelled
	// EventProductionFinished is emitted when a center delivers its output.
	EventProductionFinished
	// EventUpgradeStarted is emitted when a deferred upgrade is paid for.
	EventUpgradeStarted
	// EventUpgradeCancelled is emitted when a deferred upgrade is refunded.
	EventUpgradeCancelled
	// EventUpgradeFinished is emitted when an entity reaches its next level.
	EventUpgradeFinished
	// EventUnitSpawned is emitted when a unit joins an army or navy.
	EventUnitSpawned
	// EventUnitDisbanded is emitted when a unit is removed or could not be placed.
	EventUnitDisbanded
	// EventSpecialistPlaced is emitted when a specialist lands on a tile group.
	EventSpecialistPlaced
	// EventSpecialistDiscarded is emitted when no tile group could take a specialist.
	EventSpecialistDiscarded
	// EventTransportDelivered is emitted when the transport network delivers.
	EventTransportDelivered
	// EventTradeStarted is emitted when goods are committed to trade.
	EventTradeStarted
	// EventTradeStopped is emitted when goods are withdrawn from trade.
	EventTradeStopped
	// EventTradeFinished is emitted when traded goods reach the buyer.
	EventTradeFinished
	// EventResearchStarted is emitted when research is paid for.
	EventResearchStarted
	// EventResearchCancelled is emitted when research is refunded.
	EventResearchCancelled
	// EventResearchFinished is emitted when a technology is learned.
	EventResearchFinished
	// EventTurnStarted is emitted after a player's turn-start hooks ran.
	EventTurnStarted
)

// String returns a human-readable representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventTransferCommitted:
		return "TransferCommitted"
	case EventProductionStarted:
		return "ProductionStarted"
	case EventProductionCancelled:
		return "ProductionCancelled"
	case EventProductionFinished:
		return "ProductionFinished"
	case EventUpgradeStarted:
		return "UpgradeStarted"
	case EventUpgradeCancelled:
		return "UpgradeCancelled"
	case EventUpgradeFinished:
		return "UpgradeFinished"
	case EventUnitSpawned:
		return "UnitSpawned"
	case EventUnitDisbanded:
		return "UnitDisbanded"
	case EventSpecialistPlaced:
		return "SpecialistPlaced"
	case EventSpecialistDiscarded:
		return "SpecialistDiscarded"
	case EventTransportDelivered:
		return "TransportDelivered"
	case EventTradeStarted:
		return "TradeStarted"
	case EventTradeStopped:
		return "TradeStopped"
	case EventTradeFinished:
		return "TradeFinished"
	case EventResearchStarted:
		return "ResearchStarted"
	case EventResearchCancelled:
		return "ResearchCancelled"
	case EventResearchFinished:
		return "ResearchFinished"
	case EventTurnStarted:
		return "TurnStarted"
	default:
		return "Unknown"
	}
}

// AllOwners subscribes a handler to every owner's events.
const AllOwners = "*"

// Event represents something that happened to a player's economy.
type Event struct {
	Type      EventType      `json:"type"`
	Owner     string         `json:"owner"`
	Subject   string         `json:"subject,omitempty"`
	Amount    int            `json:"amount,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Bus manages event subscriptions and delivery.
type Bus interface {
	// Subscribe registers a handler for events of a specific owner, or for
	// every owner with AllOwners.
	Subscribe(owner string, handler func(Event))

	// Unsubscribe removes the handler for an owner.
	Unsubscribe(owner string)

	// Publish sends an event to subscribed handlers.
	Publish(event Event)
}

// SimpleBus is an in-memory bus. Handlers run synchronously on the
// publishing goroutine, so they observe events in turn order.
type SimpleBus struct {
	mu       sync.RWMutex
	handlers map[string]func(Event)
}

// NewSimpleBus creates an empty bus.
func NewSimpleBus() *SimpleBus {
	return &SimpleBus{
		handlers: make(map[string]func(Event)),
	}
}

// Subscribe registers a handler for events for a specific owner.
func (bus *SimpleBus) Subscribe(owner string, handler func(Event)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[owner] = handler
}

// Unsubscribe removes the handler for an owner.
func (bus *SimpleBus) Unsubscribe(owner string) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.handlers, owner)
}

// Publish sends an event to the owner's handler, then to the catch-all.
func (bus *SimpleBus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	bus.mu.RLock()
	owner := bus.handlers[event.Owner]
	all := bus.handlers[AllOwners]
	bus.mu.RUnlock()

	if owner != nil && event.Owner != AllOwners {
		owner(event)
	}
	if all != nil {
		all(event)
	}
}

// NullBus is a bus that does nothing (for tests or when events are not needed).
type NullBus struct{}

// NewNullBus creates a new null bus.
func NewNullBus() *NullBus {
	return &NullBus{}
}

// Subscribe does nothing.
func (bus *NullBus) Subscribe(owner string, handler func(Event)) {}

// Unsubscribe does nothing.
func (bus *NullBus) Unsubscribe(owner string) {}

// Publish does nothing.
func (bus *NullBus) Publish(event Event) {}
