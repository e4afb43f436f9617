// Package transport implements a player's domestic transport and
// international trade counters.
package transport

import (
	"fmt"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/counter"
	"github.com/gravitas-games/aftermath/internal/events"
	"github.com/gravitas-games/aftermath/internal/gameerr"
	"github.com/gravitas-games/aftermath/internal/transfer"
	"github.com/gravitas-games/aftermath/pkg/models"
)

var (
	// ErrCapacityExceeded is returned when transporting more than the capacity allows.
	ErrCapacityExceeded = gameerr.Capacity("transport: capacity exceeded")
	// ErrMerchantMarineExceeded is returned when trading more of one resource than the merchant marine carries.
	ErrMerchantMarineExceeded = gameerr.Capacity("transport: merchant marine exceeded")
	// ErrTooManyBids is returned when the bidding set is full.
	ErrTooManyBids = gameerr.Capacity("transport: too many bids")
	// ErrNegativeAmount is returned for negative quantities.
	ErrNegativeAmount = gameerr.Precondition("transport: negative amount")
	// ErrNotTransporting is returned when stopping more than is in transit.
	ErrNotTransporting = gameerr.Precondition("transport: not transporting that much")
	// ErrNotTrading is returned when withdrawing more than is being traded.
	ErrNotTrading = gameerr.Precondition("transport: not trading that much")
	// ErrNotBidding is returned when cancelling a bid that was never placed.
	ErrNotBidding = gameerr.Precondition("transport: not bidding on resource")
	// ErrNotResource is returned when a non-resource type is moved.
	ErrNotResource = gameerr.Precondition("transport: not a resource")
)

// Network holds the available, transporting and trading counters of one
// player together with its transport capacity and merchant marine.
type Network struct {
	owner        string
	bus          events.Bus
	available    counter.Counter[*catalog.Type]
	transporting counter.Counter[*catalog.Type]
	trading      counter.Counter[*catalog.Type]
	bidding      []*catalog.Type
	capacity     int
	marine       int
}

// New returns an empty network.
func New(owner string, bus events.Bus) *Network {
	if bus == nil {
		bus = events.NewNullBus()
	}
	return &Network{owner: owner, bus: bus}
}

func checkResource(r *catalog.Type, n int) error {
	if r == nil || r.Kind != catalog.KindResource {
		return fmt.Errorf("%w: %s", ErrNotResource, r)
	}
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeAmount, n)
	}
	return nil
}

// Available returns the amount of a resource the map currently yields.
func (n *Network) Available(r *catalog.Type) int {
	return n.available.Get(r)
}

// AddAvailable records more yield of a resource.
func (n *Network) AddAvailable(r *catalog.Type, amount int) {
	n.available.Add(r, amount)
}

// RemoveAvailable records less yield of a resource.
func (n *Network) RemoveAvailable(r *catalog.Type, amount int) {
	n.available.Add(r, -amount)
}

// Transporting returns the amount of a resource moved each turn.
func (n *Network) Transporting(r *catalog.Type) int {
	return n.transporting.Get(r)
}

// TotalTransporting sums the transporting counter.
func (n *Network) TotalTransporting() int {
	return n.transporting.Total()
}

// CanTransport reports whether amount more of r fits in the capacity.
func (n *Network) CanTransport(r *catalog.Type, amount int) bool {
	return checkResource(r, amount) == nil && n.TotalTransporting()+amount <= n.capacity
}

// StartTransporting adds amount of r to the standing per-turn deliveries.
func (n *Network) StartTransporting(r *catalog.Type, amount int) error {
	if err := checkResource(r, amount); err != nil {
		return err
	}
	if total := n.TotalTransporting() + amount; total > n.capacity {
		return fmt.Errorf("%w: %d > %d", ErrCapacityExceeded, total, n.capacity)
	}
	n.transporting.Add(r, amount)
	return nil
}

// StopTransporting removes amount of r from the standing deliveries.
func (n *Network) StopTransporting(r *catalog.Type, amount int) error {
	if err := checkResource(r, amount); err != nil {
		return err
	}
	if n.transporting.Get(r) < amount {
		return fmt.Errorf("%w: %s", ErrNotTransporting, r.Key)
	}
	n.transporting.Add(r, -amount)
	return nil
}

// FinishTransporting delivers the whole transporting counter as one batch.
// Deliveries are standing orders, so the counter is kept; calling this
// twice in a turn delivers twice.
func (n *Network) FinishTransporting(acct transfer.Account) (int, error) {
	total := n.transporting.Total()
	if total == 0 {
		return 0, nil
	}
	if err := acct.Credit(n.transporting); err != nil {
		return 0, fmt.Errorf("finish transporting: %w", err)
	}
	n.bus.Publish(events.Event{
		Type:   events.EventTransportDelivered,
		Owner:  n.owner,
		Amount: total,
	})
	return total, nil
}

// Trading returns the amount of r committed to international trade.
func (n *Network) Trading(r *catalog.Type) int {
	return n.trading.Get(r)
}

// StartTrading takes amount of r from the player and commits it to trade.
func (n *Network) StartTrading(acct transfer.Account, r *catalog.Type, amount int) error {
	if err := checkResource(r, amount); err != nil {
		return err
	}
	if total := n.trading.Get(r) + amount; total > n.marine {
		return fmt.Errorf("%w: %s %d > %d", ErrMerchantMarineExceeded, r.Key, total, n.marine)
	}
	var b catalog.Batch
	b.Add(r, amount)
	if err := acct.Charge(b); err != nil {
		return fmt.Errorf("start trading %s: %w", r.Key, err)
	}
	n.trading.Add(r, amount)
	n.publishTrade(events.EventTradeStarted, r, amount)
	return nil
}

// StopTrading withdraws amount of r from trade back to the player.
func (n *Network) StopTrading(acct transfer.Account, r *catalog.Type, amount int) error {
	return n.release(acct, r, amount, events.EventTradeStopped)
}

// FinishTrade gives amount of traded r to the player receiving it. Payment
// to the seller is a separate money transfer made by the caller.
func (n *Network) FinishTrade(acct transfer.Account, r *catalog.Type, amount int) error {
	return n.release(acct, r, amount, events.EventTradeFinished)
}

func (n *Network) release(acct transfer.Account, r *catalog.Type, amount int, t events.EventType) error {
	if err := checkResource(r, amount); err != nil {
		return err
	}
	if n.trading.Get(r) < amount {
		return fmt.Errorf("%w: %s", ErrNotTrading, r.Key)
	}
	var b catalog.Batch
	b.Add(r, amount)
	if err := acct.Credit(b); err != nil {
		return fmt.Errorf("release %s: %w", r.Key, err)
	}
	n.trading.Add(r, -amount)
	n.publishTrade(t, r, amount)
	return nil
}

func (n *Network) publishTrade(t events.EventType, r *catalog.Type, amount int) {
	n.bus.Publish(events.Event{Type: t, Owner: n.owner, Subject: r.Key, Amount: amount})
}

// Bidding returns the resources currently bid on.
func (n *Network) Bidding() []*catalog.Type {
	out := make([]*catalog.Type, len(n.bidding))
	copy(out, n.bidding)
	return out
}

// IsBidding reports whether r is in the bidding set.
func (n *Network) IsBidding(r *catalog.Type) bool {
	for _, b := range n.bidding {
		if b == r {
			return true
		}
	}
	return false
}

// StartBidding adds r to the bidding set, which holds at most maxBids
// resources. Bidding twice on the same resource is a no-op.
func (n *Network) StartBidding(r *catalog.Type, maxBids int) error {
	if err := checkResource(r, 0); err != nil {
		return err
	}
	if n.IsBidding(r) {
		return nil
	}
	if len(n.bidding) >= maxBids {
		return fmt.Errorf("%w: limit %d", ErrTooManyBids, maxBids)
	}
	n.bidding = append(n.bidding, r)
	return nil
}

// CancelBidding removes r from the bidding set.
func (n *Network) CancelBidding(r *catalog.Type) error {
	for i, b := range n.bidding {
		if b == r {
			n.bidding = append(n.bidding[:i], n.bidding[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotBidding, r)
}

// Capacity returns the transport capacity.
func (n *Network) Capacity() int {
	return n.capacity
}

// AddCapacity adjusts the transport capacity.
func (n *Network) AddCapacity(delta int) {
	n.capacity += delta
}

// MerchantMarine returns the per-resource trade limit.
func (n *Network) MerchantMarine() int {
	return n.marine
}

// AddMerchantMarine adjusts the merchant marine.
func (n *Network) AddMerchantMarine(delta int) {
	n.marine += delta
}

// Report fills the transport section of a player report.
func (n *Network) Report(r *models.PlayerReport) {
	r.Capacity = n.capacity
	r.MerchantMarine = n.marine
	r.Transporting = keyed(&n.transporting)
	r.Trading = keyed(&n.trading)
	for _, b := range n.bidding {
		r.Bidding = append(r.Bidding, b.Key)
	}
}

func keyed(c *counter.Counter[*catalog.Type]) map[string]int {
	if c.Len() == 0 {
		return nil
	}
	out := make(map[string]int, c.Len())
	c.Each(func(t *catalog.Type, v int) {
		if v != 0 {
			out[t.Key] = v
		}
	})
	return out
}
