// Package orders decodes player orders from scenario files and applies them
// to a player's ledger. Every order is checked for legality before anything
// is mutated.
package orders

import (
	"fmt"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/game"
	"github.com/gravitas-games/aftermath/internal/gameerr"
	"github.com/gravitas-games/aftermath/internal/ledger"
	"github.com/gravitas-games/aftermath/internal/transfer"
)

var (
	// ErrIllegal is returned when an order fails its legality check.
	ErrIllegal = gameerr.Precondition("orders: illegal order")
	// ErrUnknownOrder is returned for an unrecognised order type.
	ErrUnknownOrder = gameerr.Validation("orders: unknown order type")
	// ErrBadParams is returned when order parameters cannot be decoded.
	ErrBadParams = gameerr.Validation("orders: bad parameters")
)

// Order is a single player action.
type Order interface {
	// Type returns the order type name.
	Type() string
	// Legal reports why the order cannot be applied, or nil.
	Legal(p *ledger.Player) error
	// Apply performs the order. Callers use Execute.
	Apply(p *ledger.Player) error
}

// Execute checks an order and applies it only when legal.
func Execute(o Order, p *ledger.Player) error {
	if err := o.Legal(p); err != nil {
		return fmt.Errorf("%s: %w", o.Type(), err)
	}
	if err := o.Apply(p); err != nil {
		return fmt.Errorf("%s: %w", o.Type(), err)
	}
	return nil
}

func illegal(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegal, fmt.Sprintf(format, args...))
}

// --- Transfers ---

// Give adds an amount of a type to the player.
type Give struct {
	What   *catalog.Type
	Amount int
}

func (o *Give) Type() string { return TypeGive }

func (o *Give) Legal(p *ledger.Player) error {
	if !p.CanGive(o.What, o.Amount) {
		return illegal("cannot give %d %s: %v", o.Amount, o.What, transfer.ErrCannotReceive)
	}
	return nil
}

func (o *Give) Apply(p *ledger.Player) error { return p.Give(o.What, o.Amount) }

// Take removes an amount of a type from the player.
type Take struct {
	What   *catalog.Type
	Amount int
}

func (o *Take) Type() string { return TypeTake }

// Legal also refuses to dismiss workers whose labor is still allocated.
func (o *Take) Legal(p *ledger.Player) error {
	if !p.CanTake(o.What, o.Amount) {
		return illegal("cannot take %d %s: %v", o.Amount, o.What, transfer.ErrInsufficient)
	}
	if o.What.Kind == catalog.KindWorkerType && p.Industry().FreeLabor() < o.Amount*o.What.Labor {
		return illegal("cannot dismiss %d %s: only %d labor free", o.Amount, o.What, p.Industry().FreeLabor())
	}
	return nil
}

func (o *Take) Apply(p *ledger.Player) error { return p.Take(o.What, o.Amount) }

// Build pays for and constructs a production center.
type Build struct {
	What *catalog.Type
}

func (o *Build) Type() string { return TypeBuild }

func (o *Build) Legal(p *ledger.Player) error {
	if !p.CanBuild(o.What) {
		return illegal("cannot build %s", o.What)
	}
	return nil
}

func (o *Build) Apply(p *ledger.Player) error { return p.Build(o.What) }

// Recruit pays for and spawns units.
type Recruit struct {
	What  *catalog.Type
	Count int
}

func (o *Recruit) Type() string { return TypeRecruit }

func (o *Recruit) Legal(p *ledger.Player) error {
	if !p.CanRecruit(o.What, o.Count) {
		return illegal("cannot recruit %d %s", o.Count, o.What)
	}
	return nil
}

func (o *Recruit) Apply(p *ledger.Player) error { return p.Recruit(o.What, o.Count) }

// --- Industry ---

// Produce starts Count units of a formula at a center.
type Produce struct {
	Center  int
	Formula *catalog.Formula
	Count   int
}

func (o *Produce) Type() string { return TypeProduce }

// Legal checks the center and the combined input and output of every unit,
// so a partially started order cannot happen.
func (o *Produce) Legal(p *ledger.Player) error {
	c, err := p.Industry().Center(o.Center)
	if err != nil {
		return illegal("%v", err)
	}
	if !c.CanProduce(p, o.Formula) {
		return illegal("center %d cannot produce %s", o.Center, o.Formula.Key)
	}
	if o.Count > 1 {
		in, out := o.Formula.Input.Scale(o.Count), o.Formula.Output.Scale(o.Count)
		if !p.CanTakeAll(in) || !p.CanGiveAll(out) {
			return illegal("cannot afford %d x %s", o.Count, o.Formula.Key)
		}
		ceiling := c.Level().MaxOutput
		units := c.Producing(o.Formula) + o.Count
		over := !o.Formula.Output.All(func(_ *catalog.Type, amount int) bool {
			return amount*units <= ceiling
		})
		if over {
			return illegal("%d x %s exceeds the output ceiling of center %d", o.Count, o.Formula.Key, o.Center)
		}
	}
	return nil
}

func (o *Produce) Apply(p *ledger.Player) error {
	c, err := p.Industry().Center(o.Center)
	if err != nil {
		return err
	}
	for i := 0; i < o.Count; i++ {
		if err := c.StartProduction(p, o.Formula); err != nil {
			return err
		}
	}
	return nil
}

// CancelProduction takes Count units of a formula out of flight.
type CancelProduction struct {
	Center  int
	Formula *catalog.Formula
	Count   int
}

func (o *CancelProduction) Type() string { return TypeCancelProduction }

func (o *CancelProduction) Legal(p *ledger.Player) error {
	c, err := p.Industry().Center(o.Center)
	if err != nil {
		return illegal("%v", err)
	}
	if c.Producing(o.Formula) < o.Count {
		return illegal("center %d has only %d %s in flight", o.Center, c.Producing(o.Formula), o.Formula.Key)
	}
	return nil
}

func (o *CancelProduction) Apply(p *ledger.Player) error {
	c, err := p.Industry().Center(o.Center)
	if err != nil {
		return err
	}
	for i := 0; i < o.Count; i++ {
		if err := c.CancelProduction(p, o.Formula); err != nil {
			return err
		}
	}
	return nil
}

// --- Transport ---

// Transport moves an amount of a resource onto the network.
type Transport struct {
	Resource *catalog.Type
	Amount   int
}

func (o *Transport) Type() string { return TypeTransport }

func (o *Transport) Legal(p *ledger.Player) error {
	if !p.Transport().CanTransport(o.Resource, o.Amount) {
		return illegal("cannot transport %d %s", o.Amount, o.Resource)
	}
	return nil
}

func (o *Transport) Apply(p *ledger.Player) error {
	return p.Transport().StartTransporting(o.Resource, o.Amount)
}

// StopTransport lowers the standing transport of a resource.
type StopTransport struct {
	Resource *catalog.Type
	Amount   int
}

func (o *StopTransport) Type() string { return TypeStopTransport }

func (o *StopTransport) Legal(p *ledger.Player) error {
	if p.Transport().Transporting(o.Resource) < o.Amount {
		return illegal("transporting only %d %s", p.Transport().Transporting(o.Resource), o.Resource)
	}
	return nil
}

func (o *StopTransport) Apply(p *ledger.Player) error {
	return p.Transport().StopTransporting(o.Resource, o.Amount)
}

// Trade commits stockpiled resources to trade.
type Trade struct {
	Resource *catalog.Type
	Amount   int
}

func (o *Trade) Type() string { return TypeTrade }

func (o *Trade) Legal(p *ledger.Player) error {
	net := p.Transport()
	if net.Trading(o.Resource)+o.Amount > net.MerchantMarine() {
		return illegal("merchant marine of %d cannot carry %d %s", net.MerchantMarine(), net.Trading(o.Resource)+o.Amount, o.Resource)
	}
	if !p.CanTake(o.Resource, o.Amount) {
		return illegal("cannot trade %d %s: %v", o.Amount, o.Resource, transfer.ErrInsufficient)
	}
	return nil
}

func (o *Trade) Apply(p *ledger.Player) error {
	return p.Transport().StartTrading(p, o.Resource, o.Amount)
}

// StopTrade withdraws traded resources back to the stockpile.
type StopTrade struct {
	Resource *catalog.Type
	Amount   int
}

func (o *StopTrade) Type() string { return TypeStopTrade }

func (o *StopTrade) Legal(p *ledger.Player) error {
	if p.Transport().Trading(o.Resource) < o.Amount {
		return illegal("trading only %d %s", p.Transport().Trading(o.Resource), o.Resource)
	}
	return nil
}

func (o *StopTrade) Apply(p *ledger.Player) error {
	return p.Transport().StopTrading(p, o.Resource, o.Amount)
}

// FinishTrade sells traded resources to another player in the game.
type FinishTrade struct {
	Game     *game.Game
	Buyer    string
	Resource *catalog.Type
	Amount   int
	Price    int
}

func (o *FinishTrade) Type() string { return TypeFinishTrade }

func (o *FinishTrade) Legal(p *ledger.Player) error {
	buyer, err := o.Game.Player(o.Buyer)
	if err != nil {
		return illegal("%v", err)
	}
	if buyer == p {
		return illegal("%s cannot sell to itself", p.Name())
	}
	if p.Transport().Trading(o.Resource) < o.Amount {
		return illegal("trading only %d %s", p.Transport().Trading(o.Resource), o.Resource)
	}
	if !buyer.CanGive(o.Resource, o.Amount) {
		return illegal("%s cannot receive %s", o.Buyer, o.Resource)
	}
	if !buyer.CanTake(p.Catalog().Money(), o.Price) {
		return illegal("%s cannot pay %d", o.Buyer, o.Price)
	}
	return nil
}

func (o *FinishTrade) Apply(p *ledger.Player) error {
	return o.Game.Settle(p.Name(), o.Buyer, o.Resource, o.Amount, o.Price)
}

// Bid places a standing bid on a resource.
type Bid struct {
	Resource *catalog.Type
}

func (o *Bid) Type() string { return TypeBid }

func (o *Bid) Legal(p *ledger.Player) error {
	net := p.Transport()
	if net.IsBidding(o.Resource) {
		return nil
	}
	if limit := p.Catalog().MaxBids(); len(net.Bidding()) >= limit {
		return illegal("already bidding on %d of %d resources", len(net.Bidding()), limit)
	}
	return nil
}

func (o *Bid) Apply(p *ledger.Player) error {
	return p.Transport().StartBidding(o.Resource, p.Catalog().MaxBids())
}

// CancelBid withdraws a bid.
type CancelBid struct {
	Resource *catalog.Type
}

func (o *CancelBid) Type() string { return TypeCancelBid }

func (o *CancelBid) Legal(p *ledger.Player) error {
	if !p.Transport().IsBidding(o.Resource) {
		return illegal("not bidding on %s", o.Resource)
	}
	return nil
}

func (o *CancelBid) Apply(p *ledger.Player) error {
	return p.Transport().CancelBidding(o.Resource)
}

// --- Research ---

// Research pays for a technology delivered at the next turn start.
type Research struct {
	Technology *catalog.Type
}

func (o *Research) Type() string { return TypeResearch }

func (o *Research) Legal(p *ledger.Player) error {
	if !p.Research().CanResearch(p, p, o.Technology) {
		return illegal("cannot research %s", o.Technology)
	}
	return nil
}

func (o *Research) Apply(p *ledger.Player) error {
	return p.Research().StartResearch(p, p, o.Technology)
}

// CancelResearch refunds queued research.
type CancelResearch struct {
	Technology *catalog.Type
}

func (o *CancelResearch) Type() string { return TypeCancelResearch }

func (o *CancelResearch) Legal(p *ledger.Player) error {
	if !p.Research().Has(o.Technology) {
		return illegal("%s is not queued", o.Technology)
	}
	return nil
}

func (o *CancelResearch) Apply(p *ledger.Player) error {
	return p.Research().CancelResearch(p, o.Technology)
}
