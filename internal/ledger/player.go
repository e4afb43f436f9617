// Package ledger holds a player's economic state and applies transfers to
// it through the per-kind behaviour table.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/events"
	"github.com/gravitas-games/aftermath/internal/gameerr"
	"github.com/gravitas-games/aftermath/internal/industry"
	"github.com/gravitas-games/aftermath/internal/military"
	"github.com/gravitas-games/aftermath/internal/research"
	"github.com/gravitas-games/aftermath/internal/territory"
	"github.com/gravitas-games/aftermath/internal/transport"
)

var (
	// ErrNotLand is returned when a sea group is made a capital.
	ErrNotLand = gameerr.Precondition("ledger: capital must be a land group")
	// ErrNotSea is returned when a land group is made a harbor.
	ErrNotSea = gameerr.Precondition("ledger: harbor must be a sea group")
	// ErrOwnedElsewhere is returned when claiming a group another player holds.
	ErrOwnedElsewhere = gameerr.Precondition("ledger: group owned by another player")
	// ErrNotHeld is returned when releasing a group the player does not hold.
	ErrNotHeld = gameerr.NotFound("ledger: group not held")
)

// Clock supplies the current game date for the Date kind.
type Clock interface {
	Date() int
}

type fixedClock int

func (c fixedClock) Date() int { return int(c) }

// Options configures a new player.
type Options struct {
	Name    string
	Nation  string
	Catalog *catalog.Catalog
	Clock   Clock
	Bus     events.Bus
	Logger  *slog.Logger

	// Capital, Harbor and Holdings are set before the starting types are
	// granted, so starting units and specialists have somewhere to go.
	Capital  *territory.TileGroup
	Harbor   *territory.TileGroup
	Holdings []*territory.TileGroup
}

// Player is the ledger every transfer targets.
type Player struct {
	name   string
	nation string
	cat    *catalog.Catalog
	clock  Clock
	bus    events.Bus
	logger *slog.Logger

	money      int
	stockpile  catalog.Batch
	technology []*catalog.Type
	industry   *industry.Industry
	transport  *transport.Network
	research   *research.Queue

	capital  *territory.TileGroup
	harbor   *territory.TileGroup
	holdings []*territory.TileGroup

	// rev counts ledger mutations; validated batches are bound to it.
	rev uint64
}

// New creates a player and grants the catalog's starting types.
func New(opts Options) (*Player, error) {
	if opts.Name == "" {
		return nil, gameerr.Validation("ledger: player name is required")
	}
	bus := opts.Bus
	if bus == nil {
		bus = events.NewNullBus()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = fixedClock(opts.Catalog.StartDate())
	}

	p := &Player{
		name:      opts.Name,
		nation:    opts.Nation,
		cat:       opts.Catalog,
		clock:     clock,
		bus:       bus,
		logger:    logger.With("component", "ledger", "player", opts.Name),
		industry:  industry.New(opts.Name, bus, logger),
		transport: transport.New(opts.Name, bus),
		research:  research.New(opts.Name, bus),
	}

	if opts.Capital != nil {
		if err := p.SetCapital(opts.Capital); err != nil {
			return nil, err
		}
	}
	if opts.Harbor != nil {
		if err := p.SetHarbor(opts.Harbor); err != nil {
			return nil, err
		}
	}
	for _, g := range opts.Holdings {
		if err := p.Claim(g); err != nil {
			return nil, err
		}
	}

	starting := opts.Catalog.StartingTypes()
	if starting.Len() > 0 {
		v, err := p.ValidateGive(starting)
		if err != nil {
			return nil, fmt.Errorf("starting types: %w", err)
		}
		if err := p.Commit(v); err != nil {
			return nil, fmt.Errorf("starting types: %w", err)
		}
	}
	p.logger.Info("player created", "nation", p.nation, "money", p.money)
	return p, nil
}

// Name returns the player name.
func (p *Player) Name() string { return p.name }

// Nation returns the nation, or "" until one is assigned.
func (p *Player) Nation() string { return p.nation }

// SetNation assigns the player's nation.
func (p *Player) SetNation(nation string) { p.nation = nation }

// Catalog returns the content catalog the player was created with.
func (p *Player) Catalog() *catalog.Catalog { return p.cat }

// Date returns the current game date.
func (p *Player) Date() int { return p.clock.Date() }

// Money returns the treasury.
func (p *Player) Money() int { return p.money }

// Stockpile returns the stock of one resource.
func (p *Player) Stockpile(r *catalog.Type) int { return p.stockpile.Get(r) }

// Stock returns a copy of the whole stockpile.
func (p *Player) Stock() catalog.Batch { return p.stockpile.Clone() }

// HasTechnology reports whether the player knows a technology.
func (p *Player) HasTechnology(t *catalog.Type) bool {
	for _, known := range p.technology {
		if known == t {
			return true
		}
	}
	return false
}

// Technologies returns the known technologies in the order learned.
func (p *Player) Technologies() []*catalog.Type {
	out := make([]*catalog.Type, len(p.technology))
	copy(out, p.technology)
	return out
}

func (p *Player) learn(t *catalog.Type) {
	if !p.HasTechnology(t) {
		p.technology = append(p.technology, t)
	}
}

func (p *Player) forget(t *catalog.Type) {
	for i, known := range p.technology {
		if known == t {
			p.technology = append(p.technology[:i], p.technology[i+1:]...)
			return
		}
	}
}

// Industry returns the player's industry.
func (p *Player) Industry() *industry.Industry { return p.industry }

// Transport returns the player's transport network.
func (p *Player) Transport() *transport.Network { return p.transport }

// Research returns the player's research queue.
func (p *Player) Research() *research.Queue { return p.research }

// AddMerchantMarine adjusts the merchant marine; units call it as their
// cargo changes.
func (p *Player) AddMerchantMarine(delta int) {
	p.transport.AddMerchantMarine(delta)
	p.touch()
}

var _ military.Owner = (*Player)(nil)

// Capital returns the capital group, or nil.
func (p *Player) Capital() *territory.TileGroup { return p.capital }

// Harbor returns the harbor group, or nil.
func (p *Player) Harbor() *territory.TileGroup { return p.harbor }

// Holdings returns every land group the player holds, capital first.
func (p *Player) Holdings() []*territory.TileGroup {
	out := make([]*territory.TileGroup, len(p.holdings))
	copy(out, p.holdings)
	return out
}

// SetCapital claims a land group and makes it the capital.
func (p *Player) SetCapital(g *territory.TileGroup) error {
	if !g.IsLand() {
		return fmt.Errorf("%w: %s", ErrNotLand, g.Name())
	}
	if err := p.Claim(g); err != nil {
		return err
	}
	for i, h := range p.holdings {
		if h == g {
			copy(p.holdings[1:i+1], p.holdings[:i])
			p.holdings[0] = g
			break
		}
	}
	p.capital = g
	p.touch()
	return nil
}

// SetHarbor makes a sea group the home of new sea units.
func (p *Player) SetHarbor(g *territory.TileGroup) error {
	if !g.IsSea() {
		return fmt.Errorf("%w: %s", ErrNotSea, g.Name())
	}
	if owner := g.Owner(); owner != "" && owner != p.name {
		return fmt.Errorf("%w: %s held by %s", ErrOwnedElsewhere, g.Name(), owner)
	}
	g.SetOwner(p.name)
	p.harbor = g
	p.touch()
	return nil
}

// Claim adds a land group to the holdings and starts collecting its yields
// as available transport.
func (p *Player) Claim(g *territory.TileGroup) error {
	if !g.IsLand() {
		return fmt.Errorf("%w: %s", ErrNotLand, g.Name())
	}
	if owner := g.Owner(); owner != "" && owner != p.name {
		return fmt.Errorf("%w: %s held by %s", ErrOwnedElsewhere, g.Name(), owner)
	}
	if p.holds(g) {
		return nil
	}
	g.SetOwner(p.name)
	p.holdings = append(p.holdings, g)
	yields := g.Yields()
	yields.Each(func(r *catalog.Type, n int) { p.transport.AddAvailable(r, n) })
	p.touch()
	return nil
}

// Release gives up a land group and its yields. Releasing the capital
// leaves the player without one.
func (p *Player) Release(g *territory.TileGroup) error {
	for i, h := range p.holdings {
		if h != g {
			continue
		}
		p.holdings = append(p.holdings[:i], p.holdings[i+1:]...)
		g.SetOwner("")
		yields := g.Yields()
		yields.Each(func(r *catalog.Type, n int) { p.transport.RemoveAvailable(r, n) })
		if p.capital == g {
			p.capital = nil
		}
		p.touch()
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotHeld, g.Name())
}

func (p *Player) holds(g *territory.TileGroup) bool {
	for _, h := range p.holdings {
		if h == g {
			return true
		}
	}
	return false
}

// groups returns every group whose units belong to the player.
func (p *Player) groups() []*territory.TileGroup {
	out := p.Holdings()
	if p.harbor != nil {
		out = append(out, p.harbor)
	}
	return out
}

// Units returns every living unit the player fields.
func (p *Player) Units() []*military.Unit {
	var out []*military.Unit
	for _, g := range p.groups() {
		out = append(out, g.Units().Units()...)
	}
	return out
}

// FinishUnitUpgrades completes deferred upgrades on every unit.
func (p *Player) FinishUnitUpgrades() (int, error) {
	finished := 0
	var errs []error
	for _, u := range p.Units() {
		if !u.Upgrading() {
			continue
		}
		if err := u.FinishUpgrade(); err != nil {
			errs = append(errs, fmt.Errorf("unit %s: %w", u, err))
			continue
		}
		finished++
		p.publish(events.Event{Type: events.EventUpgradeFinished, Subject: u.Type().Key, Amount: u.Index()})
	}
	return finished, errors.Join(errs...)
}

// spawnUnit creates one unit of t, raises it through every level whose
// auto cost the player already meets, and hands it to the capital army or
// harbor navy. Units with nowhere to go are disbanded.
func (p *Player) spawnUnit(t *catalog.Type) {
	u, err := military.NewUnit(t, p)
	if err != nil {
		p.logger.Warn("unit not created", "type", t.Key, "error", err)
		return
	}
	for _, next := range t.UnitLevels[1:] {
		if !p.CanTakeAll(next.AutoCost) {
			break
		}
		if err := u.FinishUpgrade(); err != nil {
			break
		}
	}
	u.SetToughness(u.Level().Power)

	var group *territory.TileGroup
	switch {
	case t.Land:
		group = p.capital
	case t.Sea:
		group = p.harbor
	}
	if group == nil || group.Units().Add(u) != nil {
		u.Disband()
		p.publish(events.Event{Type: events.EventUnitDisbanded, Subject: t.Key, Amount: 1})
		p.logger.Debug("unit disbanded on spawn", "type", t.Key)
		return
	}
	p.publish(events.Event{
		Type:    events.EventUnitSpawned,
		Subject: t.Key,
		Amount:  1,
		Data:    map[string]any{"group": group.Name(), "level": u.Index()},
	})
}

// placeSpecialist puts a specialist on the capital, or the first holding
// with a free tile. It is discarded if no tile is free.
func (p *Player) placeSpecialist(t *catalog.Type) {
	s := &territory.Specialist{Type: t, Owner: p.name}
	for _, g := range p.holdings {
		tile, err := g.PlaceSpecialist(s)
		if err != nil {
			continue
		}
		p.publish(events.Event{
			Type:    events.EventSpecialistPlaced,
			Subject: t.Key,
			Amount:  1,
			Data:    map[string]any{"group": g.Name(), "tile": tile.Pos.String()},
		})
		return
	}
	p.publish(events.Event{Type: events.EventSpecialistDiscarded, Subject: t.Key, Amount: 1})
	p.logger.Debug("specialist discarded", "type", t.Key)
}

// Specialists counts the specialists on the player's holdings.
func (p *Player) Specialists() int {
	n := 0
	for _, g := range p.holdings {
		n += g.Specialists()
	}
	return n
}

func (p *Player) buildCenter(t *catalog.Type) {
	if _, err := p.industry.Build(t); err != nil {
		p.logger.Warn("production center not built", "type", t.Key, "error", err)
	}
}

// BeginTurn runs the turn-start hooks in order: deferred upgrades,
// production, labor release, transport, research. It is not idempotent;
// the scheduler must call it once per turn.
func (p *Player) BeginTurn() error {
	var errs []error
	collect := func(step string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", step, err))
		}
	}

	_, err := p.industry.FinishUpgrades()
	collect("center upgrades", err)
	_, err = p.FinishUnitUpgrades()
	collect("unit upgrades", err)
	produced, err := p.industry.FinishProduction(p)
	collect("production", err)
	p.industry.ReleaseLabor()
	delivered, err := p.transport.FinishTransporting(p)
	collect("transport", err)
	learned, err := p.research.FinishResearch(p)
	collect("research", err)
	p.touch()

	p.publish(events.Event{Type: events.EventTurnStarted, Amount: p.Date()})
	p.logger.Debug("turn started",
		"date", p.Date(),
		"produced", produced,
		"delivered", delivered,
		"learned", learned)
	return errors.Join(errs...)
}

func (p *Player) touch() {
	p.rev++
}

func (p *Player) publish(e events.Event) {
	e.Owner = p.name
	p.bus.Publish(e)
}
