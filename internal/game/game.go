// Package game schedules player turns over a shared calendar and settles
// trades between players.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/events"
	"github.com/gravitas-games/aftermath/internal/gameerr"
	"github.com/gravitas-games/aftermath/internal/ledger"
	"github.com/gravitas-games/aftermath/internal/territory"
	"github.com/gravitas-games/aftermath/internal/transfer"
	"github.com/gravitas-games/aftermath/pkg/models"
)

var (
	// ErrTurnAlreadyStarted is returned when a player's turn is begun twice.
	ErrTurnAlreadyStarted = gameerr.Precondition("game: turn already started for player")
	// ErrUnknownPlayer is returned for a player name not in the game.
	ErrUnknownPlayer = gameerr.NotFound("game: unknown player")
	// ErrDuplicatePlayer is returned when a name is already taken.
	ErrDuplicatePlayer = gameerr.Validation("game: duplicate player")
)

// Game owns the players, the calendar and the world they share.
type Game struct {
	cat      *catalog.Catalog
	calendar *Calendar
	world    *territory.World
	bus      events.Bus
	logger   *slog.Logger

	players map[string]*ledger.Player
	order   []string
	started map[string]int
}

// New creates a game on turn zero.
func New(cat *catalog.Catalog, world *territory.World, bus events.Bus, logger *slog.Logger) *Game {
	if bus == nil {
		bus = events.NewNullBus()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if world == nil {
		world = territory.NewWorld()
	}
	return &Game{
		cat:      cat,
		calendar: NewCalendar(cat),
		world:    world,
		bus:      bus,
		logger:   logger.With("component", "game"),
		players:  make(map[string]*ledger.Player),
		started:  make(map[string]int),
	}
}

// Catalog returns the content catalog.
func (g *Game) Catalog() *catalog.Catalog { return g.cat }

// World returns the tile groups.
func (g *Game) World() *territory.World { return g.world }

// Calendar returns the game calendar.
func (g *Game) Calendar() *Calendar { return g.calendar }

// Turn returns the current turn.
func (g *Game) Turn() int { return g.calendar.Turn() }

// Date returns the current date.
func (g *Game) Date() int { return g.calendar.Date() }

// AddPlayer creates a player bound to the game's catalog, calendar and bus.
func (g *Game) AddPlayer(opts ledger.Options) (*ledger.Player, error) {
	if _, ok := g.players[opts.Name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, opts.Name)
	}
	opts.Catalog = g.cat
	opts.Clock = g.calendar
	opts.Bus = g.bus
	opts.Logger = g.logger
	p, err := ledger.New(opts)
	if err != nil {
		return nil, err
	}
	g.players[p.Name()] = p
	g.order = append(g.order, p.Name())
	g.started[p.Name()] = -1
	g.logger.Info("player joined", "player", p.Name(), "players", len(g.order))
	return p, nil
}

// Player returns a player by name.
func (g *Game) Player(name string) (*ledger.Player, error) {
	p, ok := g.players[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
	}
	return p, nil
}

// Players returns every player in join order.
func (g *Game) Players() []*ledger.Player {
	out := make([]*ledger.Player, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.players[name])
	}
	return out
}

// BeginTurn runs a player's turn-start hooks once per turn.
func (g *Game) BeginTurn(name string) error {
	p, err := g.Player(name)
	if err != nil {
		return err
	}
	turn := g.calendar.Turn()
	if g.started[name] == turn {
		return fmt.Errorf("%w: %s turn %d", ErrTurnAlreadyStarted, name, turn)
	}
	g.started[name] = turn
	return p.BeginTurn()
}

// EndRound advances the calendar.
func (g *Game) EndRound() {
	g.calendar.Advance()
	g.logger.Debug("round ended", "turn", g.calendar.Turn(), "date", g.calendar.Date())
}

// PlayRound begins every player's turn, lets act issue that player's
// orders, then ends the round. Errors from individual players are
// collected; cancellation stops the round between players.
func (g *Game) PlayRound(ctx context.Context, act func(*ledger.Player) error) error {
	var errs []error
	for _, p := range g.Players() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g.BeginTurn(p.Name()); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
		if act == nil {
			continue
		}
		if err := act(p); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	g.EndRound()
	return errors.Join(errs...)
}

// Settle completes a trade: amount of r leaves the seller's trading
// counter for the buyer, and the buyer pays price in money to the seller.
// Every side is validated before anything moves.
func (g *Game) Settle(seller, buyer string, r *catalog.Type, amount, price int) error {
	from, err := g.Player(seller)
	if err != nil {
		return err
	}
	to, err := g.Player(buyer)
	if err != nil {
		return err
	}
	money := g.cat.Money()
	if from.Transport().Trading(r) < amount {
		return fmt.Errorf("settle: seller %s: %w", seller, transfer.ErrInsufficient)
	}
	if !to.CanTake(money, price) {
		return fmt.Errorf("settle: buyer %s cannot pay %d: %w", buyer, price, transfer.ErrInsufficient)
	}
	if !from.CanGive(money, price) {
		return fmt.Errorf("settle: seller %s: %w", seller, transfer.ErrCannotReceive)
	}
	if err := from.Transport().FinishTrade(to, r, amount); err != nil {
		return fmt.Errorf("settle: %w", err)
	}
	if err := to.Take(money, price); err != nil {
		return fmt.Errorf("settle: %w", err)
	}
	if err := from.Give(money, price); err != nil {
		return fmt.Errorf("settle: %w", err)
	}
	g.logger.Info("trade settled", "seller", seller, "buyer", buyer, "resource", r.Key, "amount", amount, "price", price)
	return nil
}

// Reports returns a report per player, sorted by name.
func (g *Game) Reports() []models.PlayerReport {
	out := make([]models.PlayerReport, 0, len(g.players))
	for _, p := range g.players {
		r := p.Report()
		r.Turn = g.calendar.Turn()
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
