// Package scenario loads a scripted game: the world, the players and the
// orders each player issues per turn.
package scenario

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/events"
	"github.com/gravitas-games/aftermath/internal/game"
	"github.com/gravitas-games/aftermath/internal/gameerr"
	"github.com/gravitas-games/aftermath/internal/ledger"
	"github.com/gravitas-games/aftermath/internal/orders"
	"github.com/gravitas-games/aftermath/internal/territory"
)

// Scenario is a scripted game.
type Scenario struct {
	Name    string               `yaml:"name"`
	Turns   int                  `yaml:"turns"`
	World   []territory.GroupDoc `yaml:"world"`
	Players []PlayerDoc          `yaml:"players"`
}

// PlayerDoc places a player and lists its orders.
type PlayerDoc struct {
	Name     string   `yaml:"name"`
	Nation   string   `yaml:"nation"`
	Capital  string   `yaml:"capital"`
	Harbor   string   `yaml:"harbor"`
	Holdings []string `yaml:"holdings"`

	// EveryTurn runs before the turn's own orders.
	EveryTurn []orders.Envelope         `yaml:"every_turn"`
	Orders    map[int][]orders.Envelope `yaml:"orders"`
}

// Result summarises a run.
type Result struct {
	Turns    int
	Applied  int
	Rejected int
}

// Load reads a scenario file. Unknown fields are rejected.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scenario document.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, gameerr.WrapValidation("scenario: parse", err)
	}
	if len(s.Players) == 0 {
		return nil, gameerr.Validation("scenario: no players")
	}
	return &s, nil
}

// Setup builds the world and joins every player.
func (s *Scenario) Setup(cat *catalog.Catalog, bus events.Bus, logger *slog.Logger) (*game.Game, error) {
	world, err := territory.Build(s.World, cat, logger)
	if err != nil {
		return nil, err
	}
	g := game.New(cat, world, bus, logger)
	for _, pd := range s.Players {
		opts := ledger.Options{Name: pd.Name, Nation: pd.Nation}
		if opts.Capital, err = optionalGroup(world, pd.Capital); err != nil {
			return nil, fmt.Errorf("player %s capital: %w", pd.Name, err)
		}
		if opts.Harbor, err = optionalGroup(world, pd.Harbor); err != nil {
			return nil, fmt.Errorf("player %s harbor: %w", pd.Name, err)
		}
		for _, name := range pd.Holdings {
			h, err := world.Group(name)
			if err != nil {
				return nil, fmt.Errorf("player %s holding: %w", pd.Name, err)
			}
			opts.Holdings = append(opts.Holdings, h)
		}
		if _, err := g.AddPlayer(opts); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func optionalGroup(w *territory.World, name string) (*territory.TileGroup, error) {
	if name == "" {
		return nil, nil
	}
	return w.Group(name)
}

type plan struct {
	every []orders.Order
	turns map[int][]orders.Order
}

func (s *Scenario) decode(g *game.Game) (map[string]plan, error) {
	plans := make(map[string]plan, len(s.Players))
	for _, pd := range s.Players {
		pl := plan{turns: make(map[int][]orders.Order, len(pd.Orders))}
		for _, env := range pd.EveryTurn {
			o, err := orders.Decode(env, g)
			if err != nil {
				return nil, fmt.Errorf("player %s every_turn: %w", pd.Name, err)
			}
			pl.every = append(pl.every, o)
		}
		for turn, envs := range pd.Orders {
			for _, env := range envs {
				o, err := orders.Decode(env, g)
				if err != nil {
					return nil, fmt.Errorf("player %s turn %d: %w", pd.Name, turn, err)
				}
				pl.turns[turn] = append(pl.turns[turn], o)
			}
		}
		plans[pd.Name] = pl
	}
	return plans, nil
}

// Run plays turns rounds. Every order is decoded before the first round;
// illegal orders are then logged and skipped.
func (s *Scenario) Run(ctx context.Context, g *game.Game, turns int, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "scenario", "scenario", s.Name)

	plans, err := s.decode(g)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for i := 0; i < turns; i++ {
		turn := g.Turn()
		err := g.PlayRound(ctx, func(p *ledger.Player) error {
			pl := plans[p.Name()]
			for _, o := range append(append([]orders.Order(nil), pl.every...), pl.turns[turn]...) {
				if err := orders.Execute(o, p); err != nil {
					if errors.Is(err, orders.ErrIllegal) {
						logger.Info("order rejected", "player", p.Name(), "turn", turn, "order", o.Type(), "reason", err)
					} else {
						logger.Warn("order failed", "player", p.Name(), "turn", turn, "order", o.Type(), "error", err)
					}
					res.Rejected++
					continue
				}
				res.Applied++
			}
			return nil
		})
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		if err != nil {
			logger.Warn("turn start incomplete", "turn", turn, "error", err)
		}
		res.Turns++
	}
	logger.Info("scenario finished", "turns", res.Turns, "applied", res.Applied, "rejected", res.Rejected)
	return res, nil
}
