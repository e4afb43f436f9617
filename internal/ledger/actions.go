package ledger

import (
	"fmt"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/gameerr"
)

// ErrWrongKind is returned when an action is given a type of the wrong kind.
var ErrWrongKind = gameerr.Precondition("ledger: wrong kind for action")

// BuildCost returns the price of a new production center of type t.
func BuildCost(t *catalog.Type) (catalog.Batch, error) {
	if !t.Valid() || t.Kind != catalog.KindProductionCenterType || len(t.ProductionLevels) == 0 {
		return catalog.Batch{}, fmt.Errorf("%w: %s is not a production center", ErrWrongKind, t)
	}
	return t.ProductionLevels[0].Cost, nil
}

// RecruitCost returns the price of n new units of type t.
func RecruitCost(t *catalog.Type, n int) (catalog.Batch, error) {
	if !t.Valid() || t.Kind != catalog.KindUnitType || len(t.UnitLevels) == 0 {
		return catalog.Batch{}, fmt.Errorf("%w: %s is not a unit", ErrWrongKind, t)
	}
	return t.UnitLevels[0].Cost.Scale(n), nil
}

// CanBuild reports whether Build would succeed.
func (p *Player) CanBuild(t *catalog.Type) bool {
	cost, err := BuildCost(t)
	return err == nil && p.CanTakeAll(cost) && p.CanGive(t, 1)
}

// Build pays the base level cost of a production center type and adds one
// center to the industry.
func (p *Player) Build(t *catalog.Type) error {
	cost, err := BuildCost(t)
	if err != nil {
		return err
	}
	if err := p.Charge(cost); err != nil {
		return fmt.Errorf("build %s: %w", t.Key, err)
	}
	return p.Give(t, 1)
}

// CanRecruit reports whether Recruit would succeed.
func (p *Player) CanRecruit(t *catalog.Type, n int) bool {
	cost, err := RecruitCost(t, n)
	return err == nil && p.CanTakeAll(cost) && p.CanGive(t, n)
}

// Recruit pays the base level cost of n units and spawns them.
func (p *Player) Recruit(t *catalog.Type, n int) error {
	cost, err := RecruitCost(t, n)
	if err != nil {
		return err
	}
	if !p.CanGive(t, n) {
		return fmt.Errorf("recruit %d %s: %w", n, t.Key, gameerr.Preconditionf("ledger: cannot recruit %d", n))
	}
	if err := p.Charge(cost); err != nil {
		return fmt.Errorf("recruit %s: %w", t.Key, err)
	}
	return p.Give(t, n)
}
