// Package military holds leveled land and sea units and the armies and
// navies that carry them.
package military

import (
	"fmt"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/gameerr"
	"github.com/gravitas-games/aftermath/internal/upgrade"
)

// ErrNotUnitType is returned when a unit is built from a non-unit type.
var ErrNotUnitType = gameerr.Precondition("military: not a unit type")

// Owner receives the merchant marine a unit's cargo provides.
type Owner interface {
	AddMerchantMarine(delta int)
}

// Unit is a leveled military unit. While it lives, its owner's merchant
// marine includes the cargo of its current level.
type Unit struct {
	*upgrade.Entity[*catalog.UnitLevel]

	typ       *catalog.Type
	owner     Owner
	toughness int
	disbanded bool
}

// NewUnit creates a level-0 unit and credits its cargo to the owner.
func NewUnit(t *catalog.Type, owner Owner) (*Unit, error) {
	if !t.Valid() || t.Kind != catalog.KindUnitType {
		return nil, fmt.Errorf("%w: %s", ErrNotUnitType, t)
	}
	entity, err := upgrade.New(t.UnitLevels)
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", t.Key, err)
	}
	u := &Unit{
		Entity:    entity,
		typ:       t,
		owner:     owner,
		toughness: entity.Level().Power,
	}
	entity.OnFinish(u.levelChanged)
	owner.AddMerchantMarine(entity.Level().Cargo)
	return u, nil
}

// levelChanged moves the cargo delta onto the owner.
func (u *Unit) levelChanged(prev, next *catalog.UnitLevel) {
	if u.disbanded {
		return
	}
	u.owner.AddMerchantMarine(next.Cargo - prev.Cargo)
}

// Type returns the unit's catalog type.
func (u *Unit) Type() *catalog.Type {
	return u.typ
}

// Land reports whether the unit travels on land.
func (u *Unit) Land() bool {
	return u.typ.Land
}

// Sea reports whether the unit travels on water.
func (u *Unit) Sea() bool {
	return u.typ.Sea
}

// Toughness returns the damage the unit can still absorb.
func (u *Unit) Toughness() int {
	return u.toughness
}

// SetToughness overwrites the unit's toughness.
func (u *Unit) SetToughness(n int) {
	u.toughness = n
}

// Damage subtracts n from toughness. Toughness may go negative.
func (u *Unit) Damage(n int) {
	u.toughness -= n
}

// Destroyed reports whether the unit has no toughness left.
func (u *Unit) Destroyed() bool {
	return u.toughness <= 0
}

// Disband releases the unit's cargo from its owner. It is safe to call
// more than once.
func (u *Unit) Disband() {
	if u.disbanded {
		return
	}
	u.disbanded = true
	u.owner.AddMerchantMarine(-u.Level().Cargo)
}

// Disbanded reports whether the unit has been disbanded.
func (u *Unit) Disbanded() bool {
	return u.disbanded
}

func (u *Unit) String() string {
	return fmt.Sprintf("%s[L%d %d]", u.typ.Key, u.Index(), u.toughness)
}
