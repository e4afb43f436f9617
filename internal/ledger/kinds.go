package ledger

import (
	"github.com/gravitas-games/aftermath/internal/catalog"
)

// behavior is one row of the transfer table: how a kind is given to and
// taken from a player. Predicates never mutate.
type behavior struct {
	canGive func(p *Player, t *catalog.Type, a int) bool
	give    func(p *Player, t *catalog.Type, a int)
	canTake func(p *Player, t *catalog.Type, a int) bool
	take    func(p *Player, t *catalog.Type, a int)
}

// behaviors is indexed by kind. The KindInvalid row refuses everything.
// It is filled in init because its functions call back into the player,
// whose methods in turn consult the table.
var behaviors [catalog.KindCount]behavior

func never(*Player, *catalog.Type, int) bool { return false }
func always(*Player, *catalog.Type, int) bool { return true }
func nonNegative(_ *Player, _ *catalog.Type, a int) bool { return a >= 0 }
func noop(*Player, *catalog.Type, int) {}

func init() {
	behaviors[catalog.KindInvalid] = behavior{canGive: never, give: noop, canTake: never, take: noop}

	behaviors[catalog.KindMoney] = behavior{
		canGive: nonNegative,
		give:    func(p *Player, _ *catalog.Type, a int) { p.money += a },
		canTake: func(p *Player, _ *catalog.Type, a int) bool { return a >= 0 && p.money >= a },
		take:    func(p *Player, _ *catalog.Type, a int) { p.money -= a },
	}

	behaviors[catalog.KindResource] = behavior{
		canGive: nonNegative,
		give:    func(p *Player, t *catalog.Type, a int) { p.stockpile.Add(t, a) },
		canTake: func(p *Player, t *catalog.Type, a int) bool { return a >= 0 && p.stockpile.Get(t) >= a },
		take:    func(p *Player, t *catalog.Type, a int) { p.stockpile.Add(t, -a) },
	}

	// Taking labor allocates it to a job; giving it back releases it.
	behaviors[catalog.KindLabor] = behavior{
		canGive: func(p *Player, _ *catalog.Type, a int) bool {
			return a >= 0 && p.industry.AllocatedLabor() >= a
		},
		give: func(p *Player, _ *catalog.Type, a int) { p.industry.AllocateLabor(-a) },
		canTake: func(p *Player, _ *catalog.Type, a int) bool {
			return a >= 0 && p.industry.FreeLabor() >= a
		},
		take: func(p *Player, _ *catalog.Type, a int) { p.industry.AllocateLabor(a) },
	}

	behaviors[catalog.KindTechnology] = behavior{
		canGive: always,
		give: func(p *Player, t *catalog.Type, a int) {
			if a > 0 {
				p.learn(t)
			}
		},
		canTake: func(p *Player, t *catalog.Type, a int) bool { return p.HasTechnology(t) == (a > 0) },
		take: func(p *Player, t *catalog.Type, a int) {
			if a > 0 {
				p.forget(t)
			}
		},
	}

	behaviors[catalog.KindMerchantMarine] = behavior{
		canGive: nonNegative,
		give:    func(p *Player, _ *catalog.Type, a int) { p.transport.AddMerchantMarine(a) },
		canTake: func(p *Player, _ *catalog.Type, a int) bool {
			return a >= 0 && p.transport.MerchantMarine() >= a
		},
		take: func(p *Player, _ *catalog.Type, a int) { p.transport.AddMerchantMarine(-a) },
	}

	behaviors[catalog.KindTransportCapacity] = behavior{
		canGive: nonNegative,
		give:    func(p *Player, _ *catalog.Type, a int) { p.transport.AddCapacity(a) },
		canTake: func(p *Player, _ *catalog.Type, a int) bool {
			return a >= 0 && p.transport.Capacity() >= a
		},
		take: func(p *Player, _ *catalog.Type, a int) { p.transport.AddCapacity(-a) },
	}

	behaviors[catalog.KindWorkerType] = behavior{
		canGive: nonNegative,
		give:    func(p *Player, t *catalog.Type, a int) { p.industry.AddWorkers(t, a) },
		canTake: func(p *Player, t *catalog.Type, a int) bool {
			return a >= 0 && p.industry.CountWorkers(t) >= a
		},
		take: func(p *Player, t *catalog.Type, a int) { p.industry.RemoveWorkers(t, a) },
	}

	behaviors[catalog.KindSpecialistType] = behavior{
		canGive: nonNegative,
		give: func(p *Player, t *catalog.Type, a int) {
			for i := 0; i < a; i++ {
				p.placeSpecialist(t)
			}
		},
		canTake: always,
		take:    noop,
	}

	behaviors[catalog.KindUnitType] = behavior{
		canGive: nonNegative,
		give: func(p *Player, t *catalog.Type, a int) {
			for i := 0; i < a; i++ {
				p.spawnUnit(t)
			}
		},
		canTake: always,
		take:    noop,
	}

	behaviors[catalog.KindProductionCenterType] = behavior{
		canGive: nonNegative,
		give: func(p *Player, t *catalog.Type, a int) {
			if a > 0 {
				p.buildCenter(t)
			}
		},
		canTake: always,
		take:    noop,
	}

	// Giving a date has no meaning, so it is never allowed. Taking a date
	// is a requirement check against the game calendar.
	behaviors[catalog.KindDate] = behavior{
		canGive: never,
		give:    noop,
		canTake: func(p *Player, _ *catalog.Type, a int) bool { return p.Date() >= a },
		take:    noop,
	}
}

func behaviorOf(t *catalog.Type) *behavior {
	if !t.Valid() {
		return &behaviors[catalog.KindInvalid]
	}
	return &behaviors[t.Kind]
}
