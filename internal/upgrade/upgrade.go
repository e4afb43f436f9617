// Package upgrade implements the leveled state machine shared by production
// centers and military units.
//
//	level=i, idle  --StartUpgrade-->  level=i, upgrading
//	level=i, upgrading  --CancelUpgrade-->  level=i, idle
//	level=i, upgrading  --FinishUpgrade-->  level=i+1, idle
//
// Upgrade performs start and finish back to back.
package upgrade

import (
	"fmt"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/gameerr"
	"github.com/gravitas-games/aftermath/internal/transfer"
)

var (
	// ErrNoLevels is returned when an entity is built over an empty level list.
	ErrNoLevels = gameerr.Precondition("upgrade: no levels")
	// ErrNoNextLevel is returned when advancing past the last level.
	ErrNoNextLevel = gameerr.Precondition("upgrade: already at the last level")
	// ErrAlreadyUpgrading is returned when starting a second upgrade.
	ErrAlreadyUpgrading = gameerr.Precondition("upgrade: already upgrading")
	// ErrNotUpgrading is returned when cancelling with no upgrade in progress.
	ErrNotUpgrading = gameerr.Precondition("upgrade: not upgrading")
)

// Level is a catalog level with the cost of reaching it.
type Level interface {
	UpgradeCost() catalog.Batch
}

// FinishHook runs when an upgrade completes, before the level index moves.
type FinishHook[L Level] func(previous, next L)

// Entity tracks a level index into catalog-owned levels.
type Entity[L Level] struct {
	levels    []L
	level     int
	upgrading bool
	onFinish  FinishHook[L]
}

// New returns an entity at level 0. The levels slice is borrowed, not copied.
func New[L Level](levels []L) (*Entity[L], error) {
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}
	return &Entity[L]{levels: levels}, nil
}

// OnFinish installs a hook that sees every completed upgrade.
func (e *Entity[L]) OnFinish(hook FinishHook[L]) {
	e.onFinish = hook
}

// Level returns the current level.
func (e *Entity[L]) Level() L {
	return e.levels[e.level]
}

// Index returns the current level index.
func (e *Entity[L]) Index() int {
	return e.level
}

// Levels returns the number of levels.
func (e *Entity[L]) Levels() int {
	return len(e.levels)
}

// HasNextLevel reports whether another level exists.
func (e *Entity[L]) HasNextLevel() bool {
	return e.level+1 < len(e.levels)
}

// NextLevel returns the next level, if any.
func (e *Entity[L]) NextLevel() (L, bool) {
	if !e.HasNextLevel() {
		var zero L
		return zero, false
	}
	return e.levels[e.level+1], true
}

// Cost returns the cost of the next level.
func (e *Entity[L]) Cost() (catalog.Batch, bool) {
	next, ok := e.NextLevel()
	if !ok {
		return catalog.Batch{}, false
	}
	return next.UpgradeCost(), true
}

// Upgrading reports whether an upgrade is in progress.
func (e *Entity[L]) Upgrading() bool {
	return e.upgrading
}

// CanUpgrade reports whether an upgrade could start now.
func (e *Entity[L]) CanUpgrade(acct transfer.Account) bool {
	if e.upgrading {
		return false
	}
	cost, ok := e.Cost()
	return ok && acct.CanTakeAll(cost)
}

// Upgrade charges the next level's cost and advances immediately.
func (e *Entity[L]) Upgrade(acct transfer.Account) error {
	if err := e.StartUpgrade(acct); err != nil {
		return err
	}
	return e.FinishUpgrade()
}

// StartUpgrade charges the next level's cost and marks the entity upgrading.
// Nothing changes if the charge is refused.
func (e *Entity[L]) StartUpgrade(acct transfer.Account) error {
	if e.upgrading {
		return ErrAlreadyUpgrading
	}
	cost, ok := e.Cost()
	if !ok {
		return ErrNoNextLevel
	}
	if err := acct.Charge(cost); err != nil {
		return fmt.Errorf("upgrade to level %d: %w", e.level+1, err)
	}
	e.upgrading = true
	return nil
}

// CancelUpgrade refunds the next level's cost.
func (e *Entity[L]) CancelUpgrade(acct transfer.Account) error {
	if !e.upgrading {
		return ErrNotUpgrading
	}
	cost, ok := e.Cost()
	if !ok {
		return ErrNoNextLevel
	}
	acct.Refund(cost)
	e.upgrading = false
	return nil
}

// FinishUpgrade advances one level. It does not require a prior
// StartUpgrade; units use it directly when raised above the base level.
func (e *Entity[L]) FinishUpgrade() error {
	next, ok := e.NextLevel()
	if !ok {
		return ErrNoNextLevel
	}
	if e.onFinish != nil {
		e.onFinish(e.levels[e.level], next)
	}
	e.upgrading = false
	e.level++
	return nil
}
