package industry

import (
	"errors"
	"fmt"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/counter"
	"github.com/gravitas-games/aftermath/internal/events"
	"github.com/gravitas-games/aftermath/internal/gameerr"
	"github.com/gravitas-games/aftermath/internal/transfer"
	"github.com/gravitas-games/aftermath/internal/upgrade"
	"github.com/gravitas-games/aftermath/pkg/models"
)

var (
	// ErrFormulaUnsupported is returned when a center's type does not list the formula.
	ErrFormulaUnsupported = gameerr.Precondition("industry: formula not supported by this center")
	// ErrOutputCeiling is returned when another unit would exceed the level's max output.
	ErrOutputCeiling = gameerr.Capacity("industry: output ceiling reached")
	// ErrNotProducing is returned when cancelling a formula with nothing in flight.
	ErrNotProducing = gameerr.Precondition("industry: formula not in production")
)

// Center is a leveled production center. Each unit of a formula in flight
// has already been paid for and delivers its output at the next turn start.
type Center struct {
	*upgrade.Entity[*catalog.ProductionLevel]

	id        int
	typ       *catalog.Type
	producing counter.Counter[*catalog.Formula]
	industry  *Industry
}

func newCenter(ind *Industry, t *catalog.Type) (*Center, error) {
	entity, err := upgrade.New(t.ProductionLevels)
	if err != nil {
		return nil, err
	}
	ind.nextID++
	return &Center{
		Entity:   entity,
		id:       ind.nextID,
		typ:      t,
		industry: ind,
	}, nil
}

// ID identifies the center within its industry.
func (c *Center) ID() int {
	return c.id
}

// Type returns the catalog type of the center.
func (c *Center) Type() *catalog.Type {
	return c.typ
}

// Producing returns how many units of a formula are in flight.
func (c *Center) Producing(f *catalog.Formula) int {
	return c.producing.Get(f)
}

// InFlight returns the number of units in flight across all formulas.
func (c *Center) InFlight() int {
	return c.producing.Total()
}

// CanProduce reports whether one more unit of the formula could start.
func (c *Center) CanProduce(acct transfer.Account, f *catalog.Formula) bool {
	if err := c.checkProduce(f); err != nil {
		return false
	}
	return acct.CanTakeAll(f.Input) && acct.CanGiveAll(f.Output)
}

func (c *Center) checkProduce(f *catalog.Formula) error {
	if !c.typ.Supports(f) {
		return fmt.Errorf("%w: %s at %s", ErrFormulaUnsupported, f, c.typ.Key)
	}
	ceiling := c.Level().MaxOutput
	units := c.producing.Get(f) + 1
	ok := f.Output.All(func(_ *catalog.Type, amount int) bool {
		return amount*units <= ceiling
	})
	if !ok {
		return fmt.Errorf("%w: %s at %s level %d", ErrOutputCeiling, f.Key, c.typ.Key, c.Index())
	}
	return nil
}

// StartProduction pays for one unit of the formula and puts it in flight.
func (c *Center) StartProduction(acct transfer.Account, f *catalog.Formula) error {
	if err := c.checkProduce(f); err != nil {
		return err
	}
	if !acct.CanGiveAll(f.Output) {
		return fmt.Errorf("start %s: %w", f.Key, transfer.ErrCannotReceive)
	}
	if err := acct.Charge(f.Input); err != nil {
		return fmt.Errorf("start %s: %w", f.Key, err)
	}
	c.producing.Add(f, 1)
	c.industry.publish(events.Event{
		Type:    events.EventProductionStarted,
		Subject: f.Key,
		Amount:  1,
		Data:    map[string]any{"center": c.id, "center_type": c.typ.Key},
	})
	return nil
}

// CancelProduction takes one unit out of flight and refunds its input.
func (c *Center) CancelProduction(acct transfer.Account, f *catalog.Formula) error {
	if c.producing.Get(f) <= 0 {
		return fmt.Errorf("%w: %s", ErrNotProducing, f)
	}
	c.producing.Add(f, -1)
	acct.Refund(f.Input)
	c.industry.publish(events.Event{
		Type:    events.EventProductionCancelled,
		Subject: f.Key,
		Amount:  1,
		Data:    map[string]any{"center": c.id, "center_type": c.typ.Key},
	})
	return nil
}

// FinishProduction delivers the output of every unit in flight and zeroes
// the counts. Output that the account refuses is reported, not retried.
func (c *Center) FinishProduction(acct transfer.Account) (int, error) {
	delivered := 0
	var errs []error
	c.producing.Each(func(f *catalog.Formula, n int) {
		if n <= 0 {
			return
		}
		for i := 0; i < n; i++ {
			if err := acct.Credit(f.Output); err != nil {
				errs = append(errs, fmt.Errorf("deliver %s: %w", f.Key, err))
				continue
			}
			delivered++
		}
		c.industry.publish(events.Event{
			Type:    events.EventProductionFinished,
			Subject: f.Key,
			Amount:  n,
			Data:    map[string]any{"center": c.id, "center_type": c.typ.Key},
		})
	})
	for _, f := range c.producing.Keys() {
		c.producing.Set(f, 0)
	}
	if delivered > 0 {
		c.industry.logger.Debug("production finished", "center", c.id, "units", delivered)
	}
	return delivered, errors.Join(errs...)
}

// Upgrade raises the center one level immediately.
func (c *Center) Upgrade(acct transfer.Account) error {
	if err := c.Entity.Upgrade(acct); err != nil {
		return err
	}
	c.publishUpgrade(events.EventUpgradeFinished)
	return nil
}

// StartUpgrade pays for the next level; the level is reached at turn start.
func (c *Center) StartUpgrade(acct transfer.Account) error {
	if err := c.Entity.StartUpgrade(acct); err != nil {
		return err
	}
	c.publishUpgrade(events.EventUpgradeStarted)
	return nil
}

// CancelUpgrade refunds a deferred upgrade.
func (c *Center) CancelUpgrade(acct transfer.Account) error {
	if err := c.Entity.CancelUpgrade(acct); err != nil {
		return err
	}
	c.publishUpgrade(events.EventUpgradeCancelled)
	return nil
}

// FinishUpgrade completes a deferred upgrade.
func (c *Center) FinishUpgrade() error {
	if err := c.Entity.FinishUpgrade(); err != nil {
		return err
	}
	c.publishUpgrade(events.EventUpgradeFinished)
	return nil
}

func (c *Center) publishUpgrade(t events.EventType) {
	c.industry.publish(events.Event{
		Type:    t,
		Subject: c.typ.Key,
		Amount:  c.Index(),
		Data:    map[string]any{"center": c.id},
	})
}

func (c *Center) report() models.CenterReport {
	r := models.CenterReport{
		Type:      c.typ.Key,
		Level:     c.Index(),
		Upgrading: c.Upgrading(),
	}
	c.producing.Each(func(f *catalog.Formula, n int) {
		if n == 0 {
			return
		}
		if r.Producing == nil {
			r.Producing = make(map[string]int)
		}
		r.Producing[f.Key] = n
	})
	return r
}
