package orders

import (
	"github.com/gravitas-games/aftermath/internal/ledger"
	"github.com/gravitas-games/aftermath/internal/territory"
	"github.com/gravitas-games/aftermath/internal/transfer"
)

// upgradable is satisfied by production centers and units.
type upgradable interface {
	CanUpgrade(acct transfer.Account) bool
	Upgrade(acct transfer.Account) error
	StartUpgrade(acct transfer.Account) error
	CancelUpgrade(acct transfer.Account) error
	Upgrading() bool
	HasNextLevel() bool
}

// Target selects a production center by index, or a unit by the group it
// stands in and its index there.
type Target struct {
	Center *int
	Group  string
	Unit   int
}

func (t Target) resolve(p *ledger.Player) (upgradable, error) {
	if t.Center != nil {
		c, err := p.Industry().Center(*t.Center)
		if err != nil {
			return nil, illegal("%v", err)
		}
		return c, nil
	}
	var group *territory.TileGroup
	for _, g := range append(p.Holdings(), p.Harbor()) {
		if g != nil && g.Name() == t.Group {
			group = g
			break
		}
	}
	if group == nil {
		return nil, illegal("%s does not hold %q", p.Name(), t.Group)
	}
	units := group.Units().Units()
	if t.Unit < 0 || t.Unit >= len(units) {
		return nil, illegal("no unit %d in %s", t.Unit, t.Group)
	}
	return units[t.Unit], nil
}

// Upgrade pays for and applies the next level immediately.
type Upgrade struct {
	Target Target
}

func (o *Upgrade) Type() string { return TypeUpgrade }

func (o *Upgrade) Legal(p *ledger.Player) error {
	u, err := o.Target.resolve(p)
	if err != nil {
		return err
	}
	if !u.CanUpgrade(p) {
		return illegal("cannot upgrade")
	}
	return nil
}

func (o *Upgrade) Apply(p *ledger.Player) error {
	u, err := o.Target.resolve(p)
	if err != nil {
		return err
	}
	return u.Upgrade(p)
}

// StartUpgrade pays for the next level, applied at the next turn start.
type StartUpgrade struct {
	Target Target
}

func (o *StartUpgrade) Type() string { return TypeStartUpgrade }

func (o *StartUpgrade) Legal(p *ledger.Player) error {
	u, err := o.Target.resolve(p)
	if err != nil {
		return err
	}
	if !u.CanUpgrade(p) {
		return illegal("cannot start upgrade")
	}
	return nil
}

func (o *StartUpgrade) Apply(p *ledger.Player) error {
	u, err := o.Target.resolve(p)
	if err != nil {
		return err
	}
	return u.StartUpgrade(p)
}

// CancelUpgrade refunds an upgrade in progress.
type CancelUpgrade struct {
	Target Target
}

func (o *CancelUpgrade) Type() string { return TypeCancelUpgrade }

func (o *CancelUpgrade) Legal(p *ledger.Player) error {
	u, err := o.Target.resolve(p)
	if err != nil {
		return err
	}
	if !u.Upgrading() {
		return illegal("no upgrade in progress")
	}
	return nil
}

func (o *CancelUpgrade) Apply(p *ledger.Player) error {
	u, err := o.Target.resolve(p)
	if err != nil {
		return err
	}
	return u.CancelUpgrade(p)
}
