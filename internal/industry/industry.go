// Package industry holds a player's labor pool and production centers.
package industry

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/counter"
	"github.com/gravitas-games/aftermath/internal/events"
	"github.com/gravitas-games/aftermath/internal/gameerr"
	"github.com/gravitas-games/aftermath/internal/transfer"
	"github.com/gravitas-games/aftermath/pkg/models"
)

// ErrUnknownCenter is returned for an out-of-range center index.
var ErrUnknownCenter = gameerr.NotFound("industry: no such production center")

// Industry tracks workers, allocated labor and the production centers a
// player owns. It does not bound labor allocation itself; the Labor kind's
// predicates do.
type Industry struct {
	owner     string
	bus       events.Bus
	logger    *slog.Logger
	workers   counter.Counter[*catalog.Type]
	allocated int
	centers   []*Center
	nextID    int
}

// New creates an empty industry for the named owner.
func New(owner string, bus events.Bus, logger *slog.Logger) *Industry {
	if bus == nil {
		bus = events.NewNullBus()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Industry{
		owner:  owner,
		bus:    bus,
		logger: logger.With("component", "industry", "owner", owner),
	}
}

// CountWorkers returns the number of workers of a type.
func (ind *Industry) CountWorkers(t *catalog.Type) int {
	return ind.workers.Get(t)
}

// AddWorkers adds n workers of a type.
func (ind *Industry) AddWorkers(t *catalog.Type, n int) {
	ind.workers.Add(t, n)
}

// RemoveWorkers removes n workers of a type.
func (ind *Industry) RemoveWorkers(t *catalog.Type, n int) {
	ind.workers.Add(t, -n)
}

// Workers returns a copy of the worker counter.
func (ind *Industry) Workers() catalog.Batch {
	return ind.workers.Clone()
}

// MaxLabor sums count times labor over every worker type. It is recomputed
// on each call.
func (ind *Industry) MaxLabor() int {
	total := 0
	ind.workers.Each(func(t *catalog.Type, n int) {
		if t != nil {
			total += n * t.Labor
		}
	})
	return total
}

// AllocatedLabor returns the labor currently in use.
func (ind *Industry) AllocatedLabor() int {
	return ind.allocated
}

// FreeLabor returns MaxLabor minus AllocatedLabor.
func (ind *Industry) FreeLabor() int {
	return ind.MaxLabor() - ind.allocated
}

// AllocateLabor adjusts allocated labor by n; negative n releases labor.
func (ind *Industry) AllocateLabor(n int) {
	ind.allocated += n
}

// ReleaseLabor returns all allocated labor to the pool.
func (ind *Industry) ReleaseLabor() int {
	released := ind.allocated
	ind.allocated = 0
	return released
}

// Build adds a new level-0 center of a production center type.
func (ind *Industry) Build(t *catalog.Type) (*Center, error) {
	if !t.Valid() || t.Kind != catalog.KindProductionCenterType {
		return nil, gameerr.Preconditionf("industry: %s is not a production center type", t)
	}
	c, err := newCenter(ind, t)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", t.Key, err)
	}
	ind.centers = append(ind.centers, c)
	ind.logger.Debug("production center built", "type", t.Key, "center", c.id)
	return c, nil
}

// Centers returns the production centers in build order.
func (ind *Industry) Centers() []*Center {
	out := make([]*Center, len(ind.centers))
	copy(out, ind.centers)
	return out
}

// Center returns the i-th center.
func (ind *Industry) Center(i int) (*Center, error) {
	if i < 0 || i >= len(ind.centers) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCenter, i)
	}
	return ind.centers[i], nil
}

// Len returns the number of centers.
func (ind *Industry) Len() int {
	return len(ind.centers)
}

// FinishProduction delivers every center's in-flight output. It must run
// once per turn; a second call delivers nothing because counts are zeroed.
func (ind *Industry) FinishProduction(acct transfer.Account) (int, error) {
	delivered := 0
	var errs []error
	for _, c := range ind.centers {
		n, err := c.FinishProduction(acct)
		delivered += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	return delivered, errors.Join(errs...)
}

// FinishUpgrades completes every deferred center upgrade.
func (ind *Industry) FinishUpgrades() (int, error) {
	finished := 0
	var errs []error
	for _, c := range ind.centers {
		if !c.Upgrading() {
			continue
		}
		if err := c.FinishUpgrade(); err != nil {
			errs = append(errs, err)
			continue
		}
		finished++
	}
	return finished, errors.Join(errs...)
}

// Report fills the industry section of a player report.
func (ind *Industry) Report(r *models.PlayerReport) {
	r.MaxLabor = ind.MaxLabor()
	r.AllocatedLabor = ind.allocated
	if ind.workers.Len() > 0 {
		r.Workers = make(map[string]int, ind.workers.Len())
		ind.workers.Each(func(t *catalog.Type, n int) { r.Workers[t.Key] = n })
	}
	for _, c := range ind.centers {
		r.Centers = append(r.Centers, c.report())
	}
}

func (ind *Industry) publish(e events.Event) {
	e.Owner = ind.owner
	ind.bus.Publish(e)
}
