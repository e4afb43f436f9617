// Package research queues technologies a player has paid for until the
// next turn start.
package research

import (
	"fmt"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/events"
	"github.com/gravitas-games/aftermath/internal/gameerr"
	"github.com/gravitas-games/aftermath/internal/transfer"
)

var (
	// ErrNotTechnology is returned when queueing a non-technology type.
	ErrNotTechnology = gameerr.Precondition("research: not a technology")
	// ErrAlreadyKnown is returned when researching a technology the player has.
	ErrAlreadyKnown = gameerr.Precondition("research: technology already known")
	// ErrAlreadyQueued is returned when researching a technology twice.
	ErrAlreadyQueued = gameerr.Precondition("research: technology already queued")
	// ErrNotQueued is returned when cancelling research that was never started.
	ErrNotQueued = gameerr.Precondition("research: technology not queued")
)

// Knower reports technologies already acquired.
type Knower interface {
	HasTechnology(t *catalog.Type) bool
}

// Queue holds paid-for technologies in start order.
type Queue struct {
	owner  string
	bus    events.Bus
	queued []*catalog.Type
}

// New returns an empty queue.
func New(owner string, bus events.Bus) *Queue {
	if bus == nil {
		bus = events.NewNullBus()
	}
	return &Queue{owner: owner, bus: bus}
}

// Queued returns the technologies in start order.
func (q *Queue) Queued() []*catalog.Type {
	out := make([]*catalog.Type, len(q.queued))
	copy(out, q.queued)
	return out
}

// Has reports whether a technology is queued.
func (q *Queue) Has(tech *catalog.Type) bool {
	return q.index(tech) >= 0
}

// Len returns the number of queued technologies.
func (q *Queue) Len() int {
	return len(q.queued)
}

// CanResearch reports whether StartResearch would succeed.
func (q *Queue) CanResearch(acct transfer.Account, k Knower, tech *catalog.Type) bool {
	return q.check(k, tech) == nil && acct.CanTakeAll(tech.ResearchCost)
}

func (q *Queue) check(k Knower, tech *catalog.Type) error {
	if !tech.Valid() || tech.Kind != catalog.KindTechnology {
		return fmt.Errorf("%w: %s", ErrNotTechnology, tech)
	}
	if k.HasTechnology(tech) {
		return fmt.Errorf("%w: %s", ErrAlreadyKnown, tech.Key)
	}
	if q.Has(tech) {
		return fmt.Errorf("%w: %s", ErrAlreadyQueued, tech.Key)
	}
	return nil
}

// StartResearch charges the technology's research cost and queues it.
func (q *Queue) StartResearch(acct transfer.Account, k Knower, tech *catalog.Type) error {
	if err := q.check(k, tech); err != nil {
		return err
	}
	if err := acct.Charge(tech.ResearchCost); err != nil {
		return fmt.Errorf("research %s: %w", tech.Key, err)
	}
	q.queued = append(q.queued, tech)
	q.publish(events.EventResearchStarted, tech)
	return nil
}

// CancelResearch dequeues a technology and refunds its cost.
func (q *Queue) CancelResearch(acct transfer.Account, tech *catalog.Type) error {
	i := q.index(tech)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotQueued, tech)
	}
	q.queued = append(q.queued[:i], q.queued[i+1:]...)
	acct.Refund(tech.ResearchCost)
	q.publish(events.EventResearchCancelled, tech)
	return nil
}

// FinishResearch credits every queued technology and clears the queue.
// Technologies the account refuses stay queued.
func (q *Queue) FinishResearch(acct transfer.Account) (int, error) {
	var pending []*catalog.Type
	var firstErr error
	learned := 0
	for _, tech := range q.queued {
		var b catalog.Batch
		b.Add(tech, 1)
		if err := acct.Credit(b); err != nil {
			pending = append(pending, tech)
			if firstErr == nil {
				firstErr = fmt.Errorf("finish research %s: %w", tech.Key, err)
			}
			continue
		}
		learned++
		q.publish(events.EventResearchFinished, tech)
	}
	q.queued = pending
	return learned, firstErr
}

func (q *Queue) index(tech *catalog.Type) int {
	for i, t := range q.queued {
		if t == tech {
			return i
		}
	}
	return -1
}

func (q *Queue) publish(t events.EventType, tech *catalog.Type) {
	q.bus.Publish(events.Event{Type: t, Owner: q.owner, Subject: tech.Key, Amount: 1})
}
