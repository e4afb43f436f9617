package ledger

import (
	"fmt"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/events"
	"github.com/gravitas-games/aftermath/internal/gameerr"
	"github.com/gravitas-games/aftermath/internal/transfer"
)

var (
	// ErrUnvalidated is returned when committing a zero Validated token.
	ErrUnvalidated = gameerr.Precondition("ledger: batch was not validated")
	// ErrForeignBatch is returned when committing another player's token.
	ErrForeignBatch = gameerr.Precondition("ledger: batch validated for another player")
	// ErrStaleBatch is returned when the ledger changed after validation.
	ErrStaleBatch = gameerr.Precondition("ledger: batch validated against an older ledger")
)

// Direction says whether a batch is given to or taken from a player.
type Direction int

const (
	// Give adds the batch to the player.
	Give Direction = iota + 1
	// Take removes the batch from the player.
	Take
)

func (d Direction) String() string {
	switch d {
	case Give:
		return "give"
	case Take:
		return "take"
	default:
		return "none"
	}
}

// Validated is a batch that passed every entry's predicate against one
// player's ledger. It can only be obtained from ValidateGive or
// ValidateTake, and is spent by Commit.
type Validated struct {
	player    *Player
	direction Direction
	batch     catalog.Batch
	rev       uint64
}

// Direction returns whether the token gives or takes.
func (v Validated) Direction() Direction { return v.direction }

// Batch returns a copy of the validated entries.
func (v Validated) Batch() catalog.Batch { return v.batch.Clone() }

// IsZero reports whether the token came from validation.
func (v Validated) IsZero() bool { return v.player == nil }

// CanGive reports whether a amount of t could be given.
func (p *Player) CanGive(t *catalog.Type, a int) bool {
	return behaviorOf(t).canGive(p, t, a)
}

// CanTake reports whether a amount of t could be taken.
func (p *Player) CanTake(t *catalog.Type, a int) bool {
	return behaviorOf(t).canTake(p, t, a)
}

// CanGiveAll reports whether every entry of the batch could be given.
func (p *Player) CanGiveAll(b catalog.Batch) bool {
	return b.All(func(t *catalog.Type, a int) bool { return p.CanGive(t, a) })
}

// CanTakeAll reports whether every entry of the batch could be taken.
func (p *Player) CanTakeAll(b catalog.Batch) bool {
	return b.All(func(t *catalog.Type, a int) bool { return p.CanTake(t, a) })
}

// ValidateGive checks every entry before anything is given.
func (p *Player) ValidateGive(b catalog.Batch) (Validated, error) {
	return p.validate(b, Give)
}

// ValidateTake checks every entry before anything is taken.
func (p *Player) ValidateTake(b catalog.Batch) (Validated, error) {
	return p.validate(b, Take)
}

func (p *Player) validate(b catalog.Batch, d Direction) (Validated, error) {
	check, sentinel := p.CanGive, transfer.ErrCannotReceive
	if d == Take {
		check, sentinel = p.CanTake, transfer.ErrInsufficient
	}
	var failed error
	b.All(func(t *catalog.Type, a int) bool {
		if check(t, a) {
			return true
		}
		failed = fmt.Errorf("%w: %s %s %d", sentinel, d, t, a)
		return false
	})
	if failed != nil {
		return Validated{}, failed
	}
	return Validated{player: p, direction: d, batch: b.Clone(), rev: p.rev}, nil
}

// Commit applies a validated batch in entry order. The ledger must not
// have changed since validation.
func (p *Player) Commit(v Validated) error {
	switch {
	case v.IsZero():
		return ErrUnvalidated
	case v.player != p:
		return fmt.Errorf("%w: %s, not %s", ErrForeignBatch, v.player.name, p.name)
	case v.rev != p.rev:
		return ErrStaleBatch
	}
	p.apply(v.batch, v.direction)
	p.publish(events.Event{
		Type:    events.EventTransferCommitted,
		Subject: v.direction.String(),
		Amount:  v.batch.Total(),
		Data:    map[string]any{"entries": keyed(&v.batch)},
	})
	return nil
}

// GiveUnchecked gives every entry in order without validation and without
// rollback. Entries whose predicate fails are applied anyway.
func (p *Player) GiveUnchecked(b catalog.Batch) {
	p.apply(b, Give)
}

// TakeUnchecked takes every entry in order without validation and without
// rollback.
func (p *Player) TakeUnchecked(b catalog.Batch) {
	p.apply(b, Take)
}

func (p *Player) apply(b catalog.Batch, d Direction) {
	b.Each(func(t *catalog.Type, a int) {
		row := behaviorOf(t)
		if d == Give {
			row.give(p, t, a)
		} else {
			row.take(p, t, a)
		}
	})
	p.touch()
	p.logger.Debug("batch applied", "direction", d.String(), "entries", b.Len())
}

// Give validates and gives a single amount.
func (p *Player) Give(t *catalog.Type, a int) error {
	var b catalog.Batch
	b.Add(t, a)
	return p.Credit(b)
}

// Take validates and takes a single amount.
func (p *Player) Take(t *catalog.Type, a int) error {
	var b catalog.Batch
	b.Add(t, a)
	return p.Charge(b)
}

// Charge validates and takes a batch.
func (p *Player) Charge(b catalog.Batch) error {
	v, err := p.ValidateTake(b)
	if err != nil {
		return err
	}
	return p.Commit(v)
}

// Credit validates and gives a batch.
func (p *Player) Credit(b catalog.Batch) error {
	v, err := p.ValidateGive(b)
	if err != nil {
		return err
	}
	return p.Commit(v)
}

// Refund gives back a batch that was charged earlier. It skips validation
// so a refund never fails.
func (p *Player) Refund(b catalog.Batch) {
	p.GiveUnchecked(b)
}

var _ transfer.Account = (*Player)(nil)

func keyed(b *catalog.Batch) map[string]int {
	out := make(map[string]int, b.Len())
	b.Each(func(t *catalog.Type, a int) { out[t.String()] += a })
	return out
}
