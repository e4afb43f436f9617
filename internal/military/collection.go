package military

import (
	"fmt"

	"github.com/gravitas-games/aftermath/internal/gameerr"
)

var (
	// ErrRejected is returned when a collection cannot carry a unit.
	ErrRejected = gameerr.Precondition("military: unit rejected by collection")
	// ErrNotMember is returned when removing a unit the collection does not hold.
	ErrNotMember = gameerr.NotFound("military: unit not in collection")
)

// Collection is a group of units gated by CanAdd.
type Collection interface {
	CanAdd(u *Unit) bool
	Add(u *Unit) error
	Remove(u *Unit) error
	Units() []*Unit
	Len() int
	Power() int
}

type roster struct {
	name   string
	accept func(*Unit) bool
	units  []*Unit
}

func (r *roster) CanAdd(u *Unit) bool {
	return u != nil && !u.disbanded && r.accept(u) && r.index(u) < 0
}

func (r *roster) Add(u *Unit) error {
	if !r.CanAdd(u) {
		return fmt.Errorf("%w: %s into %s", ErrRejected, u, r.name)
	}
	r.units = append(r.units, u)
	return nil
}

// Remove takes the unit out of the collection and disbands it.
func (r *roster) Remove(u *Unit) error {
	i := r.index(u)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotMember, u)
	}
	r.units = append(r.units[:i], r.units[i+1:]...)
	u.Disband()
	return nil
}

// RemoveDestroyed disbands every unit with no toughness left.
func (r *roster) RemoveDestroyed() int {
	kept := r.units[:0]
	removed := 0
	for _, u := range r.units {
		if u.Destroyed() {
			u.Disband()
			removed++
			continue
		}
		kept = append(kept, u)
	}
	for i := len(kept); i < len(r.units); i++ {
		r.units[i] = nil
	}
	r.units = kept
	return removed
}

func (r *roster) Units() []*Unit {
	out := make([]*Unit, len(r.units))
	copy(out, r.units)
	return out
}

func (r *roster) Len() int {
	return len(r.units)
}

// Power sums the toughness of every unit.
func (r *roster) Power() int {
	total := 0
	for _, u := range r.units {
		total += u.toughness
	}
	return total
}

func (r *roster) index(u *Unit) int {
	for i, candidate := range r.units {
		if candidate == u {
			return i
		}
	}
	return -1
}

// Army carries land units.
type Army struct {
	roster
}

// NewArmy returns an empty army.
func NewArmy() *Army {
	return &Army{roster{name: "army", accept: (*Unit).Land}}
}

// Navy carries sea units.
type Navy struct {
	roster
}

// NewNavy returns an empty navy.
func NewNavy() *Navy {
	return &Navy{roster{name: "navy", accept: (*Unit).Sea}}
}

var (
	_ Collection = (*Army)(nil)
	_ Collection = (*Navy)(nil)
)
