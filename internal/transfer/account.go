// Package transfer defines the contract that production, transport,
// research and upgrades use to pay for things and to deliver results.
package transfer

import (
	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/gameerr"
)

var (
	// ErrInsufficient is returned when a batch cannot be taken.
	ErrInsufficient = gameerr.Insufficient("transfer: cannot take batch")
	// ErrCannotReceive is returned when a batch cannot be given.
	ErrCannotReceive = gameerr.Insufficient("transfer: cannot give batch")
)

// Account is anything that can pay and be paid in catalog batches.
//
// Charge and Credit validate the whole batch before mutating anything and
// return ErrInsufficient or ErrCannotReceive without side effects. Refund
// returns a previously charged batch without validation; it never fails and
// never rolls back.
type Account interface {
	CanGiveAll(b catalog.Batch) bool
	CanTakeAll(b catalog.Batch) bool
	Charge(b catalog.Batch) error
	Credit(b catalog.Batch) error
	Refund(b catalog.Batch)
}
