// Package transfertest provides an in-memory transfer.Account for tests.
package transfertest

import (
	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/transfer"
)

// Wallet treats every catalog type as a plain stock. Types listed in
// Refuse can never be given, which lets tests exercise CanGiveAll failures.
type Wallet struct {
	Stock  catalog.Batch
	Refuse map[*catalog.Type]bool

	Charges int
	Credits int
	Refunds int
}

var _ transfer.Account = (*Wallet)(nil)

// NewWallet returns an empty wallet.
func NewWallet() *Wallet {
	return &Wallet{Refuse: make(map[*catalog.Type]bool)}
}

// CanGiveAll reports whether every amount is non-negative and accepted.
func (w *Wallet) CanGiveAll(b catalog.Batch) bool {
	return b.All(func(t *catalog.Type, n int) bool {
		return n >= 0 && !w.Refuse[t]
	})
}

// CanTakeAll reports whether the wallet holds every amount.
func (w *Wallet) CanTakeAll(b catalog.Batch) bool {
	return b.All(func(t *catalog.Type, n int) bool {
		return n >= 0 && w.Stock.Get(t) >= n
	})
}

// Charge removes the batch after validating it.
func (w *Wallet) Charge(b catalog.Batch) error {
	if !w.CanTakeAll(b) {
		return transfer.ErrInsufficient
	}
	b.Each(func(t *catalog.Type, n int) { w.Stock.Add(t, -n) })
	w.Charges++
	return nil
}

// Credit adds the batch after validating it.
func (w *Wallet) Credit(b catalog.Batch) error {
	if !w.CanGiveAll(b) {
		return transfer.ErrCannotReceive
	}
	b.Each(func(t *catalog.Type, n int) { w.Stock.Add(t, n) })
	w.Credits++
	return nil
}

// Refund adds the batch without validation.
func (w *Wallet) Refund(b catalog.Batch) {
	b.Each(func(t *catalog.Type, n int) { w.Stock.Add(t, n) })
	w.Refunds++
}
