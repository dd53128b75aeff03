// Package bank provides the in-process currency ledger backing the engine's
// transfer collaborator contract. Each transfer is atomic: it either moves
// the full amount or fails with INSUFFICIENT_FUNDS and changes nothing.
package bank

import (
	"context"
	"strconv"
	"sync"

	apperrors "github.com/louisbranch/giving.space/internal/errors"
	"github.com/louisbranch/giving.space/internal/ledger/domain"
)

// Ledger tracks fungible currency balances per identity.
type Ledger struct {
	mu       sync.Mutex
	balances map[domain.Identity]uint64
}

// New creates an empty currency ledger.
func New() *Ledger {
	return &Ledger{balances: make(map[domain.Identity]uint64)}
}

// Deposit credits an account. Used to fund accounts from outside the engine.
func (l *Ledger) Deposit(account domain.Identity, amount uint64) {
	if l == nil || account.IsZero() {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amount
}

// Balance returns the current balance for an account.
func (l *Ledger) Balance(account domain.Identity) uint64 {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account]
}

// Transfer moves amount from one account to another. A zero amount succeeds
// without touching balances. Overdrafts fail with INSUFFICIENT_FUNDS.
func (l *Ledger) Transfer(ctx context.Context, amount uint64, from, to domain.Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l == nil {
		return apperrors.New(apperrors.CodeUnknown, "bank is not configured")
	}
	if from.IsZero() || to.IsZero() {
		return apperrors.New(apperrors.CodeInvalidParameter, "transfer accounts are required")
	}
	if amount == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[from] < amount {
		return apperrors.WithMetadata(apperrors.CodeInsufficientFunds,
			"balance is below transfer amount",
			map[string]string{
				"Amount":  strconv.FormatUint(amount, 10),
				"Balance": strconv.FormatUint(l.balances[from], 10),
			})
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}
