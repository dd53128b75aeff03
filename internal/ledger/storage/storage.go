// Package storage defines persistence contracts for ledger state.
package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/giving.space/internal/ledger/engine"
)

// ErrNotFound indicates no snapshot has been persisted yet.
var ErrNotFound = errors.New("record not found")

// StateStore persists complete ledger snapshots.
type StateStore interface {
	SaveState(ctx context.Context, state engine.State) error
	LoadState(ctx context.Context) (engine.State, error)
	Close() error
}
