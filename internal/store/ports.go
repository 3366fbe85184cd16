package store

import (
	"context"

	"carlog/internal/core"
)

// SnapshotStore is the persistence port for full-state snapshots.
type SnapshotStore interface {
	// Load returns the persisted snapshot. ok is false when no usable
	// snapshot exists (never written, or unreadable), in which case the
	// caller falls back to seed state.
	Load(ctx context.Context) (state core.State, ok bool, err error)

	// Save replaces the persisted snapshot.
	Save(ctx context.Context, state core.State) error
}
