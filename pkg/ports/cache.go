package ports

import (
	"context"
	"errors"

	"github.com/tendhq/tend/pkg/domain"
)

// ErrNoSnapshot is returned by SnapshotCache.Load when nothing has
// been persisted yet.
var ErrNoSnapshot = errors.New("no cached snapshot")

// SnapshotCache persists the last-known-good data set so a fresh
// process can render something before its first fetch completes. It is
// strictly a warm-start optimization: the remote API stays
// authoritative and a fetch always replaces whatever was loaded.
type SnapshotCache interface {
	// Save persists the collections. Best-effort; callers log and
	// continue on error.
	Save(ctx context.Context, data domain.Collections) error

	// Load retrieves the persisted collections, or ErrNoSnapshot.
	Load(ctx context.Context) (domain.Collections, error)
}
