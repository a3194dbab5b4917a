package archive

import (
	"context"
	"time"
)

// Store persists archive bundles. Implementations own the atomicity of the
// retrieval-statistics increment; the engines never read-modify-write
// counters themselves. Save must be idempotent create-if-not-exists so
// concurrent archival runs cannot corrupt state.
type Store interface {
	// Save persists a new archive. Saving an id that already exists is a
	// no-op, not an error.
	Save(ctx context.Context, arch *Archive) error

	// GetByID returns the archive or sentinel.ErrNotFound.
	GetByID(ctx context.Context, id string) (*Archive, error)

	// FindMatching returns archives matching the archive-level filters of
	// the request (id, data classifications, retention policies), in
	// creation order. Record-level filters and pagination are applied by
	// the retrieval engine, not the store.
	FindMatching(ctx context.Context, req RetrievalRequest) ([]*Archive, error)

	// UpdateRetrievalStats atomically increments the archive's retrieved
	// count and sets its last-retrieved timestamp.
	UpdateRetrievalStats(ctx context.Context, id string, retrievedAt time.Time) error
}
