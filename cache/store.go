package cache

import (
	"context"
	"time"

	"github.com/crmarques/srvinv/inventory"
)

// Entry is the last snapshot stored for a collection and the time it was
// fetched. The freshness deadline is RefreshedAt plus the cache duration.
type Entry struct {
	Snapshot    inventory.Snapshot
	RefreshedAt time.Time
}

// Store persists one Entry per collection name. Implementations replace
// entries as a whole and never merge them.
type Store interface {
	// Load reports ok=false when no entry exists for collection.
	Load(ctx context.Context, collection string) (entry Entry, ok bool, err error)
	Save(ctx context.Context, collection string, entry Entry) error
}
