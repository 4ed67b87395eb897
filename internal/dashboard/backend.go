package dashboard

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"movieflix/internal/media"
	"movieflix/internal/services"
)

// Backend supplies and mutates the collection.
type Backend interface {
	ListEntries(ctx context.Context) ([]media.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// Cache persists the most recent successful listing.
type Cache interface {
	SaveSnapshot(ctx context.Context, entries []media.Entry) error
}

// MemoryBackend keeps entries in process. It backs demo mode and tests.
type MemoryBackend struct {
	mu      sync.Mutex
	entries []media.Entry
}

// NewMemoryBackend copies entries into a new backend.
func NewMemoryBackend(entries []media.Entry) *MemoryBackend {
	return &MemoryBackend{entries: slices.Clone(entries)}
}

// ListEntries returns a copy of the stored entries.
func (b *MemoryBackend) ListEntries(ctx context.Context) ([]media.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.entries), nil
}

// DeleteEntry removes the entry with id.
func (b *MemoryBackend) DeleteEntry(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := slices.IndexFunc(b.entries, func(e media.Entry) bool { return e.ID == id })
	if idx < 0 {
		return services.Wrap(services.ErrNotFound, "dashboard", "delete", fmt.Sprintf("entry %s", id), nil)
	}
	b.entries = slices.Delete(b.entries, idx, idx+1)
	return nil
}
