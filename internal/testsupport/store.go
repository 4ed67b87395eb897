package testsupport

import (
	"context"
	"testing"

	"movieflix/internal/config"
	"movieflix/internal/localstore"
	"movieflix/internal/media"
)

// MustOpenStore opens the local store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *localstore.Store {
	t.Helper()

	store, err := localstore.Open(cfg)
	if err != nil {
		t.Fatalf("localstore.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// SeedSnapshot stores entries as the cached entry list.
func SeedSnapshot(t testing.TB, store *localstore.Store, entries []media.Entry) {
	t.Helper()

	if err := store.SaveSnapshot(context.Background(), entries); err != nil {
		t.Fatalf("store.SaveSnapshot: %v", err)
	}
}
