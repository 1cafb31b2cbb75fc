package memory

import (
	"context"
	"testing"
	"time"

	"github.com/crmarques/srvinv/cache"
	"github.com/crmarques/srvinv/inventory"
)

func TestStoreLoadMissing(t *testing.T) {
	t.Parallel()

	_, ok, err := NewStore().Load(context.Background(), "srv")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if ok {
		t.Fatal("expected no entry in an empty store")
	}
}

func TestStoreSaveReplacesEntry(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()
	first := time.Date(2026, 10, 16, 7, 0, 0, 0, time.UTC)

	if err := store.Save(ctx, "srv", cache.Entry{
		Snapshot:    inventory.Snapshot{{"name": inventory.String("web-01")}},
		RefreshedAt: first,
	}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Save(ctx, "srv", cache.Entry{
		Snapshot:    inventory.Snapshot{{"name": inventory.String("web-02")}},
		RefreshedAt: first.Add(time.Minute),
	}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	entry, ok, err := store.Load(ctx, "srv")
	if err != nil || !ok {
		t.Fatalf("expected stored entry, got ok=%t err=%v", ok, err)
	}
	if len(entry.Snapshot) != 1 || entry.Snapshot[0].Name() != "web-02" {
		t.Fatalf("expected replaced snapshot, got %s", entry.Snapshot.Value().Text())
	}
	if !entry.RefreshedAt.Equal(first.Add(time.Minute)) {
		t.Fatalf("unexpected refresh time %s", entry.RefreshedAt)
	}
}

func TestStoreKeepsCollectionsApart(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()
	_ = store.Save(ctx, "net", cache.Entry{Snapshot: inventory.Snapshot{{"name": inventory.String("lan")}}})

	if _, ok, _ := store.Load(ctx, "env"); ok {
		t.Fatal("expected env to be missing")
	}
}

func TestStoreEntriesAreNotShared(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()
	saved := inventory.Snapshot{{"name": inventory.String("web-01"), "env": inventory.String("prod")}}
	if err := store.Save(ctx, "srv", cache.Entry{Snapshot: saved}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	saved[0]["env"] = inventory.String("edited-after-save")

	loaded, _, _ := store.Load(ctx, "srv")
	loaded.Snapshot[0]["env"] = inventory.String("edited-after-load")

	again, ok, err := store.Load(ctx, "srv")
	if err != nil || !ok {
		t.Fatalf("expected stored entry, got ok=%t err=%v", ok, err)
	}
	if env, _ := again.Snapshot[0]["env"].AsString(); env != "prod" {
		t.Fatalf("expected stored env prod, got %q", env)
	}
}
