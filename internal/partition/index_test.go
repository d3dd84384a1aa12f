package partition

import (
	"context"
	"errors"
	"testing"

	"github.com/vietddude/arbstats/internal/core/domain"
	"github.com/vietddude/arbstats/internal/infra/storage/memory"
)

func TestGlobalIndexMonotonic(t *testing.T) {
	ctx := context.Background()
	index := NewGlobalIndex(memory.NewStore())

	if h, err := index.Get(ctx); err != nil || h != 0 {
		t.Fatalf("Get = %d, %v; want 0, nil", h, err)
	}

	if err := index.Advance(ctx, 100); err != nil {
		t.Fatalf("Advance(100) failed: %v", err)
	}
	if err := index.Advance(ctx, 100); !errors.Is(err, domain.ErrStaleHeight) {
		t.Errorf("Advance(100) again err = %v, want ErrStaleHeight", err)
	}
	if err := index.Advance(ctx, 99); !errors.Is(err, domain.ErrStaleHeight) {
		t.Errorf("Advance(99) err = %v, want ErrStaleHeight", err)
	}
	if h, _ := index.Get(ctx); h != 100 {
		t.Errorf("Height after stale submissions = %d, want 100", h)
	}
	if err := index.Advance(ctx, 101); err != nil {
		t.Errorf("Advance(101) failed: %v", err)
	}
}

func TestGlobalIndexPersistence(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewStore()

	index := NewGlobalIndex(blobs)
	if err := index.Advance(ctx, 42); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}

	restored := NewGlobalIndex(blobs)
	if h, err := restored.Get(ctx); err != nil || h != 42 {
		t.Errorf("Restored height = %d, %v; want 42, nil", h, err)
	}

	if err := restored.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	fresh := NewGlobalIndex(blobs)
	if h, _ := fresh.Get(ctx); h != 0 {
		t.Errorf("Height after reset = %d, want 0", h)
	}
}

func TestRegistryUnion(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewStore()
	registry := NewRegistry(blobs)

	if err := registry.Add(ctx, []string{"b.near", "a.near"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := registry.Add(ctx, []string{"a.near", "c.near"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	// Duplicate-only add is an idempotent no-op.
	if err := registry.Add(ctx, []string{"a.near"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	ids, err := registry.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"a.near", "b.near", "c.near"}
	if len(ids) != len(want) {
		t.Fatalf("List = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("List = %v, want %v", ids, want)
		}
	}

	restored := NewRegistry(blobs)
	ids, err = restored.List(ctx)
	if err != nil || len(ids) != 3 {
		t.Errorf("Restored list = %v, %v; want 3 ids", ids, err)
	}

	if err := registry.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	ids, _ = registry.List(ctx)
	if len(ids) != 0 {
		t.Errorf("List after reset = %v, want empty", ids)
	}
}
