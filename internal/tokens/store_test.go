package tokens

import (
	"context"
	"path/filepath"
	"testing"

	"bonnetje/internal/core"
)

// roundTrip exercises the Store contract: save then load returns an
// equivalent pair, clear then load returns absent.
func roundTrip(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	pair, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("initial load: %v", err)
	}
	if pair != nil {
		t.Fatalf("expected empty slot, got %+v", pair)
	}

	in := &core.TokenPair{AccessToken: "at-1", RefreshToken: "rt-1", TokenType: "Bearer", ExpiresIn: 7200}
	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out == nil || *out != *in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}

	// Save must overwrite, not append.
	second := &core.TokenPair{AccessToken: "at-2", RefreshToken: "rt-2"}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	out, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("load after overwrite: %v", err)
	}
	if out == nil || out.AccessToken != "at-2" {
		t.Fatalf("expected overwritten pair, got %+v", out)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	out, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if out != nil {
		t.Fatalf("expected absent after clear, got %+v", out)
	}

	// Clearing an already-empty slot is not an error.
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	roundTrip(t, NewMemoryStore())
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "tokens.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	defer store.Close()
	roundTrip(t, store)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Save(ctx, &core.TokenPair{AccessToken: "at", RefreshToken: "rt"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	store.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	pair, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if pair == nil || pair.AccessToken != "at" {
		t.Fatalf("slot did not survive reopen: %+v", pair)
	}
}

func TestBoltStoreRoundTrip(t *testing.T) {
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "tokens.bolt"))
	if err != nil {
		t.Fatalf("open bolt store: %v", err)
	}
	defer store.Close()
	roundTrip(t, store)
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	if _, _, err := Open(Backend("etcd"), "", nil); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestOpenMemory(t *testing.T) {
	store, cleanup, err := Open(MemoryBackend, "", nil)
	if err != nil {
		t.Fatalf("open memory backend: %v", err)
	}
	if store == nil {
		t.Fatalf("expected store")
	}
	if cleanup != nil {
		t.Fatalf("memory backend needs no cleanup")
	}
}
