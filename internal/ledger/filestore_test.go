package ledger_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prasannakumar9i/blockChain-Attedence-app-main/internal/ledger"
	"go.uber.org/zap"
)

func TestFileStore_loadMissing(t *testing.T) {
	store := ledger.NewFileStore(filepath.Join(t.TempDir(), "chain.json"), zap.NewNop())
	if _, err := store.Load(ctx); !errors.Is(err, ledger.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestFileStore_roundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "chain.json")
	store := ledger.NewFileStore(path, zap.NewNop())

	c, err := ledger.Initialize(ctx, store, ledger.Fold64{}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	want := mustAppend(t, c, "S001", ledger.StatusPresent, "2024-01-01")
	mustAppend(t, c, "S002", ledger.StatusAbsent, "2024-01-01")

	reloaded, err := ledger.Initialize(ctx, store, ledger.Fold64{}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Len() != 3 {
		t.Fatalf("expected 3 records after reload, got %d", reloaded.Len())
	}
	got, ok := reloaded.Get(1)
	if !ok {
		t.Fatal("record 1 missing after reload")
	}
	if got.Fingerprint != want.Fingerprint || got.PreviousFingerprint != want.PreviousFingerprint {
		t.Errorf("fingerprints changed across the round trip: got %+v, want %+v", got, want)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("timestamps changed across the round trip: got %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	if got.Payload != want.Payload {
		t.Errorf("payload changed across the round trip: got %+v, want %+v", got.Payload, want.Payload)
	}
	if v := reloaded.Validate(); v != nil {
		t.Errorf("reloaded chain failed validation: %v", v)
	}
}

func TestFileStore_quarantinesCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chain.json")
	garbage := []byte("{this is not a chain")
	if err := os.WriteFile(path, garbage, 0o644); err != nil {
		t.Fatal(err)
	}

	store := ledger.NewFileStore(path, zap.NewNop())
	_, err := store.Load(ctx)
	var corrupt *ledger.CorruptError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected *CorruptError, got %v", err)
	}

	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("corrupt file was left in place")
	}
	kept, err := os.ReadFile(path + ".corrupt")
	if err != nil {
		t.Fatalf("quarantine file missing: %v", err)
	}
	if string(kept) != string(garbage) {
		t.Error("quarantine file does not hold the original bytes")
	}

	// Initialize recovers with a fresh genesis over the quarantined file.
	c, err := ledger.Initialize(ctx, store, ledger.Fold64{}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 {
		t.Errorf("expected a fresh genesis chain, got %d records", c.Len())
	}
}

func TestFileStore_overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.json")
	store := ledger.NewFileStore(path, zap.NewNop())

	c, err := ledger.Initialize(ctx, store, ledger.Fold64{}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	mustAppend(t, c, "S001", ledger.StatusPresent, "2024-01-01")

	recs, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Errorf("expected 2 persisted records, got %d", len(recs))
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Error("temp file left behind after save")
	}
}
