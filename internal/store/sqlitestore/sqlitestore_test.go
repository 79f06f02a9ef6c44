package sqlitestore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

func setupStore(t *testing.T) (*Store, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tada-test.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, dbPath
}

func TestGetSet(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || v != "v2" {
		t.Fatalf("unexpected get: v=%q ok=%v err=%v", v, ok, err)
	}
}

func TestAdapterRoundTripAcrossReopen(t *testing.T) {
	s, dbPath := setupStore(t)
	ctx := context.Background()
	todos := []model.Todo{
		{ID: "b", Title: "Write tests", Done: true},
		{ID: "a", Title: "Buy milk"},
	}
	if err := store.NewAdapter(s, nil).Save(ctx, todos); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = s.Close()

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got := store.NewAdapter(reopened, nil).Load(ctx)
	if len(got) != 2 || got[0] != todos[0] || got[1] != todos[1] {
		t.Fatalf("unexpected round trip: %#v", got)
	}
}

func TestMigrateRoundTrip(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}
	s, err := New(db)
	if err != nil {
		t.Fatalf("new after roundtrip: %v", err)
	}
	if err := s.Set(context.Background(), "k", "v"); err != nil {
		t.Fatalf("set after roundtrip: %v", err)
	}
}

func TestNilDB(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil db")
	}
}
