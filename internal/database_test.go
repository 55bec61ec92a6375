package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pittawat/chatcore/testutil"
)

func TestOpenDatabase(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := filepath.Join(dir, "nested", "chatcore.db")

	db, err := OpenDatabase(path)
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("OpenDatabase() did not create the database file: %v", err)
	}

	// Schema must exist right away
	for _, table := range []string{"chatstore", "usage_log"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Fatalf("Schema query failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Table %s missing after OpenDatabase()", table)
		}
	}
}

func TestSQLiteBackend_RoundTrip(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	defer db.Close()
	backend := NewSQLiteBackend(db)

	if _, ok, err := backend.Get("missing"); err != nil || ok {
		t.Errorf("Get(missing) = ok %v, err %v, want absent with no error", ok, err)
	}

	if err := backend.Put("k", "v1"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	value, ok, err := backend.Get("k")
	if err != nil || !ok || value != "v1" {
		t.Errorf("Get(k) = (%q, %v, %v), want (v1, true, nil)", value, ok, err)
	}

	// Put replaces
	if err := backend.Put("k", "v2"); err != nil {
		t.Fatalf("Put() overwrite error = %v", err)
	}
	value, _, _ = backend.Get("k")
	if value != "v2" {
		t.Errorf("Get(k) after overwrite = %q, want v2", value)
	}

	if err := backend.Delete("k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := backend.Get("k"); ok {
		t.Error("Get(k) after Delete should report absent")
	}

	// Deleting an absent key is fine
	if err := backend.Delete("k"); err != nil {
		t.Errorf("Delete() of absent key error = %v", err)
	}
}

func TestOpenSQLiteBackend(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	backend, err := OpenSQLiteBackend(filepath.Join(dir, "chatcore.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteBackend() error = %v", err)
	}
	defer backend.Close()

	if backend.DB() == nil {
		t.Error("DB() should expose the underlying database")
	}
	if err := backend.Put("key", "value"); err != nil {
		t.Errorf("Put() error = %v", err)
	}
}

func TestMemoryBackend(t *testing.T) {
	backend := NewMemoryBackend()

	if _, ok, _ := backend.Get("a"); ok {
		t.Error("Get() on empty backend should report absent")
	}
	if err := backend.Put("a", "1"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	value, ok, _ := backend.Get("a")
	if !ok || value != "1" {
		t.Errorf("Get(a) = (%q, %v), want (1, true)", value, ok)
	}
	if err := backend.Delete("a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := backend.Get("a"); ok {
		t.Error("Get(a) after Delete should report absent")
	}
	if err := backend.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
