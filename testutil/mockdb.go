package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateInMemoryDB creates an in-memory SQLite database with the chatcore
// schema for testing
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS chatstore (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS usage_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			namespace TEXT NOT NULL,
			role TEXT NOT NULL,
			model TEXT,
			status TEXT NOT NULL,
			content_length INTEGER NOT NULL DEFAULT 0,
			response_time_ms REAL,
			created_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			t.Fatalf("Failed to create schema: %v", err)
		}
	}

	return db
}

// InsertValue inserts a raw key-value pair into the chatstore table
func InsertValue(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	if _, err := db.Exec("INSERT INTO chatstore (key, value) VALUES (?, ?)", key, value); err != nil {
		t.Fatalf("Failed to insert value: %v", err)
	}
}
