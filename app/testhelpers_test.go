package app

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// testInode is one row of a fixture inode population.
type testInode struct {
	id       string
	parentID string
	size     int64
	typ      string // Robinhood type tag
	mode     string // mmapplypolicy mode string
}

func testPopulation() []testInode {
	return []testInode{
		{"0x1", "", 0, "dir", "drwxr-xr-x"},
		{"0x2", "0x1", 4096, "dir", "drwxr-xr-x"},
		{"0x3", "0x1", 0, "file", "-rw-r--r--"},
		{"0x4", "0x1", 3, "file", "-rw-r--r--"},
		{"0x5", "0x2", 4, "file", "-rw-r--r--"},
		{"0x6", "0x2", 6, "file", "-rw-r--r--"},
		{"0x7", "0x2", 1 << 20, "file", "-rw-r--r--"},
		{"0x8", "0x2", 12, "symlink", "lrwxrwxrwx"},
		{"0x9", "0x1", 0, "sock", "srwxr-xr-x"},
	}
}

// setupTestDir creates a temp dir cleaned up with the test.
func setupTestDir(t *testing.T) string {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "fsplan_test_*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })
	return tmpDir
}

// setupLustreDB creates a SQLite database with a Robinhood-style entries
// table holding the fixture population.
func setupLustreDB(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(setupTestDir(t), "lustre.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer db.Close()

	schema := `
		CREATE TABLE entries (
			id TEXT PRIMARY KEY,
			parent_id TEXT,
			size INTEGER,
			type TEXT
		);
		CREATE INDEX entries_type_idx ON entries(type);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	for _, inode := range testPopulation() {
		_, err := db.Exec(`INSERT INTO entries(id, parent_id, size, type) VALUES (?, ?, ?, ?)`,
			inode.id, inode.parentID, inode.size, inode.typ)
		if err != nil {
			t.Fatalf("failed to insert inode: %v", err)
		}
	}
	return dbPath
}

// setupGPFSDB creates a SQLite database with an mmapplypolicy-style entries
// table (type encoded in the mode column).
func setupGPFSDB(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(setupTestDir(t), "gpfs.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer db.Close()

	schema := `
		CREATE TABLE entries (
			id TEXT PRIMARY KEY,
			parent_id TEXT,
			size INTEGER,
			mode TEXT,
			snapshot TEXT
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	for _, inode := range testPopulation() {
		_, err := db.Exec(`INSERT INTO entries(id, parent_id, size, mode, snapshot) VALUES (?, ?, ?, ?, '')`,
			inode.id, inode.parentID, inode.size, inode.mode)
		if err != nil {
			t.Fatalf("failed to insert inode: %v", err)
		}
	}
	return dbPath
}
