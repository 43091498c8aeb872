package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// testReadPoolSize keeps test read pools small; ledger tests rarely issue
// more than a couple of concurrent queries.
const testReadPoolSize = 2

// OpenTestSQLite opens a migrated ledger database in t.TempDir() and
// returns the write/read pool pair. The write pool holds the single
// serialized connection; tests that never exercise the split can do
// everything through writeDB.
func OpenTestSQLite(t *testing.T) (writeDB, readDB *sql.DB) {
	t.Helper()

	writeDB, readDB, err := OpenSQLitePair(filepath.Join(t.TempDir(), "ledger.sqlite"), testReadPoolSize)
	if err != nil {
		t.Fatalf("open ledger database: %v", err)
	}
	t.Cleanup(func() {
		_ = readDB.Close()
		_ = writeDB.Close()
	})

	if err := RunMigrations(writeDB); err != nil {
		t.Fatalf("migrate ledger database: %v", err)
	}

	return writeDB, readDB
}
