package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/onusone/stakeledger/internal/store"
	"github.com/onusone/stakeledger/internal/store/storetest"
)

func makeSqliteStore(t *testing.T) store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	return s
}

func TestSqliteStore_Compliance(t *testing.T) {
	storetest.Run(t, makeSqliteStore)
}

func TestDDLStatements_NonEmpty(t *testing.T) {
	stmts := store.DDLStatements()
	if len(stmts) < 3 {
		t.Fatalf("expected at least 3 DDL statements, got %d", len(stmts))
	}
}
