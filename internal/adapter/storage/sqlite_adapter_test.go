package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newSQLiteAdapter(t *testing.T) *SQLAdapter {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "store.db")+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	adapter := NewSQLiteAdapter(db)
	require.NoError(t, adapter.Migrate(context.Background()))
	return adapter
}

func TestSQLiteAdapter_Contract(t *testing.T) {
	runKVContract(t, newSQLiteAdapter(t), "")
}

func TestSQLiteAdapter_MigrateIsIdempotent(t *testing.T) {
	adapter := newSQLiteAdapter(t)

	assert.NoError(t, adapter.Migrate(context.Background()))
	assert.Equal(t, "sqlite", adapter.Dialect())
}

func TestRebind(t *testing.T) {
	pg := &SQLAdapter{dialect: postgresDialect}
	my := &SQLAdapter{dialect: mysqlDialect}

	q := "UPDATE kv_store SET a = ? WHERE b = ? AND c = ?"
	assert.Equal(t, "UPDATE kv_store SET a = $1 WHERE b = $2 AND c = $3", pg.rebind(q))
	assert.Equal(t, q, my.rebind(q))
}
