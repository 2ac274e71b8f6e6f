package storage

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func openSQL(t *testing.T, driver, envVar string) *sql.DB {
	dsn := os.Getenv(envVar)
	if dsn == "" {
		t.Skipf("%s not set", envVar)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		t.Skipf("%s not available: %v", driver, err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("%s not available: %v", driver, err)
	}
	return db
}

func uniquePrefix() string {
	return "test-" + time.Now().Format("20060102150405.000000") + "-"
}

func TestMySQLAdapter_Contract(t *testing.T) {
	db := openSQL(t, "mysql", "MYSQL_DSN")
	defer db.Close()

	adapter := NewMySQLAdapter(db)
	require.NoError(t, adapter.Migrate(context.Background()))

	prefix := uniquePrefix()
	runKVContract(t, adapter, prefix)

	db.ExecContext(context.Background(), `DELETE FROM kv_store WHERE store_key LIKE ?`, prefix+"%")
}

func TestPostgresAdapter_Contract(t *testing.T) {
	db := openSQL(t, "postgres", "POSTGRES_DSN")
	defer db.Close()

	adapter := NewPostgresAdapter(db)
	require.NoError(t, adapter.Migrate(context.Background()))

	prefix := uniquePrefix()
	runKVContract(t, adapter, prefix)

	db.ExecContext(context.Background(), `DELETE FROM kv_store WHERE store_key LIKE $1`, prefix+"%")
}
