package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rl1809/storefront/internal/port"
)

type dialect struct {
	name           string
	createTable    string
	insertIfAbsent string
	upsert         string
	numbered       bool // $1, $2 placeholders instead of ?
}

var (
	mysqlDialect = dialect{
		name: "mysql",
		createTable: `
			CREATE TABLE IF NOT EXISTS kv_store (
				store_key   VARCHAR(191) NOT NULL PRIMARY KEY,
				store_value LONGTEXT     NOT NULL,
				version     BIGINT       NOT NULL,
				updated_at  DATETIME(6)  NOT NULL
			)`,
		insertIfAbsent: `
			INSERT IGNORE INTO kv_store (store_key, store_value, version, updated_at)
			VALUES (?, ?, 1, ?)`,
		upsert: `
			INSERT INTO kv_store (store_key, store_value, version, updated_at)
			VALUES (?, ?, 1, ?)
			ON DUPLICATE KEY UPDATE
				store_value = VALUES(store_value),
				version = version + 1,
				updated_at = VALUES(updated_at)`,
	}

	postgresDialect = dialect{
		name: "postgres",
		createTable: `
			CREATE TABLE IF NOT EXISTS kv_store (
				store_key   TEXT        PRIMARY KEY,
				store_value TEXT        NOT NULL,
				version     BIGINT      NOT NULL,
				updated_at  TIMESTAMPTZ NOT NULL
			)`,
		insertIfAbsent: `
			INSERT INTO kv_store (store_key, store_value, version, updated_at)
			VALUES (?, ?, 1, ?)
			ON CONFLICT (store_key) DO NOTHING`,
		upsert: `
			INSERT INTO kv_store (store_key, store_value, version, updated_at)
			VALUES (?, ?, 1, ?)
			ON CONFLICT (store_key) DO UPDATE SET
				store_value = excluded.store_value,
				version = kv_store.version + 1,
				updated_at = excluded.updated_at`,
		numbered: true,
	}

	sqliteDialect = dialect{
		name: "sqlite",
		createTable: `
			CREATE TABLE IF NOT EXISTS kv_store (
				store_key   TEXT      PRIMARY KEY,
				store_value TEXT      NOT NULL,
				version     INTEGER   NOT NULL,
				updated_at  TIMESTAMP NOT NULL
			)`,
		insertIfAbsent: `
			INSERT OR IGNORE INTO kv_store (store_key, store_value, version, updated_at)
			VALUES (?, ?, 1, ?)`,
		upsert: `
			INSERT INTO kv_store (store_key, store_value, version, updated_at)
			VALUES (?, ?, 1, ?)
			ON CONFLICT (store_key) DO UPDATE SET
				store_value = excluded.store_value,
				version = kv_store.version + 1,
				updated_at = excluded.updated_at`,
	}
)

const (
	selectEntrySQL = `SELECT store_value, version FROM kv_store WHERE store_key = ?`
	updateEntrySQL = `
		UPDATE kv_store
		SET store_value = ?, version = version + 1, updated_at = ?
		WHERE store_key = ? AND version = ?`
)

// SQLAdapter stores every key as one row of kv_store. Versioned writes use the
// version column as an optimistic lock.
type SQLAdapter struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

func NewMySQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db, dialect: mysqlDialect, now: time.Now}
}

func NewPostgresAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db, dialect: postgresDialect, now: time.Now}
}

func NewSQLiteAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db, dialect: sqliteDialect, now: time.Now}
}

func (s *SQLAdapter) Dialect() string {
	return s.dialect.name
}

// Migrate creates the kv_store table if it does not exist.
func (s *SQLAdapter) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.createTable); err != nil {
		return fmt.Errorf("create kv_store: %w", err)
	}
	return nil
}

func (s *SQLAdapter) Get(ctx context.Context, key string) (port.Entry, bool, error) {
	var e port.Entry
	err := s.db.QueryRowContext(ctx, s.rebind(selectEntrySQL), key).Scan(&e.Value, &e.Version)

	if errors.Is(err, sql.ErrNoRows) {
		return port.Entry{}, false, nil
	}
	if err != nil {
		return port.Entry{}, false, fmt.Errorf("query %s: %w", key, err)
	}

	return e, true, nil
}

func (s *SQLAdapter) Put(ctx context.Context, key, value string, expectedVersion int64) (int64, error) {
	now := s.now().UTC()

	switch {
	case expectedVersion == port.AnyVersion:
		return s.upsert(ctx, key, value, now)

	case expectedVersion == 0:
		result, err := s.db.ExecContext(ctx, s.rebind(s.dialect.insertIfAbsent), key, value, now)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", key, err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return 0, port.ErrOptimisticLock
		}
		return 1, nil

	default:
		result, err := s.db.ExecContext(ctx, s.rebind(updateEntrySQL), value, now, key, expectedVersion)
		if err != nil {
			return 0, fmt.Errorf("update %s: %w", key, err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return 0, port.ErrOptimisticLock
		}
		return expectedVersion + 1, nil
	}
}

func (s *SQLAdapter) upsert(ctx context.Context, key, value string, now time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.rebind(s.dialect.upsert), key, value, now); err != nil {
		return 0, fmt.Errorf("upsert %s: %w", key, err)
	}

	var version int64
	if err := tx.QueryRowContext(ctx, s.rebind(`SELECT version FROM kv_store WHERE store_key = ?`), key).Scan(&version); err != nil {
		return 0, fmt.Errorf("read version of %s: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return version, nil
}

// rebind rewrites ? placeholders for drivers that want numbered ones.
func (s *SQLAdapter) rebind(query string) string {
	if !s.dialect.numbered {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
