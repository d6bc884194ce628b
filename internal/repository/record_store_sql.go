package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const kvSchema = `CREATE TABLE IF NOT EXISTS kv_store (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLRecordStore keeps every collection as one row of a key/value table.
// It works with both the sqlite and pgx drivers.
type SQLRecordStore struct {
	db *sqlx.DB
}

func NewSQLRecordStore(ctx context.Context, db *sqlx.DB) (*SQLRecordStore, error) {
	if _, err := db.ExecContext(ctx, kvSchema); err != nil {
		return nil, fmt.Errorf("failed to create kv_store table: %w", err)
	}
	return &SQLRecordStore{db: db}, nil
}

func (s *SQLRecordStore) Get(ctx context.Context, collection string) ([]json.RawMessage, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind(`SELECT value FROM kv_store WHERE key = ?`), collection)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeCollection([]byte(value))
}

func (s *SQLRecordStore) Set(ctx context.Context, collection string, records []json.RawMessage) error {
	value, err := encodeCollection(records)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO kv_store (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`),
		collection, string(value))
	return err
}

func (s *SQLRecordStore) Close() error {
	return s.db.Close()
}
