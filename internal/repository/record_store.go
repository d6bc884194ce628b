package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vidhi-1412/Realestate/internal/config"
)

// RecordStore maps a collection name to an ordered list of JSON records.
// Each collection is a single value: Set replaces the whole list, there is
// no partial update. Read-modify-write cycles are not atomic across callers.
type RecordStore interface {
	// Get returns the records of a collection, or nil if it was never written.
	Get(ctx context.Context, collection string) ([]json.RawMessage, error)
	Set(ctx context.Context, collection string, records []json.RawMessage) error
	Close() error
}

// NewRecordStore opens the backend selected by cfg.Store.Driver.
func NewRecordStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (RecordStore, error) {
	switch cfg.Store.Driver {
	case "memory":
		return NewMemoryRecordStore(), nil
	case "sqlite", "pgx":
		db, err := openDB(cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		log.Info("Record store connected", zap.String("driver", cfg.Store.Driver))
		return NewSQLRecordStore(ctx, db)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		log.Info("Record store connected", zap.String("driver", "redis"), zap.String("addr", cfg.Redis.Addr))
		return NewRedisRecordStore(client, cfg.Redis.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown record store driver %q", cfg.Store.Driver)
	}
}

func openDB(driver, dsn string) (*sqlx.DB, error) {
	if driver == "sqlite" && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	if driver == "sqlite" {
		// modernc sqlite serializes writers anyway; one connection keeps
		// :memory: databases shared across calls.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func encodeCollection(records []json.RawMessage) ([]byte, error) {
	if records == nil {
		records = []json.RawMessage{}
	}
	return json.Marshal(records)
}

func decodeCollection(value []byte) ([]json.RawMessage, error) {
	if len(value) == 0 {
		return nil, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(value, &records); err != nil {
		return nil, fmt.Errorf("corrupt collection value: %w", err)
	}
	return records, nil
}
