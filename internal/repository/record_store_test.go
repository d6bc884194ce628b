package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vidhi-1412/Realestate/internal/config"
)

func newSQLiteStore(t *testing.T) *SQLRecordStore {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	store, err := NewSQLRecordStore(context.Background(), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newRedisStore(t *testing.T, prefix string) (*RedisRecordStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisRecordStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), prefix)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func raw(s string) json.RawMessage {
	return json.RawMessage(s)
}

func TestRecordStores(t *testing.T) {
	stores := map[string]func(t *testing.T) RecordStore{
		"memory": func(t *testing.T) RecordStore { return NewMemoryRecordStore() },
		"sqlite": func(t *testing.T) RecordStore { return newSQLiteStore(t) },
		"redis": func(t *testing.T) RecordStore {
			store, _ := newRedisStore(t, "realestate")
			return store
		},
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)

			got, err := store.Get(ctx, "projects")
			require.NoError(t, err)
			assert.Empty(t, got, "unknown collection reads as empty")

			first := []json.RawMessage{raw(`{"id":"1","name":"A"}`)}
			require.NoError(t, store.Set(ctx, "projects", first))

			second := append(first, raw(`{"id":"2","name":"B"}`))
			require.NoError(t, store.Set(ctx, "projects", second))

			got, err = store.Get(ctx, "projects")
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.JSONEq(t, `{"id":"1","name":"A"}`, string(got[0]))
			assert.JSONEq(t, `{"id":"2","name":"B"}`, string(got[1]))

			other, err := store.Get(ctx, "clients")
			require.NoError(t, err)
			assert.Empty(t, other, "collections are independent")

			require.NoError(t, store.Set(ctx, "projects", nil))
			got, err = store.Get(ctx, "projects")
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestRedisRecordStoreKeys(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, "realestate")

	require.NoError(t, store.Set(ctx, "projects", []json.RawMessage{raw(`{"id":"1"}`)}))
	value, err := mr.Get("realestate:projects")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, value)
	assert.False(t, mr.Exists("projects"))

	bare, _ := newRedisStore(t, "")
	assert.Equal(t, "clients", bare.key("clients"))
	assert.Equal(t, "realestate:clients", store.key("clients"))

	require.NoError(t, mr.Set("realestate:clients", "not json"))
	_, err = store.Get(ctx, "clients")
	assert.Error(t, err)
}

func TestRedisRecordStoreUnavailable(t *testing.T) {
	store, mr := newRedisStore(t, "realestate")
	mr.Close()

	_, err := store.Get(context.Background(), "projects")
	assert.Error(t, err, "a dead server is not an empty collection")
}

func TestMemoryRecordStoreHonoursContext(t *testing.T) {
	store := NewMemoryRecordStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Get(ctx, "projects")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Set(ctx, "projects", nil), context.Canceled)
}

func TestNewRecordStoreDrivers(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "memory"}}
	store, err := NewRecordStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryRecordStore{}, store)

	cfg.Store = config.StoreConfig{Driver: "sqlite", DSN: ":memory:"}
	store, err = NewRecordStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SQLRecordStore{}, store)
	require.NoError(t, store.Close())

	mr := miniredis.RunT(t)
	cfg.Store = config.StoreConfig{Driver: "redis"}
	cfg.Redis = config.RedisConfig{Addr: mr.Addr(), Prefix: "realestate"}
	store, err = NewRecordStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &RedisRecordStore{}, store)
	require.NoError(t, store.Close())

	cfg.Store = config.StoreConfig{Driver: "etcd"}
	_, err = NewRecordStore(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestDecodeCollectionRejectsCorruptValue(t *testing.T) {
	_, err := decodeCollection([]byte(`{"not":"a list"}`))
	assert.Error(t, err)
}
