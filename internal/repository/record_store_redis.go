package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisRecordStore stores each collection as a single string key.
type RedisRecordStore struct {
	client *redis.Client
	prefix string
}

func NewRedisRecordStore(client *redis.Client, prefix string) *RedisRecordStore {
	return &RedisRecordStore{client: client, prefix: prefix}
}

func (r *RedisRecordStore) key(collection string) string {
	if r.prefix == "" {
		return collection
	}
	return r.prefix + ":" + collection
}

func (r *RedisRecordStore) Get(ctx context.Context, collection string) ([]json.RawMessage, error) {
	value, err := r.client.Get(ctx, r.key(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeCollection(value)
}

func (r *RedisRecordStore) Set(ctx context.Context, collection string, records []json.RawMessage) error {
	value, err := encodeCollection(records)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(collection), value, 0).Err()
}

func (r *RedisRecordStore) Close() error {
	return r.client.Close()
}
