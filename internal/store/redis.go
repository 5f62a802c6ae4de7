package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Redis stores entries as JSON strings.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis connects to url, e.g. redis://localhost:6379/0. A zero ttl keeps
// entries forever.
func NewRedis(url string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Redis{rdb: redis.NewClient(opt), ttl: ttl}, nil
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Get returns the entry under key or ErrNotFound.
func (r *Redis) Get(ctx context.Context, key Key) (Entry, error) {
	data, err := r.rdb.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, fmt.Errorf("decode cached entry: %w", err)
	}
	return e, nil
}

// Put follows the same replacement rule as Memory. The read and the write
// are not atomic; concurrent writers may overwrite each other.
func (r *Redis) Put(ctx context.Context, key Key, e Entry) error {
	old, err := r.Get(ctx, key)
	switch {
	case err == nil:
		if !better(e, old) {
			return nil
		}
	case !errors.Is(err, ErrNotFound):
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, redisKey(key), data, r.ttl).Err()
}

// Close closes the client.
func (r *Redis) Close() error { return r.rdb.Close() }

func redisKey(key Key) string {
	return "wavepick:solution:" + key.String()
}
