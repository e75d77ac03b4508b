package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"propchat/internal/model"
)

// RedisStore keeps sessions as JSON values under a key prefix. Keys carry no
// TTL. Turns on the same id from different processes are last-write-wins.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisStore creates a store on an existing client
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

// Get implements Store
func (r *RedisStore) Get(ctx context.Context, id string) (*model.SessionState, bool, error) {
	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get session: %w", err)
	}

	state := &model.SessionState{}
	if err := json.Unmarshal(raw, state); err != nil {
		return nil, false, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return state, true, nil
}

// Set implements Store
func (r *RedisStore) Set(ctx context.Context, id string, state *model.SessionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(id), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

// Delete implements Store
func (r *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Del(ctx, r.key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	return n > 0, nil
}

// Clear implements Store
func (r *RedisStore) Clear(ctx context.Context) (int, error) {
	keys, err := r.keys(ctx)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to clear sessions: %w", err)
	}
	return int(n), nil
}

// List implements Store
func (r *RedisStore) List(ctx context.Context) ([]model.SessionSummary, error) {
	keys, err := r.keys(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	out := make([]model.SessionSummary, 0, len(keys))
	for _, k := range keys {
		id := strings.TrimPrefix(k, r.prefix)
		state, ok, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, summarize(id, state))
		}
	}
	return out, nil
}

func (r *RedisStore) keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan sessions: %w", err)
	}
	return keys, nil
}
