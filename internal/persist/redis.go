package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the optional network-backed SaveStore: one versioned
// key holding the serialized snapshot. Useful when the same save should
// follow the player across machines.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

var _ SaveStore = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(addr string, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisStore{client: rdb, logger: logger}
}

func (r *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(Bounded(snap))
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := r.client.Set(ctx, SaveKey, string(data), 0).Err(); err != nil {
		if isRedisQuotaError(err) {
			return fmt.Errorf("%w: %v", ErrStorageQuota, err)
		}
		r.logger.Error("Failed to save snapshot", "error", err)
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context) (*Snapshot, error) {
	data, err := r.client.Get(ctx, SaveKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSave
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	snap, err := decodeSnapshot([]byte(data))
	if err != nil {
		r.logger.Warn("Clearing corrupted save", "key", SaveKey, "error", err)
		_ = r.client.Del(ctx, SaveKey).Err()
		return nil, ErrNoSave
	}
	return snap, nil
}

func (r *RedisStore) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, SaveKey).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

func (r *RedisStore) Exists(ctx context.Context) (bool, error) {
	n, err := r.client.Exists(ctx, SaveKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check save: %w", err)
	}
	return n > 0, nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	return nil
}

// isRedisQuotaError matches the server's out-of-memory refusal.
func isRedisQuotaError(err error) bool {
	msg := strings.ToUpper(err.Error())
	return strings.Contains(msg, "OOM") || strings.Contains(msg, "MAXMEMORY")
}
