package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultSnapshotTTL = 5 * time.Minute
	versionTTL         = 7 * 24 * time.Hour
)

// Snapshot is a cached LinkStats/Summary pair for one owner.
type Snapshot struct {
	Fingerprint string      `json:"fingerprint"`
	Version     int64       `json:"version"`
	Stats       []LinkStats `json:"stats"`
	Summary     Summary     `json:"summary"`
}

// SnapshotCache stores computed snapshots. Each owner has an event version
// that Bump advances whenever an event is recorded; a snapshot is only
// usable while its Version matches the current one.
type SnapshotCache interface {
	// Load returns the cached snapshot (ok is false on a miss) and the
	// owner's current version.
	Load(ctx context.Context, ownerID string) (snap Snapshot, version int64, ok bool, err error)
	Store(ctx context.Context, ownerID string, snap Snapshot) error
	Bump(ctx context.Context, ownerID string) error
}

// RedisCache is a SnapshotCache on Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisClient connects to redisURL and pings it. A value that is not a
// redis:// URL is treated as host:port.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisCache wraps client. A ttl <= 0 uses DefaultSnapshotTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &RedisCache{client: client, ttl: ttl, prefix: "linkbio:analytics:"}
}

func (c *RedisCache) snapshotKey(ownerID string) string { return c.prefix + "snapshot:" + ownerID }
func (c *RedisCache) versionKey(ownerID string) string  { return c.prefix + "version:" + ownerID }

func (c *RedisCache) Load(ctx context.Context, ownerID string) (Snapshot, int64, bool, error) {
	vals, err := c.client.MGet(ctx, c.snapshotKey(ownerID), c.versionKey(ownerID)).Result()
	if err != nil {
		return Snapshot{}, 0, false, err
	}

	var version int64
	if raw, ok := vals[1].(string); ok {
		version, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Snapshot{}, 0, false, fmt.Errorf("invalid snapshot version %q: %w", raw, err)
		}
	}

	raw, ok := vals[0].(string)
	if !ok {
		return Snapshot{}, version, false, nil
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return Snapshot{}, version, false, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap, version, true, nil
}

func (c *RedisCache) Store(ctx context.Context, ownerID string, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return c.client.Set(ctx, c.snapshotKey(ownerID), data, c.ttl).Err()
}

func (c *RedisCache) Bump(ctx context.Context, ownerID string) error {
	key := c.versionKey(ownerID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, versionTTL)
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
