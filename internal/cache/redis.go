package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultRedisPrefix namespaces bookcat keys.
	DefaultRedisPrefix = "bookcat:"

	// DefaultRedisOpTimeout bounds each Redis call.
	DefaultRedisOpTimeout = 250 * time.Millisecond

	redisVersionKey = "ver"
)

// RedisOptions configures NewRedisStore.
type RedisOptions struct {
	Addr       string
	DB         int
	Prefix     string
	TTLSeconds int
	OpTimeout  time.Duration
}

// RedisStore keeps entries in Redis under a versioned prefix. Clear bumps
// the version so every old key becomes unreachable and ages out via its TTL.
type RedisStore struct {
	rdb       redis.UniversalClient
	prefix    string
	ttl       time.Duration
	opTimeout time.Duration
	owned     bool
}

// NewRedisStore connects to opts.Addr.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis address cannot be empty")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		DB:           opts.DB,
		DialTimeout:  time.Second,
		MaxRetries:   1,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	s := NewRedisStoreWithClient(rdb, opts)
	s.owned = true
	return s, nil
}

// NewRedisStoreWithClient wraps an existing client. The caller keeps
// ownership of rdb.
func NewRedisStoreWithClient(rdb redis.UniversalClient, opts RedisOptions) *RedisStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	ttl := opts.TTLSeconds
	if ttl <= 0 {
		ttl = DefaultTTLSeconds
	}
	opTimeout := opts.OpTimeout
	if opTimeout <= 0 {
		opTimeout = DefaultRedisOpTimeout
	}
	return &RedisStore{
		rdb:       rdb,
		prefix:    prefix,
		ttl:       time.Duration(ttl) * time.Second,
		opTimeout: opTimeout,
	}
}

// Enabled implements Store.
func (s *RedisStore) Enabled() bool { return true }

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.rdb.Ping(ctx).Err()
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, error) {
	if key == "" {
		return nil, ErrInvalidCacheKey
	}
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	full, err := s.key(ctx, key)
	if err != nil {
		return nil, err
	}
	raw, err := s.rdb.Get(ctx, full).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if unmarshalErr := json.Unmarshal(raw, &entry); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", unmarshalErr)
	}
	if entry.IsExpired() {
		return nil, ErrCacheExpired
	}
	return &entry, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, key string, data json.RawMessage) error {
	if key == "" {
		return ErrInvalidCacheKey
	}
	entryData, err := json.Marshal(NewEntry(key, data, int(s.ttl/time.Second)))
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	full, err := s.key(ctx, key)
	if err != nil {
		return err
	}
	if setErr := s.rdb.Set(ctx, full, entryData, s.ttl).Err(); setErr != nil {
		return fmt.Errorf("redis set: %w", setErr)
	}
	return nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidCacheKey
	}
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	full, err := s.key(ctx, key)
	if err != nil {
		return err
	}
	if delErr := s.rdb.Del(ctx, full).Err(); delErr != nil {
		return fmt.Errorf("redis del: %w", delErr)
	}
	return nil
}

// Clear implements Store by bumping the key version.
func (s *RedisStore) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	if err := s.rdb.Incr(ctx, s.prefix+redisVersionKey).Err(); err != nil {
		return fmt.Errorf("redis bump version: %w", err)
	}
	return nil
}

// Close closes the client if the store created it.
func (s *RedisStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.rdb.Close()
}

// key resolves the versioned Redis key for key. A missing version counter
// means version 1.
func (s *RedisStore) key(ctx context.Context, key string) (string, error) {
	ver, err := s.rdb.Get(ctx, s.prefix+redisVersionKey).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		ver = 1
	case err != nil:
		return "", fmt.Errorf("redis version: %w", err)
	}
	return versionedKey(s.prefix, ver, key), nil
}

func versionedKey(prefix string, ver int64, key string) string {
	return fmt.Sprintf("%sv%d:%s", prefix, ver, key)
}
