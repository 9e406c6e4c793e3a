// Package redis disponibiliza a lista de banimentos baseada em Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/DesignrKnight/shield/internal/core/ports"
)

const defaultPrefix = "shield:ban:"

// Storage keeps banned keys as Redis keys with a TTL equal to the ban duration.
type Storage struct {
	client   *redis.Client
	prefix   string
	duration time.Duration
}

var (
	_ ports.Banner     = (*Storage)(nil)
	_ ports.BanChecker = (*Storage)(nil)
	_ ports.BanLifter  = (*Storage)(nil)
)

type Config struct {
	Addr     string
	Password string
	DB       int
	// BanDuration is how long a ban lasts. Zero or negative bans never expire.
	BanDuration time.Duration
	Prefix      string
}

func New(cfg Config) (*Storage, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient wraps an existing client. Close closes the client.
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Storage{client: client, prefix: prefix, duration: cfg.BanDuration}
}

func (s *Storage) Close() error {
	return s.client.Close()
}

// Ban marks key as banned. Banning an already banned key refreshes the TTL.
func (s *Storage) Ban(ctx context.Context, key, reason string) error {
	ttl := s.duration
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.prefix+key, reason, ttl).Err(); err != nil {
		return fmt.Errorf("redis ban %s: %w", key, err)
	}
	return nil
}

func (s *Storage) IsBanned(ctx context.Context, key string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.prefix+key).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Reason returns the reason recorded for a ban, or false if key is not banned.
func (s *Storage) Reason(ctx context.Context, key string) (string, bool, error) {
	reason, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return reason, true, nil
}

// Unban lifts a ban. Unbanning a key that is not banned is not an error.
func (s *Storage) Unban(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
