package keylock

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/lshigami/ieltsprep/config"
	"github.com/rs/zerolog/log"
)

// New returns a RedisLocker when a redis address is configured so that
// several instances share one lock space, and a LocalLocker otherwise.
func New(cfg *config.Config) (Locker, error) {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("Redis not configured, per-key locks are process local")
		return NewLocalLocker(), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     20,
		MinIdleConns: 2,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established for per-key locks")
	return NewRedisLocker(client, cfg.Redis.LockTTL), nil
}
