package ratelimit

import (
	"github.com/redis/go-redis/v9"
	"github.com/solobooks/solobooks/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newRedisClient(cfg config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("redis not configured, attempt limiting disabled")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}

func newAttemptLimiter(cfg config.Config, client *redis.Client) *AttemptLimiter {
	return NewAttemptLimiter(client, cfg.RateLimitMaxAttempts, cfg.RateLimitWindow)
}

var Module = fx.Module("rate.limit",
	fx.Provide(newRedisClient),
	fx.Provide(newAttemptLimiter),
)
