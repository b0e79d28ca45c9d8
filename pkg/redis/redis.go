package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/edubooks-storefront/config"
	"github.com/ikkim/edubooks-storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Client-state reads sit on the request path of every gateway call.
const (
	pingTimeout = 5 * time.Second
	ioTimeout   = 2 * time.Second
)

var client *redis.Client

// Init connects the redis client-state store and checks it answers.
func Init(cfg *config.RedisConfig) error {
	client = redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  pingTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
		PoolSize:     4,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Client-state store unreachable", err, map[string]interface{}{
			"addr": cfg.Addr(),
			"db":   cfg.DB,
		})
		return fmt.Errorf("redis client-state store at %s: %w", cfg.Addr(), err)
	}

	logger.Info("Client-state store ready", map[string]interface{}{
		"driver": "redis",
		"addr":   cfg.Addr(),
		"db":     cfg.DB,
	})
	return nil
}

func GetClient() *redis.Client {
	return client
}

func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}
