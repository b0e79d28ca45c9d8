package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "storefront"

type redisStorageRepository struct {
	client *redis.Client
}

// NewRedisStorageRepository stores entries as plain strings under storefront:<scope>:<key>.
func NewRedisStorageRepository(client *redis.Client) StorageRepository {
	return &redisStorageRepository{client: client}
}

func redisKey(scope model.StorageScope, key string) string {
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, scope, key)
}

func (r *redisStorageRepository) Get(ctx context.Context, scope model.StorageScope, key string) (string, error) {
	val, err := r.client.Get(ctx, redisKey(scope, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		logger.Error("Failed to read storage key from Redis", err, map[string]interface{}{
			"scope": scope,
			"key":   key,
		})
		return "", err
	}
	return val, nil
}

func (r *redisStorageRepository) Set(ctx context.Context, scope model.StorageScope, key, value string) error {
	if err := r.client.Set(ctx, redisKey(scope, key), value, 0).Err(); err != nil {
		logger.Error("Failed to write storage key to Redis", err, map[string]interface{}{
			"scope": scope,
			"key":   key,
		})
		return err
	}
	return nil
}

func (r *redisStorageRepository) Delete(ctx context.Context, scope model.StorageScope, key string) error {
	if err := r.client.Del(ctx, redisKey(scope, key)).Err(); err != nil {
		logger.Error("Failed to delete storage key from Redis", err, map[string]interface{}{
			"scope": scope,
			"key":   key,
		})
		return err
	}
	return nil
}

func (r *redisStorageRepository) ClearScope(ctx context.Context, scope model.StorageScope) error {
	pattern := fmt.Sprintf("%s:%s:*", redisKeyPrefix, scope)

	var removed int64
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		n, err := r.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			return err
		}
		removed += n
	}
	if err := iter.Err(); err != nil {
		logger.Error("Failed to scan storage scope in Redis", err, map[string]interface{}{
			"scope": scope,
		})
		return err
	}

	logger.Info("Storage scope cleared", map[string]interface{}{
		"scope":   scope,
		"removed": removed,
	})
	return nil
}
