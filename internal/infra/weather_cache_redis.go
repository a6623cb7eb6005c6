package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/nrad-K/go-standings/internal/domain/model"
	"github.com/nrad-K/go-standings/internal/domain/repository"
	"github.com/redis/go-redis/v9"
)

type redisWeatherCache struct {
	redis  *redis.Client
	prefix string
}

// NewRedisWeatherCacheは、redisに天気を保存するキャッシュを生成します。
// 複数回の実行でキャッシュを共有したい場合に使います。
func NewRedisWeatherCache(rds *redis.Client, prefix string) repository.WeatherCache {
	if prefix == "" {
		prefix = "weather"
	}
	return &redisWeatherCache{
		redis:  rds,
		prefix: prefix,
	}
}

func (r *redisWeatherCache) Get(ctx context.Context, key string) (model.Weather, bool, error) {
	value, err := r.redis.Get(ctx, r.generateKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return model.Weather{}, false, nil
	}
	if err != nil {
		return model.Weather{}, false, fmt.Errorf("redis get error for key %s: %w", key, err)
	}

	var record WeatherRecord
	if err := sonic.UnmarshalString(value, &record); err != nil {
		return model.Weather{}, false, fmt.Errorf("unmarshal error for key %s: %w", key, err)
	}
	return record.ToDomain(), true, nil
}

func (r *redisWeatherCache) Set(ctx context.Context, key string, weather model.Weather, ttl time.Duration) error {
	data, err := sonic.Marshal(ToRecord(weather, time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("failed to marshal weather record: %w", err)
	}

	if ttl < 0 {
		ttl = 0
	}
	if err := r.redis.Set(ctx, r.generateKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save weather to redis: %w", err)
	}
	return nil
}

func (r *redisWeatherCache) generateKey(key string) string {
	return fmt.Sprintf("%s:%s", r.prefix, key)
}
