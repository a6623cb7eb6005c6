package repository

import (
	"context"
	"time"

	"github.com/nrad-K/go-standings/internal/domain/model"
)

// WeatherProviderは座標から現在の天気を取得します。
type WeatherProvider interface {
	Fetch(ctx context.Context, latitude, longitude float64) (model.Weather, error)
}

// WeatherCacheは天気の取得結果をTTL付きで保持します。
// 見つからない場合はfalseを返し、エラーは返しません。
type WeatherCache interface {
	Get(ctx context.Context, key string) (model.Weather, bool, error)
	Set(ctx context.Context, key string, weather model.Weather, ttl time.Duration) error
}
