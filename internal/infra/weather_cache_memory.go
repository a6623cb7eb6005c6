package infra

import (
	"context"
	"sync"
	"time"

	"github.com/nrad-K/go-standings/internal/domain/model"
	"github.com/nrad-K/go-standings/internal/domain/repository"
)

type weatherEntry struct {
	weather   model.Weather
	expiresAt time.Time
}

type memoryWeatherCache struct {
	mu      sync.RWMutex
	entries map[string]weatherEntry
	now     func() time.Time
}

// NewMemoryWeatherCacheは、プロセス内で天気を保持するTTL付きキャッシュを生成します。
func NewMemoryWeatherCache() repository.WeatherCache {
	return &memoryWeatherCache{
		entries: make(map[string]weatherEntry),
		now:     time.Now,
	}
}

func (s *memoryWeatherCache) Get(_ context.Context, key string) (model.Weather, bool, error) {
	if key == "" {
		return model.Weather{}, false, nil
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return model.Weather{}, false, nil
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return model.Weather{}, false, nil
	}
	return e.weather, true, nil
}

// Setは、ttlが0以下の場合は期限なしで保持します。
func (s *memoryWeatherCache) Set(_ context.Context, key string, weather model.Weather, ttl time.Duration) error {
	if key == "" {
		return nil
	}

	expiresAt := time.Time{}
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = weatherEntry{weather: weather, expiresAt: expiresAt}
	s.mu.Unlock()
	return nil
}
