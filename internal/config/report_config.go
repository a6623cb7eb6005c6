package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/nrad-K/go-standings/internal/platform/resilience"
)

type ReportFormat string

const (
	FormatXLSX ReportFormat = "xlsx"
	FormatCSV  ReportFormat = "csv"
)

type CacheDriver string

const (
	CacheMemory CacheDriver = "memory"
	CacheRedis  CacheDriver = "redis"
	CacheNone   CacheDriver = "none"
)

// WeatherCacheConfigは天気キャッシュの設定です。redisの接続先は環境変数(REDIS_ADDRESS, REDIS_PASSWORD)から読みます。
type WeatherCacheConfig struct {
	Driver     CacheDriver `yaml:"driver" validate:"required,oneof=memory redis none"`
	TTLSeconds int         `yaml:"ttl_seconds" validate:"min=0"`
	KeyPrefix  string      `yaml:"key_prefix"`
}

func (c WeatherCacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// WeatherConfigはOpen-Meteoクライアントの設定です。
type WeatherConfig struct {
	BaseURL            string                          `yaml:"base_url" validate:"required,url"`
	TimeoutSeconds     int                             `yaml:"timeout_seconds" validate:"min=1,max=60"`
	RetryCount         int                             `yaml:"retry_count" validate:"min=0,max=10"`
	RetryWaitMillis    int                             `yaml:"retry_wait_millis" validate:"min=0"`
	RetryMaxWaitMillis int                             `yaml:"retry_max_wait_millis" validate:"min=0"`
	Cache              WeatherCacheConfig              `yaml:"cache" validate:"required"`
	CircuitBreaker     resilience.CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// ReportConfigはレポート(天気+スプレッドシート)出力の設定です。
type ReportConfig struct {
	InputPath   string         `yaml:"input_path" validate:"required,min=1"`   // 座標を含むリーグ定義
	ResultsPath string         `yaml:"results_path" validate:"required,min=1"` // standingsコマンドの出力
	DataDir     string         `yaml:"data_dir" validate:"required,min=1"`
	Formats     []ReportFormat `yaml:"formats" validate:"required,min=1,dive,oneof=xlsx csv"`
	Concurrency int            `yaml:"concurrency" validate:"min=1,max=10"` // 天気取得の並列数
	Weather     WeatherConfig  `yaml:"weather" validate:"required"`
	Log         LogConfig      `yaml:"log"`
}

// YAMLファイルからReportConfigを読み込む
func LoadReportConfig(path string) (ReportConfig, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return ReportConfig{}, fmt.Errorf("設定ファイルを読み込めませんでした: %w", err)
	}
	return ParseReportConfig(f)
}

// ParseReportConfigはYAMLを解析してバリデーションを行います。
func ParseReportConfig(data []byte) (ReportConfig, error) {
	var cfg ReportConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ReportConfig{}, fmt.Errorf("YAMLの解析に失敗しました: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return ReportConfig{}, fmt.Errorf("設定のバリデーションに失敗しました: %w", err)
	}

	if cfg.Weather.RetryMaxWaitMillis > 0 && cfg.Weather.RetryMaxWaitMillis < cfg.Weather.RetryWaitMillis {
		return ReportConfig{}, fmt.Errorf("retry_max_wait_millisはretry_wait_millis以上にしてください")
	}
	seen := make(map[ReportFormat]struct{}, len(cfg.Formats))
	for _, f := range cfg.Formats {
		if _, ok := seen[f]; ok {
			return ReportConfig{}, fmt.Errorf("formatsに重複があります: %s", f)
		}
		seen[f] = struct{}{}
	}

	return cfg, nil
}
