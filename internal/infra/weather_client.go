package infra

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
	"github.com/nrad-K/go-standings/internal/config"
	"github.com/nrad-K/go-standings/internal/domain/model"
	"github.com/nrad-K/go-standings/internal/domain/repository"
	"github.com/nrad-K/go-standings/internal/logger"
	"github.com/nrad-K/go-standings/internal/platform/resilience"
	"golang.org/x/sync/singleflight"
)

const forecastPath = "/v1/forecast"

var errWeatherTransient = crerr.New("weather provider transient failure")

// WeatherClientArgsは、天気クライアントを構築するための引数を保持します。
type WeatherClientArgs struct {
	Cfg    *config.WeatherConfig
	Cache  repository.WeatherCache // nilの場合はキャッシュしない
	Logger logger.AppLogger
}

type weatherClient struct {
	http           *resty.Client
	cache          repository.WeatherCache
	ttl            time.Duration
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         singleflight.Group
	logger         logger.AppLogger
}

type openMeteoResponse struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Elevation        float64 `json:"elevation"`
	UTCOffsetSeconds int     `json:"utc_offset_seconds"`
	Current          struct {
		Time        int64    `json:"time"`
		Temperature *float64 `json:"temperature_2m"`
	} `json:"current"`
}

// NewWeatherClientは、Open-Meteoから現在の気温を取得するクライアントを生成します。
// 一時的な失敗(通信エラー、429、5xx)はリトライし、連続失敗時はサーキットブレーカーで遮断します。
//
// args:
//
//	args: 設定、キャッシュ、ロガー
//
// return:
//
//	repository.WeatherProvider: 生成されたクライアント
func NewWeatherClient(args WeatherClientArgs) repository.WeatherProvider {
	cfg := args.Cfg
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.RetryCount).
		AddRetryCondition(func(res *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return isRetryableStatus(res.StatusCode())
		})
	if cfg.RetryWaitMillis > 0 {
		client.SetRetryWaitTime(time.Duration(cfg.RetryWaitMillis) * time.Millisecond)
	}
	if cfg.RetryMaxWaitMillis > 0 {
		client.SetRetryMaxWaitTime(time.Duration(cfg.RetryMaxWaitMillis) * time.Millisecond)
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &weatherClient{
		http:           client,
		cache:          args.Cache,
		ttl:            cfg.Cache.TTL(),
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
		logger:         args.Logger,
	}
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func weatherCacheKey(latitude, longitude float64) string {
	return fmt.Sprintf("%.4f,%.4f", latitude, longitude)
}

// Fetchは、座標の現在の天気を返します。キャッシュにあればAPIを呼びません。
// 同じ座標への同時呼び出しは1回のリクエストにまとめます。
func (c *weatherClient) Fetch(ctx context.Context, latitude, longitude float64) (model.Weather, error) {
	key := weatherCacheKey(latitude, longitude)

	if c.cache != nil {
		cached, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("天気キャッシュの読み込みに失敗しました", "key", key, "error", err)
		} else if ok {
			c.logger.Debug("天気キャッシュを使用します", "key", key)
			return cached, nil
		}
	}

	out, err, _ := c.flight.Do(key, func() (any, error) {
		weather, err := c.fetchWithBreaker(ctx, latitude, longitude)
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			if err := c.cache.Set(ctx, key, weather, c.ttl); err != nil {
				c.logger.Warn("天気キャッシュの保存に失敗しました", "key", key, "error", err)
			}
		}
		return weather, nil
	})
	if err != nil {
		return model.Weather{}, err
	}
	return out.(model.Weather), nil
}

func (c *weatherClient) fetchWithBreaker(ctx context.Context, latitude, longitude float64) (model.Weather, error) {
	var weather model.Weather
	call := func() error {
		var err error
		weather, err = c.request(ctx, latitude, longitude)
		return err
	}

	if !c.circuitEnabled {
		return weather, call()
	}

	err := c.breaker.Execute(call, func(err error) bool {
		return crerr.Is(err, errWeatherTransient)
	})
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.Warn("天気APIへのリクエストを遮断しました", "state", c.breaker.State())
		return model.Weather{}, crerr.Wrap(err, "天気APIは一時的に利用できません")
	}
	return weather, err
}

func (c *weatherClient) request(ctx context.Context, latitude, longitude float64) (model.Weather, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":         strconv.FormatFloat(latitude, 'f', -1, 64),
			"longitude":        strconv.FormatFloat(longitude, 'f', -1, 64),
			"current":          "temperature_2m",
			"temperature_unit": "fahrenheit",
			"timeformat":       "unixtime",
		}).
		Get(forecastPath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.Weather{}, ctxErr
		}
		return model.Weather{}, crerr.Mark(crerr.Wrap(err, "天気APIへのリクエストに失敗しました"), errWeatherTransient)
	}

	if res.StatusCode() != http.StatusOK {
		err := crerr.Newf("天気APIがエラーを返しました: status=%d body=%s", res.StatusCode(), abbreviateBody(res.Body()))
		if isRetryableStatus(res.StatusCode()) {
			return model.Weather{}, crerr.Mark(err, errWeatherTransient)
		}
		return model.Weather{}, err
	}

	var payload openMeteoResponse
	if err := sonic.Unmarshal(res.Body(), &payload); err != nil {
		return model.Weather{}, crerr.Wrap(err, "天気APIのレスポンスを解析できません")
	}
	if payload.Current.Temperature == nil {
		return model.Weather{}, crerr.New("天気APIのレスポンスに気温がありません")
	}

	measuredAt := time.Unix(payload.Current.Time, 0)
	return model.Weather{
		Latitude:         payload.Latitude,
		Longitude:        payload.Longitude,
		Elevation:        payload.Elevation,
		UTCOffsetSeconds: payload.UTCOffsetSeconds,
		CurrentWeather:   model.NewCurrentWeatherFromFahrenheit(measuredAt, *payload.Current.Temperature),
	}, nil
}

func abbreviateBody(body []byte) string {
	const limit = 200
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
