package infra

import (
	"time"

	"github.com/nrad-K/go-standings/internal/domain/model"
)

// WeatherRecordはredisに保存する天気キャッシュの形式です。
type WeatherRecord struct {
	Latitude              float64   `json:"latitude"`
	Longitude             float64   `json:"longitude"`
	Elevation             float64   `json:"elevation"`
	UTCOffsetSeconds      int       `json:"utc_offset_seconds"`
	TimeUTC               string    `json:"time_utc"`
	TemperatureCelsius    float64   `json:"temperature_celsius"`
	TemperatureFahrenheit float64   `json:"temperature_fahrenheit"`
	CachedAt              time.Time `json:"cached_at"`
}

func (r *WeatherRecord) ToDomain() model.Weather {
	return model.Weather{
		Latitude:         r.Latitude,
		Longitude:        r.Longitude,
		Elevation:        r.Elevation,
		UTCOffsetSeconds: r.UTCOffsetSeconds,
		CurrentWeather: model.CurrentWeather{
			TimeUTC:               r.TimeUTC,
			TemperatureCelsius:    r.TemperatureCelsius,
			TemperatureFahrenheit: r.TemperatureFahrenheit,
		},
	}
}

func ToRecord(weather model.Weather, cachedAt time.Time) WeatherRecord {
	return WeatherRecord{
		Latitude:              weather.Latitude,
		Longitude:             weather.Longitude,
		Elevation:             weather.Elevation,
		UTCOffsetSeconds:      weather.UTCOffsetSeconds,
		TimeUTC:               weather.CurrentWeather.TimeUTC,
		TemperatureCelsius:    weather.CurrentWeather.TemperatureCelsius,
		TemperatureFahrenheit: weather.CurrentWeather.TemperatureFahrenheit,
		CachedAt:              cachedAt,
	}
}
