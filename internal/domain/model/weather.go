package model

import (
	"math"
	"time"
)

// CurrentWeatherは計測時刻と現在気温です。
type CurrentWeather struct {
	TimeUTC               string  `json:"time_utc"`
	TemperatureCelsius    float64 `json:"temperature_celsius"`
	TemperatureFahrenheit float64 `json:"temperature_fahrenheit"`
}

// Weatherは座標ごとの現在の天気です。meteo.jsonにそのまま書き出されます。
type Weather struct {
	Latitude         float64        `json:"latitude"`
	Longitude        float64        `json:"longitude"`
	Elevation        float64        `json:"elevation"`
	UTCOffsetSeconds int            `json:"utc_offset_seconds"`
	CurrentWeather   CurrentWeather `json:"current_weather"`
}

// NewCurrentWeatherFromFahrenheitは華氏の計測値から摂氏を算出し、小数第2位で丸めます。
func NewCurrentWeatherFromFahrenheit(measuredAt time.Time, fahrenheit float64) CurrentWeather {
	celsius := (fahrenheit - 32) * 5 / 9
	return CurrentWeather{
		TimeUTC:               measuredAt.UTC().Format("2006-01-02T15:04:05-07:00"),
		TemperatureCelsius:    round2(celsius),
		TemperatureFahrenheit: round2(fahrenheit),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
