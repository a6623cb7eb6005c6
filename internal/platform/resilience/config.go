package resilience

import "time"

// CircuitBreakerConfigはYAMLから読み込むブレーカー設定です。
type CircuitBreakerConfig struct {
	Enabled             bool `yaml:"enabled"`
	FailureThreshold    int  `yaml:"failure_threshold" validate:"gte=0"`
	OpenTimeoutSeconds  int  `yaml:"open_timeout_seconds" validate:"gte=0"`
	HalfOpenMaxRequests int  `yaml:"half_open_max_requests" validate:"gte=0"`
}

func (c CircuitBreakerConfig) OpenTimeout() time.Duration {
	return time.Duration(c.OpenTimeoutSeconds) * time.Second
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:             true,
		FailureThreshold:    5,
		OpenTimeoutSeconds:  15,
		HalfOpenMaxRequests: 2,
	}
}

// NormalizeCircuitBreakerConfigは、未設定(0以下)の項目を既定値で補います。
func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeoutSeconds < 1 {
		cfg.OpenTimeoutSeconds = defaults.OpenTimeoutSeconds
	}
	if cfg.HalfOpenMaxRequests < 1 {
		cfg.HalfOpenMaxRequests = defaults.HalfOpenMaxRequests
	}
	return cfg
}
