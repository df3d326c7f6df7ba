package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// RateLimitConfig tunes the token bucket guarding public write routes.
// Burst and RefillEvery are shorthands that override Capacity and the
// refill pair when set.
type RateLimitConfig struct {
	Enabled        bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Capacity       int           `envconfig:"RATE_LIMIT_CAPACITY" default:"60"`
	RefillTokens   int           `envconfig:"RATE_LIMIT_REFILL_TOKENS" default:"1"`
	RefillInterval time.Duration `envconfig:"RATE_LIMIT_REFILL_INTERVAL" default:"1s"`
	TTL            time.Duration `envconfig:"RATE_LIMIT_TTL" default:"10m"`
	KeyStrategy    string        `envconfig:"RATE_LIMIT_KEY_STRATEGY" default:"ip_route"`
	Prefix         string        `envconfig:"RATE_LIMIT_PREFIX" default:"rl"`
	Debug          bool          `envconfig:"RATE_LIMIT_DEBUG"`
	Burst          int           `envconfig:"RATE_LIMIT_BURST"`
	RefillEvery    time.Duration `envconfig:"RATE_LIMIT_REFILL_EVERY"`
}

func LoadRateLimitConfig() (RateLimitConfig, error) {
	var rl RateLimitConfig
	if err := envconfig.Process("", &rl); err != nil {
		return RateLimitConfig{}, fmt.Errorf("config rate limit: %w", err)
	}
	return rl.normalize(), nil
}

func (rl RateLimitConfig) normalize() RateLimitConfig {
	if rl.Burst > 0 {
		rl.Capacity = rl.Burst
	}
	if rl.RefillEvery > 0 {
		rl.RefillTokens = 1
		rl.RefillInterval = rl.RefillEvery
	}
	if rl.Capacity < 1 {
		rl.Capacity = 1
	}
	if rl.RefillTokens < 1 {
		rl.RefillTokens = 1
	}
	if rl.RefillInterval <= 0 {
		rl.RefillInterval = time.Second
	}
	// keys must outlive a few refill cycles or buckets reset early
	if minTTL := 5 * rl.RefillInterval; rl.TTL < minTTL {
		rl.TTL = minTTL
	}
	return rl
}

// PerSecond is the steady refill rate, used by the in-process fallback.
func (rl RateLimitConfig) PerSecond() float64 {
	return float64(rl.RefillTokens) / rl.RefillInterval.Seconds()
}
