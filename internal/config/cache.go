package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// CacheConfig drives the Redis response cache in front of the public
// catalogue reads. Caching is off when Enabled is false or Redis is
// unavailable. Responses larger than MaxBodyBytes are served but not stored.
type CacheConfig struct {
	Enabled      bool          `envconfig:"CACHE_ENABLED" default:"true"`
	Methods      []string      `envconfig:"CACHE_METHODS" default:"GET"`
	TTL          time.Duration `envconfig:"CACHE_TTL" default:"30s"`
	KeyStrategy  string        `envconfig:"CACHE_KEY_STRATEGY" default:"route_query"`
	Prefix       string        `envconfig:"CACHE_PREFIX" default:"cache"`
	MaxBodyBytes int           `envconfig:"CACHE_MAX_BODY_BYTES" default:"1048576"`
}

func LoadCacheConfig() (CacheConfig, error) {
	var cc CacheConfig
	if err := envconfig.Process("", &cc); err != nil {
		return CacheConfig{}, fmt.Errorf("config cache: %w", err)
	}
	for i, m := range cc.Methods {
		cc.Methods[i] = strings.ToUpper(strings.TrimSpace(m))
	}
	if cc.TTL <= 0 {
		cc.TTL = 30 * time.Second
	}
	return cc, nil
}

// Caches reports whether responses to method are cached.
func (cc CacheConfig) Caches(method string) bool {
	for _, m := range cc.Methods {
		if m == method {
			return true
		}
	}
	return false
}
