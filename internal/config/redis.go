package config

// Redis backs the distributed rate limiter. If the server cannot be reached
// at startup the client constructor returns nil and the limiter falls back to
// in-process buckets.

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection settings. REDIS_HOST and REDIS_PORT take
// precedence over REDIS_ADDR when both are set.
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"true"`
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Host     string `envconfig:"REDIS_HOST"`
	Port     string `envconfig:"REDIS_PORT"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB"`
	TLS      bool   `envconfig:"REDIS_TLS"`
}

func LoadRedisConfig() (RedisConfig, error) {
	var rc RedisConfig
	if err := envconfig.Process("", &rc); err != nil {
		return RedisConfig{}, fmt.Errorf("config redis: %w", err)
	}
	if rc.Host != "" && rc.Port != "" {
		rc.Addr = rc.Host + ":" + rc.Port
	}
	return rc, nil
}

// NewRedisClient dials Redis and pings it with a short timeout. It returns
// nil when Redis is disabled or unreachable.
func NewRedisClient(rc RedisConfig) *redis.Client {
	if !rc.Enabled {
		return nil
	}
	var tlsConf *tls.Config
	if rc.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      rc.Addr,
		Password:  rc.Password,
		DB:        rc.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
