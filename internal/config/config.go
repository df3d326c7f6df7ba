package config // package config loads application configuration from environment variables

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all runtime configuration of the API process. Each concern is
// loaded by its own envconfig pass so the keys stay flat (PORT, DATABASE_URL,
// JWT_SECRET) rather than prefixed by the struct path.
type Config struct {
	Env                string        `envconfig:"APP_ENV" default:"development"`
	Port               string        `envconfig:"PORT" default:"3000"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"5s"`
	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	Database  DatabaseConfig  `ignored:"true"`
	Auth      AuthConfig      `ignored:"true"`
	Events    EventsConfig    `ignored:"true"`
	RateLimit RateLimitConfig `ignored:"true"`
	Redis     RedisConfig     `ignored:"true"`
	Cache     CacheConfig     `ignored:"true"`
}

// DatabaseConfig selects the SQL driver and pool limits. Driver is one of
// pgx, postgres (lib/pq) or mysql.
type DatabaseConfig struct {
	Driver          string        `envconfig:"DB_DRIVER" default:"pgx"`
	URL             string        `envconfig:"DATABASE_URL" required:"true"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

// AuthConfig drives token issuance and password hashing.
type AuthConfig struct {
	JWTSecret           string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL            time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	BcryptCost          int           `envconfig:"BCRYPT_COST" default:"10"`
	RegistrationEnabled bool          `envconfig:"AUTH_REGISTRATION_ENABLED" default:"true"`
}

// EventsConfig points at the RabbitMQ broker. An empty URL disables
// publishing in the API process.
type EventsConfig struct {
	RabbitMQURL string `envconfig:"RABBITMQ_URL"`
	Exchange    string `envconfig:"EVENTS_EXCHANGE" default:"venue.events"`
	Queue       string `envconfig:"EVENTS_QUEUE" default:"venue.events.log"`
	LogPath     string `envconfig:"NOTIFIER_LOG_PATH" default:"logs/booking.log"`
}

// Load reads the full API configuration. Missing required keys or values
// that fail to parse are reported as errors; main decides whether to exit.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return Config{}, fmt.Errorf("config database: %w", err)
	}
	if err := envconfig.Process("", &cfg.Auth); err != nil {
		return Config{}, fmt.Errorf("config auth: %w", err)
	}
	events, err := LoadEvents()
	if err != nil {
		return Config{}, err
	}
	cfg.Events = events
	if cfg.RateLimit, err = LoadRateLimitConfig(); err != nil {
		return Config{}, err
	}
	if cfg.Redis, err = LoadRedisConfig(); err != nil {
		return Config{}, err
	}
	if cfg.Cache, err = LoadCacheConfig(); err != nil {
		return Config{}, err
	}

	// envconfig treats a set-but-empty variable as present
	if cfg.Database.URL == "" {
		return Config{}, fmt.Errorf("config: missing required env var: DATABASE_URL")
	}
	if cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("config: missing required env var: JWT_SECRET")
	}
	switch cfg.Database.Driver {
	case "pgx", "postgres", "mysql":
	default:
		return Config{}, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("config: BCRYPT_COST %d out of range", cfg.Auth.BcryptCost)
	}
	// never trade hashing strength for speed outside development
	if cfg.IsProduction() && cfg.Auth.BcryptCost < bcrypt.DefaultCost {
		return Config{}, fmt.Errorf("config: BCRYPT_COST must be at least %d in production", bcrypt.DefaultCost)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	return cfg, nil
}

// LoadEvents reads only the broker settings; the notifier needs nothing else.
func LoadEvents() (EventsConfig, error) {
	var ev EventsConfig
	if err := envconfig.Process("", &ev); err != nil {
		return EventsConfig{}, fmt.Errorf("config events: %w", err)
	}
	return ev, nil
}

// IsProduction reports whether internals must be hidden from error bodies.
func (c Config) IsProduction() bool { return c.Env == "production" }

func (c Config) Addr() string { return ":" + c.Port }
