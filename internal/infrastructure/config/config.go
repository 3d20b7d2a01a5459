package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// ErrMissingSecret is returned when JWT_SECRET is unset or blank.
var ErrMissingSecret = errors.New("config: JWT_SECRET must be set")

type Config struct {
	Port     string `env:"PORT,      default=8082"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Image ImageConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	// JWTSecret signs every token. Startup fails without it.
	JWTSecret          string        `env:"JWT_SECRET, required"`
	TokenTTL           time.Duration `env:"TOKEN_TTL,             default=24h"`
	LoginMaxFailures   int           `env:"LOGIN_MAX_FAILURES,    default=5"`
	LoginFailureWindow time.Duration `env:"LOGIN_FAILURE_WINDOW,  default=15m"`
	LoginRatePerSecond float64       `env:"LOGIN_RATE_PER_SECOND, default=5"`
}

type ImageConfig struct {
	TmpDir          string        `env:"IMAGE_TMP_DIR"`
	MaxBytes        int64         `env:"MAX_IMAGE_BYTES,  default=10485760"`
	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT,    default=20s"`
	PipelineTimeout time.Duration `env:"PIPELINE_TIMEOUT, default=45s"`
	MaxPixels       int64         `env:"MAX_IMAGE_PIXELS, default=40000000"`
	JPEGQuality     int           `env:"JPEG_QUALITY,     default=90"`
	SweepInterval   time.Duration `env:"SWEEP_INTERVAL,   default=10m"`
	SweepMaxAge     time.Duration `env:"SWEEP_MAX_AGE,    default=1h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=image_filter"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from l. Tests pass envconfig.MapLookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, ErrMissingSecret
	}
	return &cfg, nil
}

// IsProduction reports whether ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
