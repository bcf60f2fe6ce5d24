package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "STEAKZ"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	JWT        JWTConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
	Events     EventsConfig
	Restaurant RestaurantConfig
	Seed       SeedConfig
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", file, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.DB.Driver) {
	case DriverSQLite, DriverMySQL:
	default:
		return fmt.Errorf("unsupported db driver %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return errors.New("STEAKZ_DB_DSN is required")
	}
	if c.App.IsProd() && c.JWT.Secret == defaultJWTSecret {
		return errors.New("STEAKZ_JWT_SECRET must be set in production")
	}
	return nil
}

type AppConfig struct {
	Env       string `envconfig:"STEAKZ_APP_ENV" default:"dev"`
	Port      string `envconfig:"STEAKZ_APP_PORT" default:"8080"`
	LogLevel  string `envconfig:"STEAKZ_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"STEAKZ_LOG_FORMAT" default:"text"`
	GinMode   string `envconfig:"STEAKZ_GIN_MODE" default:"debug"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver          string        `envconfig:"STEAKZ_DB_DRIVER" default:"sqlite"`
	DSN             string        `envconfig:"STEAKZ_DB_DSN" default:"steakz.db"`
	MaxOpenConns    int           `envconfig:"STEAKZ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STEAKZ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STEAKZ_DB_CONN_MAX_LIFETIME" default:"1h"`
}

const defaultJWTSecret = "steakz-dev-secret"

type JWTConfig struct {
	Secret string        `envconfig:"STEAKZ_JWT_SECRET" default:"steakz-dev-secret"`
	Issuer string        `envconfig:"STEAKZ_JWT_ISSUER" default:"steakz"`
	TTL    time.Duration `envconfig:"STEAKZ_JWT_TTL" default:"24h"`
}

type RateLimitConfig struct {
	// Requests per second per client IP across the API.
	RPS   float64 `envconfig:"STEAKZ_RATE_LIMIT_RPS" default:"50"`
	Burst int     `envconfig:"STEAKZ_RATE_LIMIT_BURST" default:"100"`
	// Login and signup attempts per minute per client IP.
	AuthPerMinute int `envconfig:"STEAKZ_RATE_LIMIT_AUTH_PER_MINUTE" default:"10"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STEAKZ_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type EventsConfig struct {
	PollInterval time.Duration `envconfig:"STEAKZ_EVENTS_POLL_INTERVAL" default:"500ms"`
	BatchSize    int           `envconfig:"STEAKZ_EVENTS_BATCH_SIZE" default:"100"`
}

type RestaurantConfig struct {
	Name    string `envconfig:"STEAKZ_RESTAURANT_NAME" default:"Steakz"`
	Address string `envconfig:"STEAKZ_RESTAURANT_ADDRESS" default:"1 Main Street"`
	Phone   string `envconfig:"STEAKZ_RESTAURANT_PHONE" default:"+44 20 0000 0000"`
}

type SeedConfig struct {
	Enabled       bool   `envconfig:"STEAKZ_SEED_ENABLED" default:"true"`
	AdminPassword string `envconfig:"STEAKZ_SEED_ADMIN_PASSWORD" default:"admin123"`
	StaffPassword string `envconfig:"STEAKZ_SEED_STAFF_PASSWORD" default:"staff123"`
}
