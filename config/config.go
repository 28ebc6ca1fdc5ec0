package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment    string   `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:5173" envSeparator:","`
	JWTSecret      string   `env:"JWT_SECRET" envDefault:"change-me-in-production"`

	Redis   RedisConfig   `envPrefix:"REDIS_"`
	Admin   AdminConfig   `envPrefix:"ADMIN_"`
	Backend BackendConfig `envPrefix:"BACKEND_"`
}

type RedisConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// AdminConfig configures the dashboard served by cmd/roomadmin.
type AdminConfig struct {
	Port       string `env:"PORT" envDefault:"8081"`
	BackendURL string `env:"BACKEND_URL" envDefault:"http://localhost:8080"`
	// SessionStore is "memory" or "redis".
	SessionStore   string        `env:"SESSION_STORE" envDefault:"memory"`
	CookieName     string        `env:"COOKIE_NAME" envDefault:"room_admin_session"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	RedirectDelay  time.Duration `env:"REDIRECT_DELAY" envDefault:"1s"`
	SuccessWindow  time.Duration `env:"SUCCESS_WINDOW" envDefault:"3s"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// BackendConfig configures the development REST backend served by cmd/roomd.
type BackendConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	// Store is "memory", "redis" or "postgres".
	Store         string        `env:"STORE" envDefault:"memory"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	AdminEmail    string        `env:"ADMIN_EMAIL" envDefault:"admin@bgmi.com"`
	AdminUsername string        `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string        `env:"ADMIN_PASSWORD" envDefault:"change-me"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

var (
	sessionStores = []string{"memory", "redis"}
	roomStores    = []string{"memory", "redis", "postgres"}
)

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if !slices.Contains(sessionStores, cfg.Admin.SessionStore) {
		return nil, fmt.Errorf("ADMIN_SESSION_STORE %q must be one of %v", cfg.Admin.SessionStore, sessionStores)
	}
	if !slices.Contains(roomStores, cfg.Backend.Store) {
		return nil, fmt.Errorf("BACKEND_STORE %q must be one of %v", cfg.Backend.Store, roomStores)
	}
	if cfg.Backend.Store == "postgres" && cfg.Backend.DatabaseURL == "" {
		return nil, fmt.Errorf("BACKEND_DATABASE_URL required when BACKEND_STORE=postgres")
	}
	return &cfg, nil
}

// IsProduction reports whether gin should run in release mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}
