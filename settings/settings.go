// Package settings reads server settings from the environment and an
// optional .env file.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Session store backends
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Settings holds everything the server reads from its environment
type Settings struct {
	Host      string `env:"MONOPOLY_HOST" envDefault:"localhost"`
	Port      int    `env:"MONOPOLY_PORT" envDefault:"8080"`
	ConfigDir string `env:"CONFIG_DIR" envDefault:"configs"`

	SessionStore string        `env:"SESSION_STORE" envDefault:"file"`
	SessionsDir  string        `env:"SESSIONS_DIR" envDefault:"sessions"`
	SQLitePath   string        `env:"SQLITE_PATH" envDefault:"sessions.db"`
	RedisURL     string        `env:"REDIS_URL" envDefault:"localhost:6379"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	NgrokEnabled   bool   `env:"NGROK_ENABLED" envDefault:"false"`
	NgrokAuthToken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`
}

// Load reads the given .env files, then parses the environment. Missing
// files are skipped; variables already set win over file values.
func Load(files ...string) (*Settings, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &s, s.Validate()
}

// FromMap parses settings from an explicit variable set
func FromMap(vars map[string]string) (*Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &s, s.Validate()
}

// Validate rejects values the server cannot start with
func (s *Settings) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("invalid port %d", s.Port)
	}
	switch s.SessionStore {
	case StoreMemory, StoreFile, StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("unknown session store %q", s.SessionStore)
	}
	if s.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", s.SessionTTL)
	}
	return nil
}

// Addr is the host:port the HTTP server binds
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
