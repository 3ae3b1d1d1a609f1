package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	DBDriver       string `env:"DB_DRIVER" envDefault:"mysql"`
	DBHost         string `env:"DB_HOST" envDefault:"localhost"`
	DBPort         string `env:"DB_PORT" envDefault:"3306"`
	DBUser         string `env:"DB_USER" envDefault:"orguser"`
	DBPassword     string `env:"DB_PASSWORD" envDefault:"orgpassword"`
	DBName         string `env:"DB_NAME" envDefault:"org_hierarchy"`
	RedisHost      string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort      string `env:"REDIS_PORT" envDefault:"6379"`
	SessionSecret  string `env:"SESSION_SECRET" envDefault:"default-secret-key-change-me"`
	GinMode        string `env:"GIN_MODE" envDefault:"debug"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	Port           string `env:"PORT" envDefault:"8080"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads .env files if present and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env", ".env.local"}
	}
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("failed to load env files: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	if c.DBDriver != DriverMySQL && c.DBDriver != DriverPostgres {
		return fmt.Errorf("DB_DRIVER must be '%s' or '%s', got '%s'", DriverMySQL, DriverPostgres, c.DBDriver)
	}
	return nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
