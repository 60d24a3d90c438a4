package app

import (
	"github.com/propline/propline/app/database"
	"github.com/propline/propline/app/ledger"
	"github.com/propline/propline/app/provider"
	"github.com/propline/propline/internal/nexus"
)

type Config struct {
	DB       database.Config
	Provider provider.Config
	Ledger   ledger.Config

	AppHost string `env:"APP_HOST" env-default:"localhost"`
	AppPort string `env:"APP_PORT" env-default:"8080"`
	Env     string `env:"APP_ENV" env-default:"development"`

	// JobToken authorizes the scheduler's job-trigger calls. Empty locks
	// the job endpoints.
	JobToken string `env:"JOB_TOKEN"`

	CacheBackend  string `env:"CACHE_BACKEND" env-default:"memory"`
	RedisAddr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	MigrationsPath string `env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// LoadConfig loads the application configuration from environment variables or a config file.
func LoadConfig() (*Config, error) {
	c := &Config{}
	err := nexus.NewLoader().Load(c)
	return c, err
}
