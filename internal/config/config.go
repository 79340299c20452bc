package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Mongo      Mongo      `yaml:"mongo"`
	Reporter   Reporter   `yaml:"reporter"`
	Auth       Auth       `yaml:"auth"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_SERVER_ADDRESS" env-default:"0.0.0.0:8080"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_SERVER_TIMEOUT" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"120s"`
	// RateLimit is the number of requests allowed per client IP per minute.
	// Zero disables rate limiting.
	RateLimit int `yaml:"rate_limit" env:"HTTP_SERVER_RATE_LIMIT" env-default:"120"`
}

type Mongo struct {
	URI            string        `yaml:"uri" env:"DB_URL" env-default:"mongodb://localhost:27017/"`
	Database       string        `yaml:"database" env:"DB_NAME" env-default:"school"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" env-default:"3s"`
}

type Reporter struct {
	Database   string `yaml:"database" env:"REPORTER_DB_NAME" env-default:"AVG"`
	Collection string `yaml:"collection" env:"REPORTER_COLLECTION" env-default:"STU"`
}

type Auth struct {
	// Enabled requires an admin token on every mutating endpoint.
	Enabled       bool          `yaml:"enabled" env:"AUTH_ENABLED" env-default:"false"`
	AdminUsername string        `yaml:"admin_username" env:"AUTH_ADMIN_USERNAME"`
	AdminPassword string        `yaml:"admin_password" env:"AUTH_ADMIN_PASSWORD"`
	TokenExpiry   time.Duration `yaml:"token_expiry" env:"AUTH_TOKEN_EXPIRY" env-default:"24h"`
}

// Load reads the configuration file at CONFIG_PATH when set, otherwise the
// configuration is read from the environment only.
func Load() (*Config, error) {
	var cfg Config
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from environment: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", configPath, err)
	}
	return &cfg, nil
}

// DevMode prefixes database names so development data never mixes with
// real records.
func (c *Config) DevMode() {
	c.Mongo.Database = "dev_" + c.Mongo.Database
	c.Reporter.Database = "dev_" + c.Reporter.Database
}
