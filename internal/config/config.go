package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// ConfigPathEnv names the variable holding an optional YAML config file path
const ConfigPathEnv = "RATES_CONFIG_PATH"

// Cache backends
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

type Config struct {
	Server       `yaml:"server"`
	AlphaVantage `yaml:"alpha_vantage"`
	Cache        `yaml:"cache"`
	Log          `yaml:"log"`
}

type Server struct {
	Addr            string        `yaml:"addr" env:"SERVER_ADDR" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

type AlphaVantage struct {
	BaseURL string        `yaml:"base_url" env:"ALPHAVANTAGE_BASE_URL" env-default:"https://www.alphavantage.co"`
	APIKey  string        `yaml:"api_key" env:"ALPHAVANTAGE_API_KEY"`
	Timeout time.Duration `yaml:"timeout" env:"ALPHAVANTAGE_TIMEOUT" env-default:"10s"`
}

type Cache struct {
	Backend       string `yaml:"backend" env:"CACHE_BACKEND" env-default:"badger"`
	BadgerDir     string `yaml:"badger_dir" env:"CACHE_BADGER_DIR" env-default:"data/badger"`
	RedisAddr     string `yaml:"redis_addr" env:"CACHE_REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"CACHE_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"CACHE_REDIS_DB" env-default:"0"`
	SQLitePath    string `yaml:"sqlite_path" env:"CACHE_SQLITE_PATH" env-default:"data/rates.db"`
}

type Log struct {
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB" env-default:"100"`
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS" env-default:"5"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS" env-default:"30"`
}

// Load reads .env, then the optional YAML file named by RATES_CONFIG_PATH, then
// the environment. Environment values override the file.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config
	if path := os.Getenv(ConfigPathEnv); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to find config file: %w", err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that have no usable default
func (c *Config) Validate() error {
	var errs []error

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	switch c.Cache.Backend {
	case BackendMemory, BackendBadger, BackendRedis, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.Cache.Backend))
	}

	if c.AlphaVantage.APIKey == "" {
		errs = append(errs, errors.New("alpha vantage api key is required"))
	}
	if c.AlphaVantage.BaseURL == "" {
		errs = append(errs, errors.New("alpha vantage base url is required"))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server address is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
