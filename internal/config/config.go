package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	ProviderCohere = "cohere"
	ProviderOpenAI = "openai"

	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	App      AppConfig      `toml:"app" envconfig:"APP"`
	Upload   UploadConfig   `toml:"upload" envconfig:"UPLOAD"`
	LLM      LLMConfig      `toml:"llm" envconfig:"LLM"`
	Database DatabaseConfig `toml:"database" envconfig:"DB"`
	Redis    RedisConfig    `toml:"redis" envconfig:"REDIS"`
	RabbitMQ RabbitMQConfig `toml:"rabbitmq" envconfig:"RABBITMQ"`
}

type AppConfig struct {
	Name      string `toml:"name" split_words:"true"`
	Env       string `toml:"env" split_words:"true"`
	Host      string `toml:"host" split_words:"true"`
	Port      int    `toml:"port" split_words:"true"`
	GinMode   string `toml:"gin_mode" split_words:"true"`
	SecretKey string `toml:"secret_key" split_words:"true"`
}

type UploadConfig struct {
	Dir               string `toml:"dir" split_words:"true"`
	MaxSizeMB         int    `toml:"max_size_mb" split_words:"true"`
	SweepSchedule     string `toml:"sweep_schedule" split_words:"true"`
	StaleAfterMinutes int    `toml:"stale_after_minutes" split_words:"true"`
}

type LLMConfig struct {
	Provider string `toml:"provider" split_words:"true"`
	BaseURL  string `toml:"base_url" split_words:"true"`
	APIKey   string `toml:"api_key" split_words:"true"`
	Model    string `toml:"model" split_words:"true"`
}

type DatabaseConfig struct {
	Driver string `toml:"driver" split_words:"true"`
	DSN    string `toml:"dsn" split_words:"true"`
}

// RedisConfig leaves redis disabled when Addr is empty.
type RedisConfig struct {
	Addr     string `toml:"addr" split_words:"true"`
	Password string `toml:"password" split_words:"true"`
	DB       int    `toml:"db" split_words:"true"`
}

// RabbitMQConfig leaves event publishing disabled when URL is empty.
type RabbitMQConfig struct {
	URL   string `toml:"url" split_words:"true"`
	Queue string `toml:"queue" split_words:"true"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process env overrides failed: %w", err)
	}
	if cfg.LLM.APIKey == "" && cfg.LLM.Provider == ProviderCohere {
		cfg.LLM.APIKey = os.Getenv("COHERE_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderCohere, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLM.Provider)
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is empty")
	}
	if c.Upload.Dir == "" {
		return fmt.Errorf("upload dir is empty")
	}
	if c.Upload.MaxSizeMB <= 0 {
		return fmt.Errorf("upload max_size_mb must be positive")
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxSizeMB) << 20
}

func (c *Config) StaleUploadAge() time.Duration {
	return time.Duration(c.Upload.StaleAfterMinutes) * time.Minute
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:      "paperlens",
			Env:       "dev",
			Host:      "0.0.0.0",
			Port:      5000,
			GinMode:   "debug",
			SecretKey: "change-me-in-production",
		},
		Upload: UploadConfig{
			Dir:               "uploads",
			MaxSizeMB:         16,
			SweepSchedule:     "@every 30m",
			StaleAfterMinutes: 60,
		},
		LLM: LLMConfig{
			Provider: ProviderCohere,
			BaseURL:  "https://api.cohere.com",
			Model:    "command-a-03-2025",
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    "papers.db",
		},
		RabbitMQ: RabbitMQConfig{
			Queue: "papers.analyzed",
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
