package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	pkglogger "github.com/ksobremonte/sentiment-slice/pkg/logger"
)

// Config holds all runtime configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		User            string `yaml:"user"`
		Password        string `yaml:"password"`
		Name            string `yaml:"name"`
		MaxIdleConns    int    `yaml:"max_idle_conns"`
		MaxOpenConns    int    `yaml:"max_open_conns"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
	} `yaml:"database"`

	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size"`
	} `yaml:"redis"`

	Storage struct {
		Enabled         bool   `yaml:"enabled"`
		Endpoint        string `yaml:"endpoint"`
		Region          string `yaml:"region"`
		AccessKeyID     string `yaml:"access_key_id"`
		SecretAccessKey string `yaml:"secret_access_key"`
		Bucket          string `yaml:"bucket"`
		CDNURL          string `yaml:"cdn_url"`
		BasePath        string `yaml:"base_path"`
		ForcePathStyle  bool   `yaml:"force_path_style"`
	} `yaml:"storage"`

	JWT struct {
		Secret    string `yaml:"secret"`
		ExpiresIn int    `yaml:"expires_in"` // minutes
		RefreshIn int    `yaml:"refresh_in"` // minutes
	} `yaml:"jwt"`

	HCaptcha struct {
		SiteKey string `yaml:"site_key"`
		Secret  string `yaml:"secret"`
	} `yaml:"hcaptcha"`

	AI struct {
		GatewayURL string `yaml:"gateway_url"`
		APIKey     string `yaml:"api_key"`
		Model      string `yaml:"model"`
	} `yaml:"ai"`

	CORS struct {
		AllowOrigins []string `yaml:"allow_origins"`
	} `yaml:"cors"`

	Review struct {
		RequireReceipt bool `yaml:"require_receipt"`
	} `yaml:"review"`
}

// Load reads the yaml config file, then applies environment overrides.
// Env vars always win so secrets never need to live in the yaml file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from APP_ENV, not user input
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Server.Env, "APP_ENV")
	overrideInt(&cfg.Server.Port, "SERVER_PORT")

	overrideString(&cfg.Database.Host, "DB_HOST")
	overrideInt(&cfg.Database.Port, "DB_PORT")
	overrideString(&cfg.Database.User, "DB_USER")
	overrideString(&cfg.Database.Password, "DB_PASSWORD")
	overrideString(&cfg.Database.Name, "DB_NAME")

	overrideString(&cfg.Redis.Host, "REDIS_HOST")
	overrideInt(&cfg.Redis.Port, "REDIS_PORT")
	overrideString(&cfg.Redis.Password, "REDIS_PASSWORD")

	overrideString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	overrideString(&cfg.Storage.AccessKeyID, "STORAGE_ACCESS_KEY_ID")
	overrideString(&cfg.Storage.SecretAccessKey, "STORAGE_SECRET_ACCESS_KEY")
	overrideString(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	overrideString(&cfg.Storage.CDNURL, "STORAGE_CDN_URL")

	overrideString(&cfg.JWT.Secret, "JWT_SECRET")

	overrideString(&cfg.HCaptcha.SiteKey, "HCAPTCHA_SITE_KEY")
	overrideString(&cfg.HCaptcha.Secret, "HCAPTCHA_SECRET_KEY")

	overrideString(&cfg.AI.GatewayURL, "AI_GATEWAY_URL")
	overrideString(&cfg.AI.APIKey, "AI_GATEWAY_API_KEY")
	overrideString(&cfg.AI.Model, "AI_MODEL")

	if v := os.Getenv("REVIEW_REQUIRE_RECEIPT"); v != "" {
		cfg.Review.RequireReceipt = v == "1" || v == "true"
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "local"
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 10
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 50
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 300
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.JWT.ExpiresIn == 0 {
		cfg.JWT.ExpiresIn = 30
	}
	if cfg.JWT.RefreshIn == 0 {
		cfg.JWT.RefreshIn = 60 * 24 * 7
	}
	if cfg.AI.GatewayURL == "" {
		cfg.AI.GatewayURL = "https://ai.gateway.lovable.dev/v1"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "google/gemini-3-flash-preview"
	}
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// GetDSN builds the MySQL DSN
func (c *Config) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}

// IsDevelopment reports whether the server runs in a dev-like environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "local" || c.Server.Env == "dev" || c.Server.Env == "development"
}

// LogResolved logs the non-secret parts of the resolved configuration
func LogResolved(cfg *Config) {
	pkglogger.GetLogger().Info().
		Str("env", cfg.Server.Env).
		Int("port", cfg.Server.Port).
		Str("db_host", cfg.Database.Host).
		Str("db_name", cfg.Database.Name).
		Bool("storage_enabled", cfg.Storage.Enabled).
		Bool("captcha_configured", cfg.HCaptcha.Secret != "").
		Bool("require_receipt", cfg.Review.RequireReceipt).
		Msg("configuration resolved")
}
