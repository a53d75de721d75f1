// Package config loads server settings from defaults, an optional YAML file
// and FOLIO_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
}

// AppConfig holds process-wide switches.
type AppConfig struct {
	// Env is "development" or "production". Development exposes error causes.
	Env string `mapstructure:"env"`
}

// IsDevelopment reports whether error details may be shown to clients.
func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development"
}

// HTTPConfig contains HTTP server settings.
type HTTPConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// Addr returns the listen address.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", h.Port)
}

// DatabaseConfig contains PostgreSQL settings. An empty URL selects the
// in-memory store.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// AuthConfig holds the single admin account and token settings.
type AuthConfig struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	TokenTTL          time.Duration `mapstructure:"token_ttl"`
	AdminEmail        string        `mapstructure:"admin_email"`
	AdminPasswordHash string        `mapstructure:"admin_password_hash"`
}

// CacheConfig controls the homepage snapshot.
type CacheConfig struct {
	HomepageTTL time.Duration `mapstructure:"homepage_ttl"`
	// MaxAge is advertised in Cache-Control for the homepage.
	MaxAge time.Duration `mapstructure:"max_age"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

const envPrefix = "FOLIO"

// Load reads configuration. path may be empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "production")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 30*time.Second)
	v.SetDefault("http.cors_origins", []string{})
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 12*time.Hour)
	v.SetDefault("auth.admin_email", "")
	v.SetDefault("auth.admin_password_hash", "")
	v.SetDefault("cache.homepage_ttl", 5*time.Minute)
	v.SetDefault("cache.max_age", 60*time.Second)
	v.SetDefault("log.level", "info")
}

// bindEnv registers every key so AutomaticEnv also fills values that have no
// entry in the config file.
func bindEnv(v *viper.Viper) error {
	for _, key := range v.AllKeys() {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

func validate(cfg Config) error {
	switch cfg.App.Env {
	case "development", "production":
	default:
		return fmt.Errorf("app env must be development or production, got %q", cfg.App.Env)
	}
	if cfg.HTTP.Port <= 0 {
		return errors.New("http port must be positive")
	}
	if cfg.Cache.HomepageTTL <= 0 {
		return errors.New("cache homepage_ttl must be positive")
	}
	if cfg.Auth.AdminEmail != "" {
		if cfg.Auth.AdminPasswordHash == "" {
			return errors.New("auth admin_password_hash is required with admin_email")
		}
		if len(cfg.Auth.JWTSecret) < 32 {
			return errors.New("auth jwt_secret must be at least 32 bytes")
		}
	}
	return nil
}
