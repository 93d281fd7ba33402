package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Cache     CacheConfig     `yaml:"cache"`
	Remote    RemoteConfig    `yaml:"remote"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CacheConfig locates the local SQLite cache directory. An empty Dir
// disables persistence entirely.
type CacheConfig struct {
	Dir string `yaml:"dir"`
}

// RemoteConfig points at the PostgreSQL workout collection. With
// Enabled false the app runs offline-only and everything stays in the
// local cache.
type RemoteConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	// MigrationsDir holds the schema migration files. Defaults to
	// "migrations" relative to the working directory.
	MigrationsDir string `yaml:"migrations_dir"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
	UserID string `yaml:"user_id"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (r RemoteConfig) DSN() string {
	sslmode := r.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		r.User, r.Password, r.Host, r.Port, r.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix FITLOG_ and underscore-separated paths:
//
//	FITLOG_SERVER_HOST, FITLOG_SERVER_PORT, FITLOG_CACHE_DIR,
//	FITLOG_REMOTE_ENABLED, FITLOG_REMOTE_HOST, FITLOG_REMOTE_PORT,
//	FITLOG_REMOTE_NAME, FITLOG_REMOTE_USER, FITLOG_REMOTE_PASSWORD,
//	FITLOG_REMOTE_SSLMODE, FITLOG_REMOTE_MIGRATIONS_DIR,
//	FITLOG_AUTH_API_KEY, FITLOG_AUTH_USER_ID
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.Remote.MigrationsDir == "" {
		cfg.Remote.MigrationsDir = "migrations"
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FITLOG_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("FITLOG_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FITLOG_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("FITLOG_REMOTE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Remote.Enabled = enabled
		}
	}
	if v := os.Getenv("FITLOG_REMOTE_HOST"); v != "" {
		cfg.Remote.Host = v
	}
	if v := os.Getenv("FITLOG_REMOTE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Remote.Port = port
		}
	}
	if v := os.Getenv("FITLOG_REMOTE_NAME"); v != "" {
		cfg.Remote.Name = v
	}
	if v := os.Getenv("FITLOG_REMOTE_USER"); v != "" {
		cfg.Remote.User = v
	}
	if v := os.Getenv("FITLOG_REMOTE_PASSWORD"); v != "" {
		cfg.Remote.Password = v
	}
	if v := os.Getenv("FITLOG_REMOTE_SSLMODE"); v != "" {
		cfg.Remote.SSLMode = v
	}
	if v := os.Getenv("FITLOG_REMOTE_MIGRATIONS_DIR"); v != "" {
		cfg.Remote.MigrationsDir = v
	}
	if v := os.Getenv("FITLOG_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("FITLOG_AUTH_USER_ID"); v != "" {
		cfg.Auth.UserID = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Remote.Enabled {
		if c.Remote.Host == "" {
			return fmt.Errorf("remote.host is required when remote is enabled")
		}
		if c.Remote.Port == 0 {
			return fmt.Errorf("remote.port is required when remote is enabled")
		}
		if c.Remote.Name == "" {
			return fmt.Errorf("remote.name is required when remote is enabled")
		}
		if c.Remote.User == "" {
			return fmt.Errorf("remote.user is required when remote is enabled")
		}
	}
	return nil
}
