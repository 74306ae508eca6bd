package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/pkg/types"
)

// Default values for the server configuration.
const (
	DefaultGRPCPort   = 50051
	DefaultHTTPPort   = 8080
	DefaultSessionTTL = 30 * time.Minute
	DefaultLogLevel   = "info"
)

// Config holds the server-side configuration parsed from the `server:` section
// of config.yaml.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// GRPCPort is the port the Simulator gRPC service listens on (default 50051).
	GRPCPort int `yaml:"grpc_port"`

	// HTTPPort is the port the REST API, metrics and WebSocket hub listen on
	// (default 8080).
	HTTPPort int `yaml:"http_port"`

	// LogLevel is one of: debug | info | warn | error. Hot-reloadable.
	LogLevel string `yaml:"log_level"`

	// Locale is the text locale used when a request does not name one.
	// Hot-reloadable.
	Locale string `yaml:"locale"`

	// Auth configures how the server authenticates gRPC and REST clients.
	Auth AuthConfig `yaml:"auth"`

	// Session controls in-memory session retention.
	Session SessionConfig `yaml:"session"`

	// Cache sizes the simulation result cache.
	Cache CacheConfig `yaml:"cache"`

	// Defaults is the parameter set new sessions and partial requests start
	// from. Fields omitted in YAML keep the built-in defaults. Hot-reloadable.
	Defaults types.BrewParameters `yaml:"defaults"`
}

// AuthConfig controls client authentication on the server side.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the expected API key.
	// Used when Mode == "apikey".
	KeyEnv string `yaml:"key_env"`

	// Header is the gRPC metadata key (and HTTP header name) to read the key from.
	// Defaults to "x-api-key" if empty.
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return strings.ToLower(a.Header)
	}
	return "x-api-key"
}

// SessionConfig controls in-memory session retention.
type SessionConfig struct {
	// TTL is how long a session survives without being read or patched.
	// Zero disables eviction. Default: 30m.
	TTL time.Duration `yaml:"ttl"`
}

// CacheConfig sizes the simulation cache.
type CacheConfig struct {
	// Size is the number of simulations kept. Zero disables the cache.
	// Default: flavor.DefaultCacheSize.
	Size int `yaml:"size"`
}

// Load reads and parses the config file at path, returning the server configuration.
// Missing fields are filled with sensible defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return defaults()
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			GRPCPort: DefaultGRPCPort,
			HTTPPort: DefaultHTTPPort,
			LogLevel: DefaultLogLevel,
			Locale:   string(flavor.LocaleEN),
			Session: SessionConfig{
				TTL: DefaultSessionTTL,
			},
			Cache: CacheConfig{
				Size: flavor.DefaultCacheSize,
			},
			Defaults: types.Defaults(),
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.GRPCPort <= 0 || cfg.Server.GRPCPort > 65535 {
		return fmt.Errorf("server.grpc_port %d is out of range [1, 65535]", cfg.Server.GRPCPort)
	}
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if cfg.Server.GRPCPort == cfg.Server.HTTPPort {
		return fmt.Errorf("server.grpc_port and server.http_port must differ (both %d)", cfg.Server.GRPCPort)
	}
	if _, err := ParseLevel(cfg.Server.LogLevel); err != nil {
		return err
	}
	switch cfg.Server.Auth.Mode {
	case "apikey":
		if cfg.Server.Auth.KeyEnv == "" {
			return fmt.Errorf("server.auth.key_env is required when mode is apikey")
		}
	case "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", cfg.Server.Auth.Mode)
	}
	switch cfg.Server.Locale {
	case string(flavor.LocaleEN), string(flavor.LocaleZH):
	default:
		return fmt.Errorf("server.locale %q unknown: want en|zh-TW", cfg.Server.Locale)
	}
	if cfg.Server.Session.TTL < 0 {
		return fmt.Errorf("server.session.ttl must not be negative")
	}
	if cfg.Server.Cache.Size < 0 {
		return fmt.Errorf("server.cache.size must not be negative")
	}
	if err := cfg.Server.Defaults.Validate(); err != nil {
		return fmt.Errorf("server.defaults: %w", err)
	}
	return nil
}

// ParseLevel maps a config log level name to its slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("server.log_level %q unknown: want debug|info|warn|error", s)
}
