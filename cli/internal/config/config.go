package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvServer    = "BREWSIM_SERVER"
	EnvAPIKey    = "BREWSIM_API_KEY"
	EnvAPIHeader = "BREWSIM_API_HEADER"
	EnvLocale    = "BREWSIM_LOCALE"
	EnvOutput    = "BREWSIM_OUTPUT"
	EnvTimeout   = "BREWSIM_TIMEOUT"
)

const (
	DefaultEnvFile   = ".env"
	DefaultAPIHeader = "x-api-key"
	DefaultOutput    = "text"
	DefaultTimeout   = 10 * time.Second
)

// Config is the resolved CLI configuration.
type Config struct {
	Server    string
	APIKey    string
	APIHeader string
	// Locale is empty unless configured; the server (or, locally, English)
	// decides then.
	Locale  string
	Output  string
	Timeout time.Duration
}

// Remote reports whether simulations go to a server instead of running locally.
func (c Config) Remote() bool { return c.Server != "" }

// Load reads envFile (a missing file is not an error) and layers the process
// environment on top of it.
func Load(envFile string) (Config, error) {
	file := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			file = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("config: read %s: %w", envFile, err)
		}
	}

	get := func(key, def string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		if v := file[key]; v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Server:    get(EnvServer, ""),
		APIKey:    get(EnvAPIKey, ""),
		APIHeader: strings.ToLower(get(EnvAPIHeader, DefaultAPIHeader)),
		Locale:    get(EnvLocale, ""),
		Output:    get(EnvOutput, DefaultOutput),
		Timeout:   DefaultTimeout,
	}
	if s := get(EnvTimeout, ""); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("config: %s: invalid duration %q", EnvTimeout, s)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}
