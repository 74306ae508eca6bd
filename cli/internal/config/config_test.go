package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv unsets every BREWSIM_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvServer, EnvAPIKey, EnvAPIHeader, EnvLocale, EnvOutput, EnvTimeout} {
		t.Setenv(k, "")
	}
}

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{APIHeader: DefaultAPIHeader, Output: DefaultOutput, Timeout: DefaultTimeout}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
	if cfg.Remote() {
		t.Error("Remote: want false without a server")
	}
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)
	path := writeEnv(t, `
# local brew server
BREWSIM_SERVER=localhost:50051
BREWSIM_API_KEY="s3cret"
BREWSIM_API_HEADER=X-Brew-Token
BREWSIM_LOCALE=zh-TW
BREWSIM_OUTPUT=markdown
BREWSIM_TIMEOUT=3s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{
		Server:    "localhost:50051",
		APIKey:    "s3cret",
		APIHeader: "x-brew-token",
		Locale:    "zh-TW",
		Output:    "markdown",
		Timeout:   3 * time.Second,
	}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
	if !cfg.Remote() {
		t.Error("Remote: want true")
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeEnv(t, "BREWSIM_SERVER=file:1\nBREWSIM_LOCALE=zh-TW\n")
	t.Setenv(EnvServer, "env:2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server != "env:2" {
		t.Errorf("Server: got %q, want env:2", cfg.Server)
	}
	if cfg.Locale != "zh-TW" {
		t.Errorf("Locale: got %q, want zh-TW from file", cfg.Locale)
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	for _, v := range []string{"soon", "-1s", "0s"} {
		t.Run(v, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(EnvTimeout, v)
			if _, err := Load(""); err == nil {
				t.Errorf("want error for %s=%q", EnvTimeout, v)
			}
		})
	}
}
