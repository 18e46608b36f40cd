package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/mchmarny/menuview/pkg/logger"
)

const (
	// EnvVarURL overrides the menu endpoint.
	EnvVarURL = "MENU_URL"

	// EnvVarLogFile overrides the log file used by the interactive viewer.
	EnvVarLogFile = "MENU_LOG_FILE"

	// DefaultURL is the menu endpoint used when nothing else is configured.
	DefaultURL = "http://localhost:5001/menu"

	// DefaultLogLevel is the log level used when nothing else is configured.
	DefaultLogLevel = "info"

	defaultLogFileName = "menuview.log"
)

// ErrInvalidURL is returned by Validate when the endpoint is not an absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid menu URL")

// Config holds the viewer configuration.
type Config struct {
	URL      string // Menu endpoint
	LogLevel string // debug, info, warn or error
	LogFile  string // Log destination while the viewer owns the terminal
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		URL:      DefaultURL,
		LogLevel: DefaultLogLevel,
		LogFile:  filepath.Join(os.TempDir(), defaultLogFileName),
	}
}

// Load returns the default configuration overridden by a .env file in the
// working directory (if present) and then by the environment.
// Command-line flags are applied by the caller on top of the result.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded environment from .env")
	}

	cfg := Default()
	cfg.applyEnv(os.LookupEnv)

	return cfg
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvVarURL); ok && v != "" {
		c.URL = v
	}
	if v, ok := lookup(logger.EnvVarLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvVarLogFile); ok && v != "" {
		c.LogFile = v
	}
}

// Validate checks that the endpoint is an absolute http or https URL with a host.
func (c *Config) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https: %q", ErrInvalidURL, c.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host: %q", ErrInvalidURL, c.URL)
	}
	return nil
}
