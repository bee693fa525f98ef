// Package config resolves where and how intakes are submitted.
//
// Values are layered: the build default, then a .env file, then the
// environment, then command flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBaseURL is set at build time with
// -ldflags "-X github.com/helmcode/patient-assistant/pkg/config.DefaultBaseURL=..."
var DefaultBaseURL = "http://127.0.0.1:8000"

const (
	EnvAPIURL  = "PATIENT_ASSISTANT_API_URL"
	EnvTimeout = "PATIENT_ASSISTANT_TIMEOUT"

	DefaultEnvFile = ".env"
)

type Config struct {
	BaseURL string
	// Timeout of zero waits for the service indefinitely.
	Timeout time.Duration
}

// Overrides are values set on the command line. A nil field was not set and
// leaves the lower layers in place.
type Overrides struct {
	BaseURL *string
	Timeout *time.Duration
}

// Load reads envFile (if any) and the environment, applies overrides on top
// and validates the result. A missing default .env is not an error; a
// missing explicit file is. Environment values shadowed by an override are
// never parsed.
func Load(envFile string, overrides Overrides) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	cfg := &Config{BaseURL: DefaultBaseURL}
	if err := cfg.applyEnv(overrides); err != nil {
		return nil, err
	}
	if overrides.BaseURL != nil {
		cfg.BaseURL = *overrides.BaseURL
	}
	if overrides.Timeout != nil {
		cfg.Timeout = *overrides.Timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(overrides Overrides) error {
	if v := os.Getenv(EnvAPIURL); v != "" && overrides.BaseURL == nil {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" && overrides.Timeout == nil {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate checks the base URL is absolute http(s) and the timeout is not negative.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid API URL %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API URL %q: must be an absolute http or https URL", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}
