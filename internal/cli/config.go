package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mwork/points-api/internal/pkg/validator"
)

const (
	defaultServerURL = "http://localhost:8080"
	defaultTimeout   = 10 * time.Second
)

// Config is the pointsctl configuration, read from ~/.pointsctl/config.toml:
//
//	server_url = "http://localhost:8080"
//	timeout    = "5s"
type Config struct {
	ServerURL string        `toml:"server_url" json:"server_url" validate:"required,http_url"`
	Timeout   time.Duration `toml:"timeout" json:"timeout" validate:"gt=0"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		ServerURL: defaultServerURL,
		Timeout:   defaultTimeout,
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pointsctl", "config.toml")
}

// LoadConfig reads path over the defaults. An empty path means the default location,
// which may be missing. An explicit path must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the server URL and timeout.
func (c Config) Validate() error {
	errs := validator.Validate(&c)
	if errs == nil {
		return nil
	}

	fields := make([]string, 0, len(errs))
	for field, msg := range errs {
		fields = append(fields, field+": "+msg)
	}
	sort.Strings(fields)
	return fmt.Errorf("invalid config: %s", strings.Join(fields, "; "))
}

// applyFlags overrides cfg with any --server or --timeout given on the command line.
func (a *app) applyFlags(cfg *Config) error {
	if a.serverURL != "" {
		cfg.ServerURL = a.serverURL
	}
	if a.timeout != "" {
		d, err := time.ParseDuration(a.timeout)
		if err != nil {
			return fmt.Errorf("invalid --timeout %q: %w", a.timeout, err)
		}
		cfg.Timeout = d
	}
	return nil
}
