package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/dailyquote/internal/validatex"
)

// Config holds runtime settings for the dailyquote CLI.
type Config struct {
	ServerEndpointAddr string        `validate:"required,hostname_port"`
	DatabasePath       string        `validate:"required"`
	PrefsPath          string        `validate:"required"`
	SearchDebounce     time.Duration `validate:"gte=0"`
	LikedGrace         time.Duration `validate:"gte=0"`
	LogLevel           string        `validate:"oneof=debug info warn error"`
	LogFormat          string        `validate:"oneof=json text pretty"`
	LogFile            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DatabasePath = "~/.dailyquote/cache.db"
	c.PrefsPath = "~/.dailyquote/prefs.toml"
	c.SearchDebounce = 500 * time.Millisecond
	c.LikedGrace = 5 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	// The REPL owns the terminal, so logs go to a file unless told otherwise.
	c.LogFile = "~/.dailyquote/client.log"
}

// Validate checks the struct tags of c.
func (c *Config) Validate() error {
	if err := validatex.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
