package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/dailyquote/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. Only the
// flags listed in the package doc are looked at.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args,
		"a", "d", "p", "debounce", "grace", "log-level", "log-format", "log-file")

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local cache database path")
	fs.StringVar(&cfg.PrefsPath, "p", cfg.PrefsPath, "preferences file path")
	fs.DurationVar(&cfg.SearchDebounce, "debounce", cfg.SearchDebounce, "search debounce delay")
	fs.DurationVar(&cfg.LikedGrace, "grace", cfg.LikedGrace, "grace period of shared quote views")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file")

	return fs.Parse(args)
}
