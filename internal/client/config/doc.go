// Package config loads runtime configuration for the dailyquote CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// The result is validated before use.
//
// Supported flags
//
//	-a string          address:port of the backend gRPC endpoint
//	-d string          path of the local SQLite cache
//	-p string          path of the preferences TOML file
//	-debounce duration search input debounce (e.g. 500ms)
//	-grace duration    how long a merged quote view outlives its last reader
//	-log-level string  debug, info, warn or error
//	-log-format string json, text or pretty
//	-log-file string   log file; "" logs to stderr
//
// # JSON schema
//
// Durations are strings like "500ms" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "database_path": "~/.dailyquote/cache.db",
//	  "prefs_path": "~/.dailyquote/prefs.toml",
//	  "search_debounce": "500ms",
//	  "liked_grace": "5s",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "log_file": "~/.dailyquote/client.log"
//	}
package config
