package config

import (
	"github.com/dmitrijs2005/dailyquote/internal/flagx"
	"github.com/dmitrijs2005/dailyquote/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Keys left
// out of the file keep their previous value; log_file may be set to ""
// explicitly to log to stderr.
type JsonConfig struct {
	ServerEndpointAddr string          `json:"server_endpoint_addr"`
	DatabasePath       string          `json:"database_path"`
	PrefsPath          string          `json:"prefs_path"`
	SearchDebounce     *timex.Duration `json:"search_debounce"`
	LikedGrace         *timex.Duration `json:"liked_grace"`
	LogLevel           string          `json:"log_level"`
	LogFormat          string          `json:"log_format"`
	LogFile            *string         `json:"log_file"`
}

// parseJson overlays cfg with the file named by -c / -config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	var jc JsonConfig
	if err := flagx.LoadJSON(path, &jc); err != nil {
		return err
	}

	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.PrefsPath, jc.PrefsPath)
	if jc.SearchDebounce != nil {
		cfg.SearchDebounce = jc.SearchDebounce.Duration
	}
	if jc.LikedGrace != nil {
		cfg.LikedGrace = jc.LikedGrace.Duration
	}
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	if jc.LogFile != nil {
		cfg.LogFile = *jc.LogFile
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
