package config

import (
	"github.com/dmitrijs2005/dailyquote/internal/flagx"
	"github.com/dmitrijs2005/dailyquote/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// accept "15m" style strings or integer nanoseconds. Keys left out of the
// file keep their previous value.
type JsonConfig struct {
	EndpointAddrGRPC              string         `json:"endpoint_addr_grpc"`
	MetricsAddr                   *string        `json:"metrics_addr"`
	DatabaseDSN                   string         `json:"database_dsn"`
	SecretKey                     string         `json:"secret_key"`
	AccessTokenValidityDuration   timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration  timex.Duration `json:"refresh_token_validity_duration"`
	RecoveryTokenValidityDuration timex.Duration `json:"recovery_token_validity_duration"`
	RecoveryRedirectURL           string         `json:"recovery_redirect_url"`
	S3RootUser                    string         `json:"s3_root_user"`
	S3RootPassword                string         `json:"s3_root_password"`
	S3Bucket                      string         `json:"s3_bucket"`
	S3Region                      string         `json:"s3_region"`
	S3BaseEndpoint                string         `json:"s3_base_endpoint"`
	S3PublicBaseURL               string         `json:"s3_public_base_url"`
	MaxAvatarBytes                int64          `json:"max_avatar_bytes"`
	LogLevel                      string         `json:"log_level"`
	LogFormat                     string         `json:"log_format"`
	LogFile                       string         `json:"log_file"`
}

// parseJson overlays the JSON file named by -c / -config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	c := &JsonConfig{}
	if err := flagx.LoadJSON(path, c); err != nil {
		return err
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	if c.MetricsAddr != nil {
		config.MetricsAddr = *c.MetricsAddr
	}
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration > 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.RecoveryTokenValidityDuration.Duration > 0 {
		config.RecoveryTokenValidityDuration = c.RecoveryTokenValidityDuration.Duration
	}
	setString(&config.RecoveryRedirectURL, c.RecoveryRedirectURL)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)
	if c.MaxAvatarBytes > 0 {
		config.MaxAvatarBytes = c.MaxAvatarBytes
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogFile, c.LogFile)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
