package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var jwtPattern = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)

// redactOptions lists the attribute names that never reach a log sink
// in clear text.
func redactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("password"),
		masq.WithFieldName("confirm"),
		masq.WithFieldName("token"),
		masq.WithFieldName("access_token"),
		masq.WithFieldName("refresh_token"),
		masq.WithFieldName("recovery_token"),
		masq.WithFieldName("secret_key"),
		masq.WithFieldName("s3_root_password"),
		masq.WithFieldPrefix("secret"),
		masq.WithRegex(jwtPattern),
	}
}

// NewReplaceAttr returns a slog ReplaceAttr hook that masks secrets.
func NewReplaceAttr(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(redactOptions(), extra...)...)
}
