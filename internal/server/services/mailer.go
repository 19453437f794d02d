package services

import (
	"context"

	"github.com/dmitrijs2005/dailyquote/internal/logging"
)

// Mailer delivers password recovery links.
type Mailer interface {
	SendRecoveryLink(ctx context.Context, email, link string) error
}

// LogMailer writes recovery links to the log instead of sending mail.
type LogMailer struct {
	logger logging.Logger
}

// NewLogMailer logs through l.
func NewLogMailer(l logging.Logger) *LogMailer {
	return &LogMailer{logger: l.With("module", "mailer")}
}

// SendRecoveryLink logs link at info level.
func (m *LogMailer) SendRecoveryLink(ctx context.Context, email, link string) error {
	m.logger.Info(ctx, "Password recovery link", "email", email, "link", link)
	return nil
}
