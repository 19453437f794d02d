package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/dailyquote/internal/client/client"
	"github.com/dmitrijs2005/dailyquote/internal/client/services"
	"github.com/dmitrijs2005/dailyquote/internal/common"
)

// describe turns a service error into the line shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated), errors.Is(err, client.ErrNotSignedIn):
		return "Please sign in first (login or signup)."
	case errors.Is(err, common.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, client.ErrUnauthorized):
		return "Your session has expired, please sign in again."
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable, try again later."
	case errors.Is(err, client.ErrAlreadyExists):
		return "An account with this email already exists."
	case errors.Is(err, client.ErrNotFound):
		return "Not found. It may have been deleted."
	case errors.Is(err, client.ErrTooLarge):
		return "The file is too large."
	default:
		return err.Error()
	}
}

// fail reports err to the user and the log, and returns it.
func (a *App) fail(ctx context.Context, what string, err error) error {
	a.logger.Debug(ctx, what+" failed", "error", err)
	a.say("%s", a.style().errMsg.Render(describe(err)))
	return err
}

func (a *App) usage(text string) error {
	a.say("Usage: %s", text)
	return errUsage
}

var errUsage = errors.New("usage")
