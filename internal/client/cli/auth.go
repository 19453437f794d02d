package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/dailyquote/internal/client/services"
	"github.com/dmitrijs2005/dailyquote/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// readNewPassword asks for a password twice. Both buffers are wiped.
func (a *App) readNewPassword() (string, string, error) {
	pw, err := getPassword("New password", a.out)
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(pw)

	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(confirm)

	return string(pw), string(confirm), nil
}

// afterSignIn pulls the synced settings and the cloud favorites of the
// account that just signed in. Both are best effort.
func (a *App) afterSignIn(ctx context.Context) {
	_, _ = a.preferences.SyncFromCloud(ctx)
	if _, err := a.favorites.SyncFavorites(ctx); err != nil {
		a.logger.Warn(ctx, "Favorites sync after sign-in failed", "error", err)
	}
}

// SignUp creates an account and signs into it.
func (a *App) SignUp(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.lines, "Enter email", a.out)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.lines, "Full name (optional)", a.out)
	if err != nil {
		return err
	}
	pw, confirm, err := a.readNewPassword()
	if err != nil {
		return err
	}

	u, err := a.auth.SignUp(ctx, email, pw, confirm, fullName)
	if err != nil {
		return a.fail(ctx, "Sign-up", err)
	}
	a.afterSignIn(ctx)
	a.say("%s", a.style().okMsg.Render("Welcome, "+u.Email+"!"))
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.lines, "Enter email", a.out)
	if err != nil {
		return err
	}
	pw, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	u, err := a.auth.SignIn(ctx, email, string(pw))
	if err != nil {
		return a.fail(ctx, "Sign-in", err)
	}
	a.afterSignIn(ctx)
	a.say("%s", a.style().okMsg.Render("Signed in as "+u.Email))
	return nil
}

// Logout always succeeds locally; a server that cannot be reached is only
// logged.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.profile.SignOut(ctx)
	a.mu.Lock()
	a.shownCols = nil
	a.mu.Unlock()
	a.say("Signed out.")
	return nil
}

// ForgotPassword sends a recovery link to the given email.
func (a *App) ForgotPassword(ctx context.Context, args []string) error {
	email := strings.Join(args, " ")
	if email == "" {
		var err error
		if email, err = getSimpleText(a.lines, "Enter email", a.out); err != nil {
			return err
		}
	}
	if err := a.auth.RequestPasswordReset(ctx, email); err != nil {
		return a.fail(ctx, "Password reset", err)
	}
	a.say("If an account exists for %s, a reset link is on its way.", strings.TrimSpace(email))
	a.say("Paste it here with: link <url>")
	return nil
}

// OpenLink handles a link from an email. A recovery link signs the user in
// and asks for a new password straight away.
func (a *App) OpenLink(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("link <url>")
	}
	kind, err := a.auth.HandleDeepLink(ctx, args[0])
	if err != nil {
		return a.fail(ctx, "Link", err)
	}
	if kind != services.LinkRecovery {
		a.say("This link is not recognised.")
		return nil
	}

	a.say("Recovery link accepted. Choose a new password.")
	return a.ChangePassword(ctx, nil)
}

// ChangePassword prompts for a new password twice and saves it to the account.
func (a *App) ChangePassword(ctx context.Context, _ []string) error {
	pw, confirm, err := a.readNewPassword()
	if err != nil {
		return err
	}
	if err := a.auth.UpdatePassword(ctx, pw, confirm); err != nil {
		return a.fail(ctx, "Password change", err)
	}
	a.say("%s", a.style().okMsg.Render("Password updated."))
	return nil
}
