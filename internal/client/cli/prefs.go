package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/dailyquote/internal/client/models"
)

const prefsUsage = `set theme system|light|dark
       set accent blue|green|purple|orange
       set font <0.8-1.5>
       set notify on|off
       set time HH:MM`

// Prefs prints the current preferences.
func (a *App) Prefs(_ context.Context, _ []string) error {
	a.say("%s", renderPrefs(a.style(), a.preferences.Get()))
	return nil
}

// SetPref changes one preference. Theme, accent and font follow the
// account when signed in.
func (a *App) SetPref(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.usage(prefsUsage)
	}
	key, value := strings.ToLower(args[0]), strings.ToLower(args[1])

	var (
		p   models.Preferences
		err error
	)
	switch key {
	case "theme":
		p, err = a.preferences.SetTheme(ctx, value)
	case "accent":
		p, err = a.preferences.SetAccentColor(ctx, value)
	case "font":
		scale, perr := strconv.ParseFloat(value, 64)
		if perr != nil {
			return a.usage(prefsUsage)
		}
		p, err = a.preferences.SetFontScale(ctx, scale)
	case "notify":
		switch value {
		case "on":
			p, err = a.preferences.SetNotificationsEnabled(ctx, true)
		case "off":
			p, err = a.preferences.SetNotificationsEnabled(ctx, false)
		default:
			return a.usage(prefsUsage)
		}
	case "time":
		t, perr := time.Parse("15:04", value)
		if perr != nil {
			return a.usage(prefsUsage)
		}
		p, err = a.preferences.SetNotificationTime(ctx, t.Hour(), t.Minute())
	default:
		return a.usage(prefsUsage)
	}
	if err != nil {
		return a.fail(ctx, "Preferences", err)
	}

	a.mu.Lock()
	a.styles = newStyles(p)
	a.mu.Unlock()
	a.say("%s", renderPrefs(a.style(), p))
	return nil
}

func formatTime(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
