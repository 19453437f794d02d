package models

const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

const (
	AccentBlue   = "blue"
	AccentGreen  = "green"
	AccentPurple = "purple"
	AccentOrange = "orange"
)

// Preferences are the locally stored settings.
type Preferences struct {
	Theme                string  `toml:"theme" validate:"oneof=system light dark"`
	AccentColor          string  `toml:"accent_color" validate:"oneof=blue green purple orange"`
	FontScale            float64 `toml:"font_scale" validate:"gte=0.8,lte=1.5"`
	NotificationsEnabled bool    `toml:"notifications_enabled"`
	NotificationHour     int     `toml:"notification_hour" validate:"gte=0,lte=23"`
	NotificationMinute   int     `toml:"notification_minute" validate:"gte=0,lte=59"`
}

// DefaultPreferences is what a fresh install starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:                ThemeSystem,
		AccentColor:          AccentBlue,
		FontScale:            1.0,
		NotificationsEnabled: true,
		NotificationHour:     8,
	}
}

// CloudPreferences is the subset synced with the server; nil means unset.
type CloudPreferences struct {
	Theme       *string
	AccentColor *string
	FontScale   *float64
}
