package services

import (
	"context"

	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/client/prefs"
	"github.com/dmitrijs2005/dailyquote/internal/logging"
)

// Scheduler delivers the daily quote notification.
type Scheduler interface {
	ScheduleDaily(ctx context.Context, hour, minute int) error
	Cancel(ctx context.Context) error
}

// LogScheduler only records what would be scheduled.
type LogScheduler struct {
	Logger logging.Logger
}

// ScheduleDaily logs the reminder time.
func (l LogScheduler) ScheduleDaily(ctx context.Context, hour, minute int) error {
	l.Logger.Info(ctx, "Daily notification scheduled", "hour", hour, "minute", minute)
	return nil
}

func (l LogScheduler) Cancel(ctx context.Context) error {
	l.Logger.Info(ctx, "Daily notification cancelled")
	return nil
}

// CloudPreferences is the server side of the synced settings.
type CloudPreferences interface {
	GetPreferences(ctx context.Context) (*models.CloudPreferences, error)
	UpdatePreferences(ctx context.Context, p models.CloudPreferences) error
}

// PreferencesService keeps local preferences and mirrors theme, accent and
// font scale to the signed-in user's profile.
type PreferencesService struct {
	store     *prefs.Store
	cloud     CloudPreferences
	users     UserProvider
	scheduler Scheduler
	logger    logging.Logger
}

// NewPreferencesService returns a service over the local preferences file.
func NewPreferencesService(store *prefs.Store, cloud CloudPreferences, users UserProvider, scheduler Scheduler, logger logging.Logger) *PreferencesService {
	return &PreferencesService{store: store, cloud: cloud, users: users, scheduler: scheduler, logger: logger}
}

// Get returns the local preferences.
func (s *PreferencesService) Get() models.Preferences {
	return s.store.Get()
}

// Subscribe streams local preference changes.
func (s *PreferencesService) Subscribe() (<-chan models.Preferences, func()) {
	return s.store.Subscribe()
}

// SetTheme saves theme locally and, when signed in, to the account.
func (s *PreferencesService) SetTheme(ctx context.Context, theme string) (models.Preferences, error) {
	return s.updateSynced(ctx, func(p *models.Preferences) { p.Theme = theme })
}

// SetAccentColor saves accent locally and, when signed in, to the account.
func (s *PreferencesService) SetAccentColor(ctx context.Context, accent string) (models.Preferences, error) {
	return s.updateSynced(ctx, func(p *models.Preferences) { p.AccentColor = accent })
}

// SetFontScale saves scale locally and, when signed in, to the account.
func (s *PreferencesService) SetFontScale(ctx context.Context, scale float64) (models.Preferences, error) {
	return s.updateSynced(ctx, func(p *models.Preferences) { p.FontScale = scale })
}

// SetNotificationsEnabled turns the daily reminder on or off. Reminders
// are device settings and never synced.
func (s *PreferencesService) SetNotificationsEnabled(ctx context.Context, enabled bool) (models.Preferences, error) {
	p, err := s.store.Update(func(p *models.Preferences) { p.NotificationsEnabled = enabled })
	if err != nil {
		return p, err
	}
	return p, s.reschedule(ctx, p)
}

// SetNotificationTime moves the daily reminder.
func (s *PreferencesService) SetNotificationTime(ctx context.Context, hour, minute int) (models.Preferences, error) {
	p, err := s.store.Update(func(p *models.Preferences) {
		p.NotificationHour = hour
		p.NotificationMinute = minute
	})
	if err != nil {
		return p, err
	}
	return p, s.reschedule(ctx, p)
}

// ApplySchedule brings the scheduler in line with the stored preferences.
func (s *PreferencesService) ApplySchedule(ctx context.Context) error {
	return s.reschedule(ctx, s.store.Get())
}

func (s *PreferencesService) reschedule(ctx context.Context, p models.Preferences) error {
	if !p.NotificationsEnabled {
		return s.scheduler.Cancel(ctx)
	}
	return s.scheduler.ScheduleDaily(ctx, p.NotificationHour, p.NotificationMinute)
}

func (s *PreferencesService) updateSynced(ctx context.Context, fn func(p *models.Preferences)) (models.Preferences, error) {
	p, err := s.store.Update(fn)
	if err != nil {
		return p, err
	}
	s.push(ctx, p)
	return p, nil
}

// push mirrors p to the cloud when someone is signed in. Failures are
// logged only.
func (s *PreferencesService) push(ctx context.Context, p models.Preferences) {
	if _, ok := s.users.CurrentUserID(); !ok {
		return
	}
	err := s.cloud.UpdatePreferences(ctx, models.CloudPreferences{
		Theme:       &p.Theme,
		AccentColor: &p.AccentColor,
		FontScale:   &p.FontScale,
	})
	if err != nil {
		s.logger.Warn(ctx, "Preferences not synced to cloud", "error", err)
	}
}

// SyncFromCloud applies the values set in the user's cloud profile to the
// local preferences without pushing them back. It is a no-op when signed
// out.
func (s *PreferencesService) SyncFromCloud(ctx context.Context) (models.Preferences, error) {
	if _, ok := s.users.CurrentUserID(); !ok {
		return s.store.Get(), nil
	}
	cp, err := s.cloud.GetPreferences(ctx)
	if err != nil {
		s.logger.Warn(ctx, "Cloud preferences unavailable", "error", err)
		return s.store.Get(), err
	}
	if cp == nil || (cp.Theme == nil && cp.AccentColor == nil && cp.FontScale == nil) {
		return s.store.Get(), nil
	}
	return s.store.Update(func(p *models.Preferences) {
		if cp.Theme != nil {
			p.Theme = *cp.Theme
		}
		if cp.AccentColor != nil {
			p.AccentColor = *cp.AccentColor
		}
		if cp.FontScale != nil {
			p.FontScale = *cp.FontScale
		}
	})
}
