package viewstate

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/client/services"
	"github.com/dmitrijs2005/dailyquote/internal/logging"
	"github.com/dmitrijs2005/dailyquote/internal/observable"
)

// ProfileStatus is the outcome of the last profile action.
type ProfileStatus int

const (
	ProfileIdle ProfileStatus = iota
	ProfileLoading
	ProfileSuccess
	ProfileError
	ProfileLogoutSuccess
)

func (s ProfileStatus) String() string {
	switch s {
	case ProfileIdle:
		return "idle"
	case ProfileLoading:
		return "loading"
	case ProfileSuccess:
		return "success"
	case ProfileError:
		return "error"
	case ProfileLogoutSuccess:
		return "logout_success"
	default:
		return "unknown"
	}
}

// MsgAvatarUpdated is shown after a successful upload.
const MsgAvatarUpdated = "Profile picture updated!"

// ProfileState is what the profile screen shows.
type ProfileState struct {
	User        *models.User
	Status      ProfileStatus
	Message     string
	SavedQuotes int
	Collections int
}

// Profile is the account screen.
type Profile struct {
	auth        *services.AuthService
	favorites   *services.FavoritesService
	collections *services.CollectionsService
	logger      logging.Logger
	state       *observable.Subject[ProfileState]

	mu   sync.Mutex
	stop func()
}

// NewProfile starts from the cached user. Counters load on Open.
func NewProfile(auth *services.AuthService, favorites *services.FavoritesService, collections *services.CollectionsService, logger logging.Logger) *Profile {
	return &Profile{
		auth:        auth,
		favorites:   favorites,
		collections: collections,
		logger:      logger,
		state:       observable.NewSubjectWith(ProfileState{User: auth.CurrentUser()}),
	}
}

// State returns the current state.
func (p *Profile) State() ProfileState {
	v, _ := p.state.Value()
	return v
}

// Subscribe streams state changes.
func (p *Profile) Subscribe() (<-chan ProfileState, func()) {
	return p.state.Subscribe()
}

func (p *Profile) update(fn func(s *ProfileState)) {
	p.state.Update(func(s ProfileState) ProfileState {
		fn(&s)
		return s
	})
}

// Open starts counting saved quotes live and loads the collection count.
// A failed count is logged and leaves the previous value.
func (p *Profile) Open(ctx context.Context) {
	p.mu.Lock()
	if p.stop == nil {
		p.stop = follow(p.favorites.Favorites(), func([]models.FavoriteQuote) {
			p.update(func(s *ProfileState) { s.SavedQuotes = len(p.favorites.Current()) })
		})
	}
	p.mu.Unlock()

	n, err := p.collections.Count(ctx)
	if err != nil {
		p.logger.Warn(ctx, "Failed to count collections", "error", err)
	}
	p.update(func(s *ProfileState) {
		s.User = p.auth.CurrentUser()
		s.SavedQuotes = len(p.favorites.Current())
		if err == nil {
			s.Collections = n
		}
	})
}

// Close stops the live saved-quotes counter.
func (p *Profile) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		p.stop()
		p.stop = nil
	}
}

// UploadAvatar replaces the profile picture. Status and Message report
// the outcome.
func (p *Profile) UploadAvatar(ctx context.Context, data []byte) error {
	p.update(func(s *ProfileState) {
		s.Status = ProfileLoading
		s.Message = ""
	})
	_, err := p.auth.UploadAvatar(ctx, data)
	if err != nil {
		p.update(func(s *ProfileState) {
			s.Status = ProfileError
			s.Message = err.Error()
		})
		return err
	}
	p.update(func(s *ProfileState) {
		s.Status = ProfileSuccess
		s.Message = MsgAvatarUpdated
		s.User = p.auth.CurrentUser()
	})
	return nil
}

// SignOut always ends in LogoutSuccess since the local session is gone
// either way; a remote failure is only logged.
func (p *Profile) SignOut(ctx context.Context) {
	if err := p.auth.SignOut(ctx); err != nil {
		p.logger.Warn(ctx, "Sign-out not confirmed by server", "error", err)
	}
	p.update(func(s *ProfileState) {
		s.User = nil
		s.Status = ProfileLogoutSuccess
		s.Message = ""
		s.Collections = 0
	})
}

// ResetStatus returns to Idle once a message has been shown.
func (p *Profile) ResetStatus() {
	p.update(func(s *ProfileState) {
		s.Status = ProfileIdle
		s.Message = ""
	})
}
