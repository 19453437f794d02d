package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/client/repositories/favorites"
	"github.com/dmitrijs2005/dailyquote/internal/logging"
	"github.com/dmitrijs2005/dailyquote/internal/observable"
)

// DefaultLikedGrace keeps a merged quote view alive after its last reader
// leaves.
const DefaultLikedGrace = 5 * time.Second

// CloudFavorites is the server copy of the user's likes.
type CloudFavorites interface {
	List(ctx context.Context, userID string) ([]models.CloudFavorite, error)
	Add(ctx context.Context, userID, text, author string) error
	Remove(ctx context.Context, userID, text string) error
}

// FavoritesService keeps the local favorites cache and the cloud copy in
// step. Local writes always happen; cloud writes need a signed-in user.
type FavoritesService struct {
	local  *favorites.Store
	cloud  CloudFavorites
	users  UserProvider
	logger logging.Logger
}

// NewFavoritesService wires the local store to the cloud copy. users tells
// whether anyone is signed in.
func NewFavoritesService(local *favorites.Store, cloud CloudFavorites, users UserProvider, logger logging.Logger) *FavoritesService {
	return &FavoritesService{local: local, cloud: cloud, users: users, logger: logger}
}

// Favorites streams the local favorites list.
func (s *FavoritesService) Favorites() observable.Source[[]models.FavoriteQuote] {
	return s.local
}

// Current returns the last known local favorites list.
func (s *FavoritesService) Current() []models.FavoriteQuote {
	return s.local.Current()
}

// IsFavorite answers from the local cache only.
func (s *FavoritesService) IsFavorite(ctx context.Context, text string) (bool, error) {
	return s.local.IsFavorite(ctx, text)
}

// SyncFavorites copies cloud favorites missing locally into the local
// cache. It never deletes anything on either side. Without a signed-in user
// it does nothing and reports Skipped. The cloud snapshot is read before
// any local write, so a failed fetch leaves the cache untouched.
func (s *FavoritesService) SyncFavorites(ctx context.Context) (models.SyncReport, error) {
	userID, ok := s.users.CurrentUserID()
	if !ok {
		s.logger.Debug(ctx, "Favorites sync skipped, not signed in")
		return models.SyncReport{Skipped: true}, nil
	}

	remote, err := s.cloud.List(ctx, userID)
	if err != nil {
		s.logger.Warn(ctx, "Favorites sync failed", "error", err)
		return models.SyncReport{}, err
	}
	report := models.SyncReport{Fetched: len(remote)}

	local, err := s.local.Snapshot(ctx)
	if err != nil {
		return report, err
	}
	have := make(map[string]struct{}, len(local))
	for _, f := range local {
		have[f.Text] = struct{}{}
	}

	missing := make([]models.FavoriteQuote, 0)
	for _, c := range remote {
		if _, ok := have[c.Text]; ok {
			continue
		}
		have[c.Text] = struct{}{}
		missing = append(missing, models.FavoriteQuote{Text: c.Text, Author: c.Author})
	}

	added, err := s.local.InsertAll(ctx, missing)
	report.Added = added
	if err != nil {
		return report, err
	}
	s.logger.Info(ctx, "Favorites synced", "fetched", report.Fetched, "added", report.Added)
	return report, nil
}

// ToggleFavorite likes or unlikes a quote. The local cache changes first
// and decides the result; the cloud copy follows on a best-effort basis
// and its outcome is reported in the result, never as the error.
func (s *FavoritesService) ToggleFavorite(ctx context.Context, text, author string, isCurrentlyFavorite bool) (models.ToggleResult, error) {
	var res models.ToggleResult
	if isCurrentlyFavorite {
		if _, err := s.local.DeleteByText(ctx, text); err != nil {
			return models.ToggleResult{Liked: true}, err
		}
	} else {
		if _, err := s.local.Insert(ctx, text, author); err != nil {
			return res, err
		}
		res.Liked = true
	}

	userID, ok := s.users.CurrentUserID()
	if !ok {
		return res, nil
	}

	var err error
	if isCurrentlyFavorite {
		err = s.cloud.Remove(ctx, userID, text)
	} else {
		err = s.cloud.Add(ctx, userID, text, author)
	}
	if err != nil {
		s.logger.Warn(ctx, "Cloud favorite not updated", "liked", res.Liked, "error", err)
		res.CloudErr = err
		return res, nil
	}
	res.Mirrored = true
	return res, nil
}

// LikedQuotes overlays quotes with the local liked state. The result is
// recomputed whenever either input changes and is shared between readers;
// it stops grace after the last reader leaves.
func (s *FavoritesService) LikedQuotes(quotes observable.Source[[]models.Quote], grace time.Duration) *observable.Shared[[]models.Quote] {
	return observable.Share(observable.Combine(quotes, s.Favorites(), MergeLiked), grace)
}

// MergeLiked returns a copy of quotes with IsLiked set when some favorite
// has the same text.
func MergeLiked(quotes []models.Quote, favs []models.FavoriteQuote) []models.Quote {
	liked := make(map[string]struct{}, len(favs))
	for _, f := range favs {
		liked[f.Text] = struct{}{}
	}
	out := make([]models.Quote, len(quotes))
	for i, q := range quotes {
		_, q.IsLiked = liked[q.Text]
		out[i] = q
	}
	return out
}
