// Package catalog serves the public track catalog.
package catalog

import (
	"context"

	"artiststudio/core/apperr"
	"artiststudio/core/schema"
	"artiststudio/logger"
	"artiststudio/model"
	"artiststudio/repository"
)

// SearchLimit caps the number of rows a search returns.
const SearchLimit = 50

// Pinger reports the health of an optional backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service implements the read side of the catalog plus play recording.
type Service struct {
	tracks      repository.TrackRepository
	categories  repository.CategoryRepository
	playCounter schema.PlayCounter
	cache       Pinger
}

// NewService creates a catalog Service. cache may be nil.
func NewService(tracks repository.TrackRepository, categories repository.CategoryRepository,
	playCounter schema.PlayCounter, cache Pinger) *Service {
	return &Service{
		tracks:      tracks,
		categories:  categories,
		playCounter: playCounter,
		cache:       cache,
	}
}

// ListTracks returns published tracks, newest first. A non-empty search term
// restricts the result to at most SearchLimit tracks whose title, artist,
// description or genre contains the term, ignoring case.
func (s *Service) ListTracks(ctx context.Context, search string) ([]model.TrackView, error) {
	withPlays, err := s.playCounter.Enabled(ctx)
	if err != nil {
		return nil, apperr.Storage("list tracks", err)
	}

	// The term is only used as an escaped LIKE needle, never stored or echoed.
	q := model.TrackQuery{
		Search:        search,
		PublishedOnly: true,
		WithPlayCount: withPlays,
	}
	if search != "" {
		q.Limit = SearchLimit
	}

	tracks, err := s.tracks.ListTracks(ctx, q)
	if err != nil {
		return nil, apperr.Storage("list tracks", err)
	}

	views := make([]model.TrackView, 0, len(tracks))
	for _, t := range tracks {
		if !t.IsPublished {
			continue
		}
		views = append(views, NewTrackView(t))
	}
	return views, nil
}

// ListCategories returns all categories ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]*model.Category, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, apperr.Storage("list categories", err)
	}
	return categories, nil
}

// RecordPlay counts one play of track id. Without a play counter column it
// only checks that the track exists. Unknown ids are not an error.
func (s *Service) RecordPlay(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperr.Validation("invalid track id")
	}

	withPlays, err := s.playCounter.Enabled(ctx)
	if err != nil {
		return apperr.Storage("record play", err)
	}
	if withPlays {
		err = s.tracks.IncrementPlayCount(ctx, id)
	} else {
		_, err = s.tracks.TrackExists(ctx, id)
	}
	if err != nil {
		return apperr.Storage("record play", err)
	}
	return nil
}

// Health reports the catalog size and, when configured, the cache state.
func (s *Service) Health(ctx context.Context) (*model.Health, error) {
	total, err := s.tracks.CountTracks(ctx)
	if err != nil {
		return nil, apperr.Storage("health", err)
	}

	h := &model.Health{
		Status:      "ok",
		TotalTracks: total,
		Message:     "Artist Studio API operational",
	}
	if s.cache != nil {
		h.Cache = "ok"
		if err := s.cache.Ping(ctx); err != nil {
			logger.Warn("Cache ping failed", logger.ErrorField(err))
			h.Cache = "unavailable"
		}
	}
	return h, nil
}
