// Package admin implements track management and dashboard statistics.
//
// Nothing here checks who the caller is. Routes exposing this service must
// sit behind the administrator check in the server package.
package admin

import (
	"context"
	"time"

	"artiststudio/core/apperr"
	"artiststudio/core/sanitize"
	"artiststudio/core/schema"
	"artiststudio/model"
	"artiststudio/repository"
)

// DefaultDuration is stored when a created track omits its duration.
const DefaultDuration = "3:00"

const (
	MsgTitleArtistRequired = "title and artist are required"
	MsgTrackNotFound       = "track not found"
)

// TrackFields is the payload of a create or update. A nil Duration means the
// field was omitted.
type TrackFields struct {
	Title       string
	Artist      string
	Duration    *string
	Genre       string
	Description string
}

// Service implements the admin operations.
type Service struct {
	tracks      repository.TrackRepository
	categories  repository.CategoryRepository
	users       repository.UserRepository
	playCounter schema.PlayCounter
	now         func() time.Time
}

// NewService creates an admin Service.
func NewService(tracks repository.TrackRepository, categories repository.CategoryRepository,
	users repository.UserRepository, playCounter schema.PlayCounter) *Service {
	return &Service{
		tracks:      tracks,
		categories:  categories,
		users:       users,
		playCounter: playCounter,
		now:         time.Now,
	}
}

// ListAll returns every track with its category name, newest first,
// published or not.
func (s *Service) ListAll(ctx context.Context) ([]*model.Track, error) {
	withPlays, err := s.playCounter.Enabled(ctx)
	if err != nil {
		return nil, apperr.Storage("list tracks", err)
	}
	tracks, err := s.tracks.ListTracks(ctx, model.TrackQuery{WithPlayCount: withPlays})
	if err != nil {
		return nil, apperr.Storage("list tracks", err)
	}
	return tracks, nil
}

// Create inserts a published track and returns its id. An unknown genre
// leaves the track without a category.
func (s *Service) Create(ctx context.Context, f TrackFields) (int64, error) {
	duration := DefaultDuration
	if f.Duration != nil {
		duration = *f.Duration
	}
	track, err := s.resolve(ctx, "create", f, duration)
	if err != nil {
		return 0, err
	}
	track.IsPublished = true
	track.CreatedAt = s.now()

	id, err := s.tracks.CreateTrack(ctx, track)
	if err != nil {
		return 0, apperr.Storage("create", err)
	}
	return id, nil
}

// Update overwrites track id. The statement is issued even when id does not
// exist; that case affects no rows and still succeeds.
func (s *Service) Update(ctx context.Context, id int64, f TrackFields) error {
	duration := ""
	if f.Duration != nil {
		duration = *f.Duration
	}
	track, err := s.resolve(ctx, "update", f, duration)
	if err != nil {
		return err
	}
	track.ID = id

	if err := s.tracks.UpdateTrack(ctx, track); err != nil {
		return apperr.Storage("update", err)
	}
	return nil
}

// Delete removes track id, or fails with a not-found error.
func (s *Service) Delete(ctx context.Context, id int64) error {
	exists, err := s.tracks.TrackExists(ctx, id)
	if err != nil {
		return apperr.Storage("delete", err)
	}
	if !exists {
		return apperr.NotFound(MsgTrackNotFound)
	}
	if err := s.tracks.DeleteTrack(ctx, id); err != nil {
		return apperr.Storage("delete", err)
	}
	return nil
}

// Stats aggregates the dashboard counters. Registrations are counted from
// local midnight.
func (s *Service) Stats(ctx context.Context) (*model.Stats, error) {
	var st model.Stats
	var err error

	if st.TotalTracks, err = s.tracks.CountTracks(ctx); err != nil {
		return nil, apperr.Storage("stats", err)
	}
	if st.TotalUsers, err = s.users.CountUsers(ctx); err != nil {
		return nil, apperr.Storage("stats", err)
	}

	withPlays, err := s.playCounter.Enabled(ctx)
	if err != nil {
		return nil, apperr.Storage("stats", err)
	}
	if withPlays {
		if st.TotalPlays, err = s.tracks.SumPlayCounts(ctx); err != nil {
			return nil, apperr.Storage("stats", err)
		}
	}

	if st.TodayRegistrations, err = s.users.CountUsersCreatedToday(ctx); err != nil {
		return nil, apperr.Storage("stats", err)
	}
	return &st, nil
}

// ListUsers returns every account without its password hash.
func (s *Service) ListUsers(ctx context.Context) ([]model.AdminUserView, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Storage("list users", err)
	}
	views := make([]model.AdminUserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.AdminView())
	}
	return views, nil
}

// resolve validates f and maps its genre name to a category id.
func (s *Service) resolve(ctx context.Context, op string, f TrackFields, duration string) (*model.Track, error) {
	track := &model.Track{
		Title:       sanitize.Clean(f.Title),
		Artist:      sanitize.Clean(f.Artist),
		Duration:    sanitize.Clean(duration),
		Description: sanitize.Clean(f.Description),
	}
	if track.Title == "" || track.Artist == "" {
		return nil, apperr.Validation(MsgTitleArtistRequired)
	}

	if genre := sanitize.Clean(f.Genre); genre != "" {
		category, err := s.categories.GetCategoryByName(ctx, genre)
		if err != nil {
			return nil, apperr.Storage(op, err)
		}
		if category != nil {
			id := category.ID
			track.CategoryID = &id
			track.CategoryName = &category.Name
		}
	}
	return track, nil
}
