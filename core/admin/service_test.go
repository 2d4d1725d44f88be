package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artiststudio/core/apperr"
	"artiststudio/core/catalog"
	"artiststudio/core/schema"
	"artiststudio/internal/testsupport/memstore"
	"artiststudio/model"
)

func newAdmin(store *memstore.Store) *Service {
	return NewService(store.Tracks(), store.Categories(), store.Users(), schema.Static(store.HasPlayCount))
}

func strPtr(s string) *string { return &s }

func TestCreateResolvesGenre(t *testing.T) {
	store := memstore.New()
	rock := store.AddCategory("Rock")
	svc := newAdmin(store)

	id, err := svc.Create(context.Background(), TrackFields{
		Title: "Riff", Artist: "Band", Genre: "Rock", Description: "loud",
	})
	require.NoError(t, err)

	track, ok := store.Track(id)
	require.True(t, ok)
	require.NotNil(t, track.CategoryID)
	assert.Equal(t, rock.ID, *track.CategoryID)
	assert.Equal(t, DefaultDuration, track.Duration)
	assert.True(t, track.IsPublished)
}

func TestCreateUnknownGenreShowsFallback(t *testing.T) {
	store := memstore.New()
	svc := newAdmin(store)

	id, err := svc.Create(context.Background(), TrackFields{
		Title: "Odd", Artist: "Nobody", Genre: "Polka", Duration: strPtr("2:15"),
	})
	require.NoError(t, err)

	track, _ := store.Track(id)
	assert.Nil(t, track.CategoryID)
	assert.Equal(t, "2:15", track.Duration)

	views, err := catalog.NewService(store.Tracks(), store.Categories(), schema.Static(true), nil).
		ListTracks(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, catalog.FallbackGenre, views[0].Genre)
}

func TestCreateRequiresTitleAndArtist(t *testing.T) {
	store := memstore.New()
	svc := newAdmin(store)

	_, err := svc.Create(context.Background(), TrackFields{Title: "  ", Artist: "x"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, MsgTitleArtistRequired, apperr.PublicMessage(err, true))
	assert.Zero(t, store.Calls["CreateTrack"])
}

func TestCreateSanitizesFields(t *testing.T) {
	store := memstore.New()
	svc := newAdmin(store)

	id, err := svc.Create(context.Background(), TrackFields{
		Title: "<script>alert(1)", Artist: "javascript:Evil", Description: " fine ",
	})
	require.NoError(t, err)

	track, _ := store.Track(id)
	assert.Equal(t, ">alert(1)", track.Title)
	assert.Equal(t, "Evil", track.Artist)
	assert.Equal(t, "fine", track.Description)
}

func TestUpdateOverwritesFields(t *testing.T) {
	store := memstore.New()
	jazz := store.AddCategory("Jazz")
	id := store.AddTrack(model.Track{Title: "Old", Artist: "A", Duration: "1:00", CategoryID: &jazz.ID, IsPublished: true})
	svc := newAdmin(store)

	require.NoError(t, svc.Update(context.Background(), id, TrackFields{Title: "New", Artist: "B"}))

	track, _ := store.Track(id)
	assert.Equal(t, "New", track.Title)
	assert.Equal(t, "B", track.Artist)
	assert.Empty(t, track.Duration)
	assert.Nil(t, track.CategoryID)
	assert.NotNil(t, track.UpdatedAt)
	assert.True(t, track.IsPublished)
}

func TestUpdateMissingIDSucceeds(t *testing.T) {
	store := memstore.New()
	svc := newAdmin(store)

	assert.NoError(t, svc.Update(context.Background(), 42, TrackFields{Title: "T", Artist: "A"}))
	assert.Equal(t, 1, store.Calls["UpdateTrack"])
}

func TestDelete(t *testing.T) {
	store := memstore.New()
	id := store.AddTrack(model.Track{Title: "T", Artist: "A"})
	svc := newAdmin(store)

	require.NoError(t, svc.Delete(context.Background(), id))
	_, ok := store.Track(id)
	assert.False(t, ok)

	err := svc.Delete(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, MsgTrackNotFound, apperr.PublicMessage(err, true))
}

func TestListAllIncludesUnpublished(t *testing.T) {
	store := memstore.New()
	store.AddTrack(model.Track{Title: "Draft", Artist: "A", IsPublished: false})
	store.AddTrack(model.Track{Title: "Live", Artist: "A", IsPublished: true})
	svc := newAdmin(store)

	tracks, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, tracks, 2)
	assert.False(t, store.LastQuery.PublishedOnly)
}

func TestStats(t *testing.T) {
	store := memstore.New()
	now := time.Date(2024, 6, 1, 15, 0, 0, 0, time.Local)
	id := store.AddTrack(model.Track{Title: "T", Artist: "A", IsPublished: true, PlayCount: 4})
	store.AddTrack(model.Track{Title: "U", Artist: "A"})
	store.AddUser(model.User{Email: "old@example.com", CreatedAt: now.AddDate(0, 0, -1)})
	store.AddUser(model.User{Email: "new@example.com", CreatedAt: now.Add(-time.Hour)})
	store.AddUser(model.User{Email: "midnight@example.com", CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)})

	store.Now = func() time.Time { return now }
	svc := newAdmin(store)

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Stats{TotalTracks: 2, TotalUsers: 3, TotalPlays: 4, TodayRegistrations: 2}, *st)

	cat := catalog.NewService(store.Tracks(), store.Categories(), schema.Static(true), nil)
	require.NoError(t, cat.RecordPlay(context.Background(), id))

	st, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), st.TotalPlays)
}

func TestStatsWithoutPlayCounter(t *testing.T) {
	store := memstore.New()
	store.HasPlayCount = false
	store.AddTrack(model.Track{Title: "T", Artist: "A"})
	svc := newAdmin(store)

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, st.TotalPlays)
	assert.Zero(t, store.Calls["SumPlayCounts"])
}

func TestListUsersHidesHash(t *testing.T) {
	store := memstore.New()
	store.AddUser(model.User{Email: "a@example.com", PasswordHash: "$2a$secret", IsActive: true, Roles: model.DefaultRoles})
	svc := newAdmin(store)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a@example.com", users[0].Email)
	assert.True(t, users[0].IsActive)
}

func TestStorageFailuresCarryOperation(t *testing.T) {
	store := memstore.New()
	store.Fail = errors.New("deadlock")
	svc := newAdmin(store)

	_, err := svc.Create(context.Background(), TrackFields{Title: "T", Artist: "A"})
	require.Error(t, err)
	assert.Equal(t, "create failed: deadlock", apperr.PublicMessage(err, true))
	assert.Equal(t, "server error", apperr.PublicMessage(err, false))
}
