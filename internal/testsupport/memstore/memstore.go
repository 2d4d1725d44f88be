// Package memstore is an in-memory stand-in for the MySQL repositories, used
// by service and handler tests.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"artiststudio/model"
	"artiststudio/repository"
)

// ErrUnknownColumn mimics the server error for a statement that touches
// song.play_count when the column does not exist.
var ErrUnknownColumn = errors.New("Error 1054 (42S22): Unknown column 's.play_count' in 'field list'")

// Store holds songs, categories and users. The zero value is not usable; call New.
type Store struct {
	mu sync.Mutex

	tracks     map[int64]*model.Track
	categories map[int64]*model.Category
	users      map[int64]*model.User
	nextTrack  int64
	nextCat    int64
	nextUser   int64

	// HasPlayCount reports whether the emulated song table carries play_count.
	HasPlayCount bool
	// Fail, when set, is returned by every repository call.
	Fail error
	// Calls counts repository calls by method name.
	Calls map[string]int
	// LastQuery is the most recent TrackQuery passed to ListTracks.
	LastQuery model.TrackQuery
	// Now stands in for the database clock.
	Now func() time.Time
}

// New returns an empty store with the play counter column present.
func New() *Store {
	return &Store{
		tracks:       make(map[int64]*model.Track),
		categories:   make(map[int64]*model.Category),
		users:        make(map[int64]*model.User),
		HasPlayCount: true,
		Calls:        make(map[string]int),
		Now:          time.Now,
	}
}

func (s *Store) enter(method string) error {
	s.Calls[method]++
	return s.Fail
}

// AddCategory inserts a category and returns it.
func (s *Store) AddCategory(name string) *model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCat++
	c := &model.Category{ID: s.nextCat, Name: name}
	s.categories[c.ID] = c
	return c
}

// AddTrack inserts t as-is, assigning an id when t.ID is zero.
func (s *Store) AddTrack(t model.Track) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		s.nextTrack++
		t.ID = s.nextTrack
	} else if t.ID > s.nextTrack {
		s.nextTrack = t.ID
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	s.tracks[t.ID] = &t
	return t.ID
}

// AddUser inserts u as-is, assigning an id when u.ID is zero.
func (s *Store) AddUser(u model.User) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		s.nextUser++
		u.ID = s.nextUser
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.users[u.ID] = &u
	return u.ID
}

// Track returns a copy of track id.
func (s *Store) Track(id int64) (model.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tracks[id]
	if !ok {
		return model.Track{}, false
	}
	return *t, true
}

// UserByEmail returns a copy of the account registered with email.
func (s *Store) UserByEmail(email string) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return *u, true
		}
	}
	return model.User{}, false
}

// Tracks returns the TrackRepository view of the store.
func (s *Store) Tracks() repository.TrackRepository { return trackRepo{s} }

// Categories returns the CategoryRepository view of the store.
func (s *Store) Categories() repository.CategoryRepository { return categoryRepo{s} }

// Users returns the UserRepository view of the store.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// HasPlayCounter implements schema.Prober.
func (s *Store) HasPlayCounter(context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("HasPlayCounter"); err != nil {
		return false, err
	}
	return s.HasPlayCount, nil
}

type trackRepo struct{ s *Store }

func (r trackRepo) categoryName(id *int64) *string {
	if id == nil {
		return nil
	}
	c, ok := r.s.categories[*id]
	if !ok {
		return nil
	}
	name := c.Name
	return &name
}

func (r trackRepo) matches(t *model.Track, term string) bool {
	term = strings.ToLower(term)
	fields := []string{t.Title, t.Artist, t.Description}
	if name := r.categoryName(t.CategoryID); name != nil {
		fields = append(fields, *name)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func (r trackRepo) ListTracks(_ context.Context, q model.TrackQuery) ([]*model.Track, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastQuery = q
	if err := s.enter("ListTracks"); err != nil {
		return nil, err
	}
	if q.WithPlayCount && !s.HasPlayCount {
		return nil, ErrUnknownColumn
	}

	out := make([]*model.Track, 0, len(s.tracks))
	for _, t := range s.tracks {
		if q.PublishedOnly && !t.IsPublished {
			continue
		}
		if q.Search != "" && !r.matches(t, q.Search) {
			continue
		}
		cp := *t
		cp.CategoryName = r.categoryName(t.CategoryID)
		if !q.WithPlayCount {
			cp.PlayCount = 0
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r trackRepo) CreateTrack(_ context.Context, track *model.Track) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateTrack"); err != nil {
		return 0, err
	}
	s.nextTrack++
	cp := *track
	cp.ID = s.nextTrack
	cp.CategoryName = nil
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	s.tracks[cp.ID] = &cp
	return cp.ID, nil
}

func (r trackRepo) UpdateTrack(_ context.Context, track *model.Track) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateTrack"); err != nil {
		return err
	}
	t, ok := s.tracks[track.ID]
	if !ok {
		return nil
	}
	now := time.Now()
	t.Title = track.Title
	t.Artist = track.Artist
	t.Duration = track.Duration
	t.Description = track.Description
	t.CategoryID = track.CategoryID
	t.UpdatedAt = &now
	return nil
}

func (r trackRepo) TrackExists(_ context.Context, id int64) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("TrackExists"); err != nil {
		return false, err
	}
	_, ok := s.tracks[id]
	return ok, nil
}

func (r trackRepo) DeleteTrack(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteTrack"); err != nil {
		return err
	}
	delete(s.tracks, id)
	return nil
}

func (r trackRepo) IncrementPlayCount(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("IncrementPlayCount"); err != nil {
		return err
	}
	if !s.HasPlayCount {
		return ErrUnknownColumn
	}
	if t, ok := s.tracks[id]; ok {
		t.PlayCount++
	}
	return nil
}

func (r trackRepo) CountTracks(context.Context) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CountTracks"); err != nil {
		return 0, err
	}
	return int64(len(s.tracks)), nil
}

func (r trackRepo) SumPlayCounts(context.Context) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SumPlayCounts"); err != nil {
		return 0, err
	}
	if !s.HasPlayCount {
		return 0, ErrUnknownColumn
	}
	var n int64
	for _, t := range s.tracks {
		n += t.PlayCount
	}
	return n, nil
}

type categoryRepo struct{ s *Store }

func (r categoryRepo) ListCategories(context.Context) ([]*model.Category, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListCategories"); err != nil {
		return nil, err
	}
	out := make([]*model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r categoryRepo) GetCategoryByName(_ context.Context, name string) (*model.Category, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetCategoryByName"); err != nil {
		return nil, err
	}
	var found *model.Category
	for _, c := range s.categories {
		if c.Name == name && (found == nil || c.ID < found.ID) {
			found = c
		}
	}
	if found == nil {
		return nil, nil
	}
	cp := *found
	return &cp, nil
}

type userRepo struct{ s *Store }

func (r userRepo) CreateUser(_ context.Context, user *model.User) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateUser"); err != nil {
		return 0, err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return 0, repository.ErrDuplicateUser
		}
	}
	s.nextUser++
	cp := *user
	cp.ID = s.nextUser
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	s.users[cp.ID] = &cp
	return cp.ID, nil
}

func (r userRepo) GetActiveUserByEmail(_ context.Context, email string) (*model.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetActiveUserByEmail"); err != nil {
		return nil, err
	}
	for _, u := range s.users {
		if u.Email == email && u.IsActive {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r userRepo) EmailExists(_ context.Context, email string) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("EmailExists"); err != nil {
		return false, err
	}
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r userRepo) ListUsers(context.Context) ([]*model.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListUsers"); err != nil {
		return nil, err
	}
	out := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r userRepo) CountUsers(context.Context) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CountUsers"); err != nil {
		return 0, err
	}
	return int64(len(s.users)), nil
}

func (r userRepo) CountUsersCreatedToday(_ context.Context) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CountUsersCreatedToday"); err != nil {
		return 0, err
	}
	now := s.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)
	var n int64
	for _, u := range s.users {
		if !u.CreatedAt.Before(from) && u.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}
