package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"artiststudio/model"
)

// TrackRepository defines the interface for song table operations.
type TrackRepository interface {
	ListTracks(ctx context.Context, q model.TrackQuery) ([]*model.Track, error)
	CreateTrack(ctx context.Context, track *model.Track) (int64, error)
	UpdateTrack(ctx context.Context, track *model.Track) error
	TrackExists(ctx context.Context, id int64) (bool, error)
	DeleteTrack(ctx context.Context, id int64) error
	IncrementPlayCount(ctx context.Context, id int64) error
	CountTracks(ctx context.Context) (int64, error)
	SumPlayCounts(ctx context.Context) (int64, error)
}

// mysqlTrackRepository implements TrackRepository for MySQL.
type mysqlTrackRepository struct {
	db *sql.DB
}

// NewMySQLTrackRepository creates a new mysqlTrackRepository.
func NewMySQLTrackRepository(db *sql.DB) TrackRepository {
	return &mysqlTrackRepository{db: db}
}

// buildListQuery returns the listing statement for q and its arguments.
// The play counter column is only referenced when q.WithPlayCount is set so
// the statement also runs against schemas without it.
func buildListQuery(q model.TrackQuery) (string, []interface{}) {
	playCount := "0"
	if q.WithPlayCount {
		playCount = "COALESCE(s.play_count, 0)"
	}

	var sb strings.Builder
	sb.WriteString(`SELECT s.id, s.title, s.artist, s.duration, s.description, s.category_id, c.name,
	       s.is_published, `)
	sb.WriteString(playCount)
	sb.WriteString(`, s.created_at, s.updated_at
	FROM song s
	LEFT JOIN category c ON s.category_id = c.id`)

	var where []string
	var args []interface{}
	if q.PublishedOnly {
		where = append(where, "s.is_published = 1")
	}
	if q.Search != "" {
		where = append(where, `(LOWER(s.title) LIKE ? OR LOWER(s.artist) LIKE ? OR LOWER(s.description) LIKE ? OR LOWER(c.name) LIKE ?)`)
		p := containsPattern(q.Search)
		args = append(args, p, p, p, p)
	}
	if len(where) > 0 {
		sb.WriteString("\n\tWHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString("\n\tORDER BY s.created_at DESC, s.id DESC")
	if q.Limit > 0 {
		sb.WriteString("\n\tLIMIT ?")
		args = append(args, q.Limit)
	}
	return sb.String(), args
}

// ListTracks retrieves tracks joined with their category name, newest first.
func (r *mysqlTrackRepository) ListTracks(ctx context.Context, q model.TrackQuery) ([]*model.Track, error) {
	query, args := buildListQuery(q)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	tracks := make([]*model.Track, 0)
	for rows.Next() {
		var (
			t                                   model.Track
			title, artist, duration, desc, name sql.NullString
			categoryID                          sql.NullInt64
			updatedAt                           sql.NullTime
		)
		if err := rows.Scan(&t.ID, &title, &artist, &duration, &desc, &categoryID, &name,
			&t.IsPublished, &t.PlayCount, &t.CreatedAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan track row: %w", err)
		}
		t.Title = nullString(title)
		t.Artist = nullString(artist)
		t.Duration = nullString(duration)
		t.Description = nullString(desc)
		t.CategoryID = nullInt64Ptr(categoryID)
		t.CategoryName = nullStringPtr(name)
		if updatedAt.Valid {
			u := updatedAt.Time
			t.UpdatedAt = &u
		}
		tracks = append(tracks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during track rows iteration: %w", err)
	}
	return tracks, nil
}

// CreateTrack inserts a track and returns its id.
func (r *mysqlTrackRepository) CreateTrack(ctx context.Context, track *model.Track) (int64, error) {
	query := `INSERT INTO song (title, artist, duration, description, category_id, created_at, is_published)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`
	if track.CreatedAt.IsZero() {
		track.CreatedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx, query, track.Title, track.Artist, track.Duration, track.Description,
		track.CategoryID, track.CreatedAt, track.IsPublished)
	if err != nil {
		return 0, fmt.Errorf("failed to execute create track: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for track: %w", err)
	}
	return id, nil
}

// UpdateTrack overwrites the editable fields of track.ID. Updating a missing
// id affects zero rows and is not an error.
func (r *mysqlTrackRepository) UpdateTrack(ctx context.Context, track *model.Track) error {
	query := `UPDATE song
	          SET title = ?, artist = ?, duration = ?, description = ?, category_id = ?, updated_at = ?
	          WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, track.Title, track.Artist, track.Duration, track.Description,
		track.CategoryID, time.Now(), track.ID)
	if err != nil {
		return fmt.Errorf("failed to execute update track %d: %w", track.ID, err)
	}
	return nil
}

// TrackExists reports whether a song row with id exists.
func (r *mysqlTrackRepository) TrackExists(ctx context.Context, id int64) (bool, error) {
	var found int64
	err := r.db.QueryRowContext(ctx, "SELECT id FROM song WHERE id = ?", id).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check track %d: %w", id, err)
	}
	return true, nil
}

// DeleteTrack removes the song row with id.
func (r *mysqlTrackRepository) DeleteTrack(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM song WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete track %d: %w", id, err)
	}
	return nil
}

// IncrementPlayCount adds one play. Requires the play_count column.
func (r *mysqlTrackRepository) IncrementPlayCount(ctx context.Context, id int64) error {
	query := "UPDATE song SET play_count = COALESCE(play_count, 0) + 1 WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to increment play count for track %d: %w", id, err)
	}
	return nil
}

// CountTracks counts all songs, published or not.
func (r *mysqlTrackRepository) CountTracks(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM song").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return n, nil
}

// SumPlayCounts sums play_count, treating NULL as 0. Requires the play_count column.
func (r *mysqlTrackRepository) SumPlayCounts(ctx context.Context) (int64, error) {
	var n int64
	query := "SELECT COALESCE(SUM(COALESCE(play_count, 0)), 0) FROM song"
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to sum play counts: %w", err)
	}
	return n, nil
}
