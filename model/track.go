package model

import "time"

// Track is a row of the song table.
type Track struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Artist       string     `json:"artist"`
	Duration     string     `json:"duration"` // free text, e.g. "3:30"
	Description  string     `json:"description"`
	CategoryID   *int64     `json:"categoryId"`
	CategoryName *string    `json:"categoryName"` // joined, nil when the category is missing
	IsPublished  bool       `json:"isPublished"`
	PlayCount    int64      `json:"playCount"` // 0 when the schema has no play_count column
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// TrackView is the public catalog projection of a Track.
type TrackView struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Duration    string `json:"duration"`
	Genre       string `json:"genre"`
	Cover       string `json:"cover"`
	Description string `json:"description"`
	PlayCount   int64  `json:"playCount"`
	Date        string `json:"date"`
}

// TrackQuery selects the shape of a track listing statement.
type TrackQuery struct {
	Search        string // empty lists everything
	Limit         int    // 0 means unbounded
	PublishedOnly bool
	WithPlayCount bool // select song.play_count instead of a literal 0
}
