package model

import "time"

// Stats aggregates the admin dashboard counters.
type Stats struct {
	TotalTracks        int64 `json:"totalTracks"`
	TotalUsers         int64 `json:"totalUsers"`
	TotalPlays         int64 `json:"totalPlays"`
	TodayRegistrations int64 `json:"todayRegistrations"`
}

// Health is returned by the status endpoint.
type Health struct {
	Status      string `json:"status"`
	TotalTracks int64  `json:"totalTracks"`
	Message     string `json:"message"`
	Cache       string `json:"cache,omitempty"`
}

// OverrideLogin is one audit entry for a login accepted through an override password.
type OverrideLogin struct {
	Email  string    `json:"email"`
	UserID int64     `json:"userId"`
	At     time.Time `json:"at"`
}
