package catalog

import (
	"time"

	"artiststudio/model"
)

// FallbackGenre labels tracks without a resolvable category.
const FallbackGenre = "unclassified"

// DefaultCover is used for genres missing from genreCovers.
const DefaultCover = "🎵"

const dateLayout = "02 Jan 2006"

var genreCovers = map[string]string{
	"Pop":        "🎵",
	"Rock":       "🎸",
	"Electronic": "🎛️",
	"Acoustic":   "🎻",
	"Jazz":       "🎺",
	"Classical":  "🎼",
}

// GenreLabel returns the category name or FallbackGenre.
func GenreLabel(categoryName *string) string {
	if categoryName == nil || *categoryName == "" {
		return FallbackGenre
	}
	return *categoryName
}

// CoverFor returns the glyph for genre.
func CoverFor(genre string) string {
	if c, ok := genreCovers[genre]; ok {
		return c
	}
	return DefaultCover
}

// FormatDate renders a creation time the way the catalog shows it.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// NewTrackView projects a stored track into its public catalog shape.
func NewTrackView(t *model.Track) model.TrackView {
	genre := GenreLabel(t.CategoryName)
	return model.TrackView{
		ID:          t.ID,
		Title:       t.Title,
		Artist:      t.Artist,
		Duration:    t.Duration,
		Genre:       genre,
		Cover:       CoverFor(genre),
		Description: t.Description,
		PlayCount:   t.PlayCount,
		Date:        FormatDate(t.CreatedAt),
	}
}
