package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenreLabel(t *testing.T) {
	rock := "Rock"
	empty := ""
	assert.Equal(t, "Rock", GenreLabel(&rock))
	assert.Equal(t, FallbackGenre, GenreLabel(nil))
	assert.Equal(t, FallbackGenre, GenreLabel(&empty))
}

func TestCoverFor(t *testing.T) {
	assert.Equal(t, "🎸", CoverFor("Rock"))
	assert.Equal(t, "🎛️", CoverFor("Electronic"))
	assert.Equal(t, DefaultCover, CoverFor("Polka"))
	assert.Equal(t, DefaultCover, CoverFor(FallbackGenre))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "09 Dec 2023", FormatDate(time.Date(2023, 12, 9, 23, 59, 0, 0, time.UTC)))
}
