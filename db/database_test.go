package db

import (
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artiststudio/config"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{DBUser: "studio", DBPassword: "p@ss", DBHost: "db", DBPort: "3307", DBName: "artist_studio"}

	parsed, err := mysql.ParseDSN(DSN(cfg))
	require.NoError(t, err)
	assert.Equal(t, "studio", parsed.User)
	assert.Equal(t, "p@ss", parsed.Passwd)
	assert.Equal(t, "db:3307", parsed.Addr)
	assert.Equal(t, "artist_studio", parsed.DBName)
	assert.True(t, parsed.ParseTime)
}
