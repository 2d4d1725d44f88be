package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"artiststudio/model"
)

func TestBuildListQueryPublicSearch(t *testing.T) {
	query, args := buildListQuery(model.TrackQuery{Search: "Jazz_50%", Limit: 50, PublishedOnly: true})

	assert.Contains(t, query, "s.is_published = 1 AND (LOWER(s.title) LIKE ?")
	assert.Contains(t, query, "LOWER(c.name) LIKE ?")
	assert.Contains(t, query, "ORDER BY s.created_at DESC")
	assert.Contains(t, query, "LIMIT ?")
	assert.NotContains(t, query, "play_count")
	assert.Equal(t, []interface{}{`%jazz\_50\%%`, `%jazz\_50\%%`, `%jazz\_50\%%`, `%jazz\_50\%%`, 50}, args)
}

func TestBuildListQueryAdminWithPlayCount(t *testing.T) {
	query, args := buildListQuery(model.TrackQuery{WithPlayCount: true})

	assert.Contains(t, query, "COALESCE(s.play_count, 0)")
	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "LIMIT")
	assert.Empty(t, args)
}

func TestDecodeRoles(t *testing.T) {
	assert.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"},
		decodeRoles(sql.NullString{String: `["ROLE_USER","ROLE_ADMIN"]`, Valid: true}))
	assert.Equal(t, model.DefaultRoles, decodeRoles(sql.NullString{}))
	assert.Equal(t, model.DefaultRoles, decodeRoles(sql.NullString{String: "not json", Valid: true}))
	assert.Equal(t, model.DefaultRoles, decodeRoles(sql.NullString{String: "[]", Valid: true}))
}

func TestIsDuplicateEntry(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.c' for key 'email'"}

	assert.True(t, isDuplicateEntry(dup))
	assert.True(t, isDuplicateEntry(fmt.Errorf("insert: %w", dup)))
	assert.False(t, isDuplicateEntry(&mysql.MySQLError{Number: 1146}))
	assert.False(t, isDuplicateEntry(errors.New("Duplicate entry")))
}
