package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artiststudio/core/admin"
	"artiststudio/core/catalog"
	"artiststudio/core/schema"
	"artiststudio/internal/testsupport/memstore"
	"artiststudio/model"
)

func TestTakeSnapshotIncludesUnpublished(t *testing.T) {
	store := memstore.New()
	store.AddCategory("Jazz")
	store.AddTrack(model.Track{Title: "Draft", Artist: "A"})
	store.AddTrack(model.Track{Title: "Live", Artist: "A", IsPublished: true})

	pc := schema.Static(true)
	snap, err := takeSnapshot(context.Background(),
		admin.NewService(store.Tracks(), store.Categories(), store.Users(), pc),
		catalog.NewService(store.Tracks(), store.Categories(), pc, nil))
	require.NoError(t, err)

	assert.Len(t, snap.Tracks, 2)
	assert.Len(t, snap.Categories, 1)
	assert.False(t, snap.TakenAt.IsZero())
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"server", "migrate", "redis", "backup"} {
		assert.True(t, names[want], want)
	}
	assert.NotNil(t, migrateCmd.Flags().Lookup("play-count"))
	assert.NotNil(t, migrateCmd.Flags().Lookup("seed"))
}
