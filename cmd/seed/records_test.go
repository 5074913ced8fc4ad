package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authModels "lmscontent/internal/domain/models"
	models "lmscontent/internal/domain/models/content"
	"lmscontent/internal/mediatypes"
	"lmscontent/internal/repository/memory"
	"lmscontent/internal/service/auth"
	"lmscontent/internal/service/content"
)

func TestSeedBuildsExpectedTree(t *testing.T) {
	ctx := authModels.WithActor(context.Background(), authModels.Actor{UserID: "u", Surface: authModels.SurfaceStudent})
	store := memory.NewRecordStore()
	collections := models.Collections{Folders: "folders", Items: "content"}

	folders, items := demoRecords("101", "7")
	require.NoError(t, seed(ctx, store, noTx{}, collections, folders, items))

	query := content.NewQueryService(store, collections, content.NewNormalizer(mediatypes.MustDefault()),
		auth.NewSurfaceAuthorizer(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	tree, err := query.GetTree(ctx, "101", "7")
	require.NoError(t, err)

	var roots []string
	for _, f := range tree.Folders {
		roots = append(roots, f.Name)
	}
	assert.Equal(t, []string{"Week 1", "Old handouts", "Week 2"}, roots)
	require.Len(t, tree.Folders[0].Children, 2)
	assert.Equal(t, "intro.mp4", tree.Folders[0].Children[0].Files[0].DisplayName)
	assert.Equal(t, "Slides", tree.Folders[0].Children[1].Files[0].DisplayName)

	// dated files first, undated last
	require.Len(t, tree.RootFiles, 2)
	assert.Equal(t, "Whiteboard", tree.RootFiles[0].DisplayName)
	assert.Equal(t, "course syllabus.pdf", tree.RootFiles[1].DisplayName)
	require.Len(t, tree.Unplaced, 1)
	assert.Equal(t, "lost.png", tree.Unplaced[0].DisplayName)
}

func TestClearBatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRecordStore()
	collections := models.Collections{Folders: "folders", Items: "content"}

	folders, items := demoRecords("101", "7")
	require.NoError(t, seed(ctx, store, noTx{}, collections, folders, items))
	other, otherItems := demoRecords("101", "8")
	for i := range other {
		other[i]["id"] = i + 100
	}
	for i := range otherItems {
		otherItems[i]["id"] = "x" + otherItems[i]["id"].(string)
	}
	require.NoError(t, seed(ctx, store, noTx{}, collections, other, otherItems))

	removed, err := clearBatch(ctx, store, noTx{}, collections, "101", "7")
	require.NoError(t, err)
	assert.Equal(t, len(folders)+len(items), removed)

	left, err := store.QueryAll(ctx, collections.Items)
	require.NoError(t, err)
	assert.Len(t, left, len(otherItems))

	// seeding again after a clear does not conflict
	require.NoError(t, seed(ctx, store, noTx{}, collections, folders, items))
}
