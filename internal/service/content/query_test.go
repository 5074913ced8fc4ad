package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lmscontent/internal/domain"
	models "lmscontent/internal/domain/models/content"
)

func itemIDs(items []models.ContentItem) []string {
	out := []string{}
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestListFoldersFiltersByBatch(t *testing.T) {
	fx := newFixture(t, DeleteReparent)
	fx.seed(t, testCollections.Folders,
		models.Record{"id": 1, "batchId": 5, "name": "Week1"},
		models.Record{"id": 2, "batchId": "5", "name": "Week2"},
		models.Record{"id": 3, "batchId": 6, "name": "Other"},
	)

	folders, err := fx.query.ListFolders(fx.student, "5")
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "Week1", folders[0].Name)
	assert.Equal(t, "Week2", folders[1].Name)

	_, err = fx.query.ListFolders(context.Background(), "5")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestListFilesScopes(t *testing.T) {
	fx := newFixture(t, DeleteReparent)
	fx.seed(t, testCollections.Items,
		models.Record{"id": "a", "courseId": 1, "batchId": 2, "folderId": nil},
		models.Record{"id": "b", "courseId": "1", "batchId": "2", "folderId": "0"},
		models.Record{"id": "c", "courseId": 1, "batchId": 2, "folderId": 0},
		models.Record{"id": "d", "courseId": 1, "batchId": 2, "folderId": ""},
		models.Record{"id": "e", "courseId": 1, "batchId": 2, "folderId": 7},
		models.Record{"id": "f", "courseId": 1, "batchId": 2, "folderId": "7"},
		models.Record{"id": "g", "courseId": 1, "batchId": 3, "folderId": nil},
		models.Record{"id": "h", "courseId": 9, "batchId": 2, "folderId": nil},
	)

	tests := []struct {
		name  string
		scope models.FolderScope
		want  []string
	}{
		{"root synonyms", models.Root(), []string{"a", "b", "c", "d"}},
		{"numeric folder id", models.In("7"), []string{"e", "f"}},
		{"float spelling", models.In("7.0"), []string{"e", "f"}},
		{"root via parsed zero", models.ParseScope("0"), []string{"a", "b", "c", "d"}},
		{"any", models.Any(), []string{"a", "b", "c", "d", "e", "f"}},
		{"missing folder", models.In("8"), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := fx.query.ListFiles(fx.student, "1", "2", tt.scope)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, itemIDs(items))
		})
	}
}

func TestFindFilesFallsBackToAny(t *testing.T) {
	fx := newFixture(t, DeleteReparent)
	fx.seed(t, testCollections.Items,
		models.Record{"id": "x", "courseId": 1, "batchId": 2, "folderId": 44},
		models.Record{"id": "y", "courseId": 1, "batchId": 2, "folderId": 45},
	)

	root, err := fx.query.ListFiles(fx.student, "1", "2", models.Root())
	require.NoError(t, err)
	require.Empty(t, root)

	result, err := fx.query.FindFiles(fx.student, "1", "2", models.Root())
	require.NoError(t, err)
	assert.True(t, result.FellBack)
	assert.Equal(t, "root", result.RequestedScope)
	assert.ElementsMatch(t, []string{"x", "y"}, itemIDs(result.Items))

	result, err = fx.query.FindFiles(fx.student, "1", "2", models.In("44"))
	require.NoError(t, err)
	assert.False(t, result.FellBack)
	assert.Equal(t, []string{"x"}, itemIDs(result.Items))
}

func TestFindFilesEmptyBatchStaysEmpty(t *testing.T) {
	fx := newFixture(t, DeleteReparent)

	result, err := fx.query.FindFiles(fx.student, "1", "2", models.In("3"))
	require.NoError(t, err)
	assert.True(t, result.FellBack)
	assert.Empty(t, result.Items)

	result, err = fx.query.FindFiles(fx.student, "1", "2", models.Any())
	require.NoError(t, err)
	assert.False(t, result.FellBack)
}

func TestFindFilesTransportFailure(t *testing.T) {
	fx := newFixture(t, DeleteReparent)
	fx.records.set(func(f *flakyRecords) {
		f.failQuery = &domain.TransportError{Op: "query", Err: errInjected}
	})

	_, err := fx.query.FindFiles(fx.student, "1", "2", models.Root())
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestListFilesSortedByCreation(t *testing.T) {
	fx := newFixture(t, DeleteReparent)
	fx.seed(t, testCollections.Items,
		models.Record{"id": "late", "courseId": 1, "batchId": 2, "createdAt": "2024-02-01T00:00:00Z"},
		models.Record{"id": "undated", "courseId": 1, "batchId": 2},
		models.Record{"id": "early", "courseId": 1, "batchId": 2, "createdAt": 1704067200000},
	)

	items, err := fx.query.ListFiles(fx.student, "1", "2", models.Root())
	require.NoError(t, err)
	assert.Equal(t, []string{"early", "late", "undated"}, itemIDs(items))
}

func TestGetTree(t *testing.T) {
	fx := newFixture(t, DeleteReparent)
	fx.seed(t, testCollections.Folders,
		models.Record{"id": 1, "batchId": 2, "parentId": nil, "name": "Week1"},
		models.Record{"id": 2, "batchId": 2, "parentId": 1, "name": "Day1"},
		models.Record{"id": 3, "batchId": 2, "parentId": 99, "name": "Orphan"},
	)
	fx.seed(t, testCollections.Items,
		models.Record{"id": "r", "courseId": 1, "batchId": 2, "folderId": "0"},
		models.Record{"id": "d", "courseId": 1, "batchId": 2, "folderId": 2},
		models.Record{"id": "u", "courseId": 1, "batchId": 2, "folderId": 404},
	)

	tree, err := fx.query.GetTree(fx.student, "1", "2")
	require.NoError(t, err)

	assert.Equal(t, []string{"Week1", "Orphan"}, names(tree.Folders))
	require.Len(t, tree.Folders[0].Children, 1)
	day1 := tree.Folders[0].Children[0]
	assert.Equal(t, []string{"d"}, itemIDs(day1.Files))
	assert.Equal(t, []string{"r"}, itemIDs(tree.RootFiles))
	assert.Equal(t, []string{"u"}, itemIDs(tree.Unplaced))
}

func TestGetFileAndFolder(t *testing.T) {
	fx := newFixture(t, DeleteReparent)
	fx.seed(t, testCollections.Items, models.Record{"id": "f1", "fileName": "a.pdf"})
	fx.seed(t, testCollections.Folders, models.Record{"id": "d1", "name": "Docs"})

	item, err := fx.query.GetFile(fx.student, "f1")
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", item.DisplayName)
	assert.Equal(t, models.MediaPDF, item.MediaType)

	folder, err := fx.query.GetFolder(fx.student, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Docs", folder.Name)

	_, err = fx.query.GetFile(fx.student, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
