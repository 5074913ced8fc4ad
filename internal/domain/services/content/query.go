package content

import (
	"context"

	models "lmscontent/internal/domain/models/content"
)

// QueryService answers scoped folder and file queries.
type QueryService interface {
	// ListFolders returns every folder owned by the batch (flat).
	ListFolders(ctx context.Context, batchID string) ([]models.Folder, error)

	// ListFiles returns files matching the coordinate exactly. No fallback.
	ListFiles(ctx context.Context, courseID, batchID string, scope models.FolderScope) ([]models.ContentItem, error)

	// FindFiles is ListFiles plus the ANY fallback for empty folder-scoped results.
	FindFiles(ctx context.Context, courseID, batchID string, scope models.FolderScope) (*models.QueryResult, error)

	// GetTree builds the folder forest for a batch with files attached.
	GetTree(ctx context.Context, courseID, batchID string) (*models.BatchTree, error)

	// GetFile returns one normalized file record.
	GetFile(ctx context.Context, id string) (*models.ContentItem, error)

	// GetFolder returns one normalized folder record.
	GetFolder(ctx context.Context, id string) (*models.Folder, error)
}
