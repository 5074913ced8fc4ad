package content

import (
	"context"
	"encoding/json"
	"io"

	models "lmscontent/internal/domain/models/content"
	"lmscontent/internal/httputil"
)

// MutationService creates, renames, moves and deletes folders and files.
// Every successful mutation is followed by a re-fetch; trees are rebuilt, never patched.
type MutationService interface {
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*FolderMutation, error)

	// UpdateFolder renames and/or moves a folder.
	UpdateFolder(ctx context.Context, id string, req *UpdateFolderRequest) (*FolderMutation, error)

	RenameFolder(ctx context.Context, id, name string) (*FolderMutation, error)

	// MoveFolder re-parents a folder. "" moves it to the batch root.
	// Moves into itself or a descendant are rejected.
	MoveFolder(ctx context.Context, id, parentID string) (*FolderMutation, error)

	// DeleteFolder removes the folder record and applies the configured
	// policy to its children.
	DeleteFolder(ctx context.Context, id string) (*FolderMutation, error)

	// UploadFile writes the binary then the metadata record. A metadata
	// failure after a successful write returns a *domain.PartialFailureError
	// together with a non-nil result describing the stored object.
	UploadFile(ctx context.Context, req *UploadFileRequest) (*FileMutation, error)

	RenameFile(ctx context.Context, id, name string) (*FileMutation, error)

	// DeleteFile loads the record and deletes it with DeleteItem.
	DeleteFile(ctx context.Context, id string) (*DeleteReport, error)

	// DeleteItem attempts both delete phases independently.
	DeleteItem(ctx context.Context, item models.ContentItem) (*DeleteReport, error)

	// ResolveURL returns a download URL, resolving the storage location when needed.
	ResolveURL(ctx context.Context, item models.ContentItem) (string, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	BatchID  string `json:"batchId"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"` // empty for root
}

// UnmarshalJSON accepts parentId as a string, a number or null.
func (r *CreateFolderRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		BatchID  string                  `json:"batchId"`
		Name     string                  `json:"name"`
		ParentID httputil.OptionalString `json:"parentId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.BatchID = raw.BatchID
	r.Name = raw.Name
	r.ParentID = ""
	if raw.ParentID.Value != nil {
		r.ParentID = *raw.ParentID.Value
	}
	return nil
}

// UpdateFolderRequest represents a folder update request
type UpdateFolderRequest struct {
	Name     *string                 `json:"name,omitempty"`     // rename
	ParentID httputil.OptionalString `json:"parentId,omitempty"` // move; null moves to root
}

// UploadFileRequest carries one file upload into a (course, batch, folder) coordinate.
type UploadFileRequest struct {
	CourseID        string
	BatchID         string
	FolderID        string
	FileName        string
	Title           string
	ContentType     string
	Size            int64
	DurationSeconds *float64
	Body            io.Reader
}

// FolderMutation is the outcome of a folder mutation with the re-fetched batch folders.
type FolderMutation struct {
	Folder   *models.Folder     `json:"folder,omitempty"`
	Folders  []models.Folder    `json:"folders"`
	Tree     []*models.TreeNode `json:"tree"`
	Warnings []string           `json:"warnings,omitempty"`
}

// FileMutation is the outcome of a file mutation with the re-fetched listing.
type FileMutation struct {
	Item            *models.ContentItem `json:"item,omitempty"`
	StorageLocation string              `json:"storageLocation,omitempty"`
	Listing         *models.QueryResult `json:"listing,omitempty"`
	Warnings        []string            `json:"warnings,omitempty"`
}

// DeleteReport records which delete phases ran and how they ended.
type DeleteReport struct {
	ItemID          string   `json:"itemId,omitempty"`
	StorageLocation string   `json:"storageLocation,omitempty"`
	ObjectAttempted bool     `json:"objectAttempted"`
	ObjectDeleted   bool     `json:"objectDeleted"`
	RecordAttempted bool     `json:"recordAttempted"`
	RecordDeleted   bool     `json:"recordDeleted"`
	Warnings        []string `json:"warnings,omitempty"`
	ObjectErr       error    `json:"-"`
	RecordErr       error    `json:"-"`
}
