package content

import "time"

// MediaType is a coarse classification used to pick a viewer.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaPDF   MediaType = "pdf"
	MediaOther MediaType = "other"
)

// ContentItem is the canonical file entity. FolderID "" means the batch root.
type ContentItem struct {
	ID              string     `json:"id"`
	CourseID        string     `json:"courseId"`
	BatchID         string     `json:"batchId"`
	FolderID        string     `json:"folderId,omitempty"`
	DisplayName     string     `json:"displayName"`
	FileName        string     `json:"fileName,omitempty"`
	ContentType     string     `json:"contentType,omitempty"`
	MediaType       MediaType  `json:"mediaType"`
	StorageLocation string     `json:"storageLocation,omitempty"`
	RetrievalURL    string     `json:"retrievalUrl,omitempty"`
	SizeBytes       *int64     `json:"sizeBytes,omitempty"`
	DurationSeconds *float64   `json:"durationSeconds,omitempty"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
}
