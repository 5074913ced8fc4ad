package content

// Record is a raw document as read from or written to the schemaless store.
// Field names and value types are not guaranteed; see the normalizer.
type Record map[string]any

// Collection names used by the content repository.
type Collections struct {
	Folders string
	Items   string
}

// Stored record field names written by this service.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldBatchID     = "batchId"
	FieldCourseID    = "courseId"
	FieldParentID    = "parentId"
	FieldFolderID    = "folderId"
	FieldTitle       = "title"
	FieldFileName    = "fileName"
	FieldFileType    = "fileType"
	FieldStoragePath = "storagePath"
	FieldDownloadURL = "downloadUrl"
	FieldSize        = "size"
	FieldDuration    = "duration"
	FieldCreatedAt   = "createdAt"
)
