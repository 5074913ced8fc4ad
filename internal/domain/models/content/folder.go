package content

import "time"

// Folder is the canonical folder entity. ParentID "" means root.
type Folder struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	BatchID   string     `json:"batchId"`
	ParentID  string     `json:"parentId,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// IsRoot reports whether the folder has no parent.
func (f Folder) IsRoot() bool { return f.ParentID == "" }
