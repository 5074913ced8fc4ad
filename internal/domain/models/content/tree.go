package content

// TreeNode is a folder with its nested children and files.
// Nodes are derived per query and never patched in place.
type TreeNode struct {
	Folder
	Children []*TreeNode   `json:"children"`
	Files    []ContentItem `json:"files"`
}

// BatchTree is the full navigable view of one (course, batch) pair.
type BatchTree struct {
	CourseID  string        `json:"courseId"`
	BatchID   string        `json:"batchId"`
	Folders   []*TreeNode   `json:"folders"`
	RootFiles []ContentItem `json:"rootFiles"`
	// Unplaced holds files whose folder id does not resolve in this batch.
	// They stay reachable through an ANY-scoped file query.
	Unplaced []ContentItem `json:"unplaced"`
}
