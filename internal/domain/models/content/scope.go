package content

import "strings"

// ScopeKind selects how file queries filter on folder.
type ScopeKind int

const (
	ScopeRoot ScopeKind = iota
	ScopeFolder
	ScopeAny
)

// FolderScope is the folder part of a (course, batch, folder) coordinate.
type FolderScope struct {
	Kind     ScopeKind
	FolderID string
}

// Root matches files with no folder.
func Root() FolderScope { return FolderScope{Kind: ScopeRoot} }

// Any bypasses folder filtering.
func Any() FolderScope { return FolderScope{Kind: ScopeAny} }

// In matches files in one folder. An empty or root-synonym id yields Root.
func In(folderID string) FolderScope {
	if folderID == "" {
		return Root()
	}
	return FolderScope{Kind: ScopeFolder, FolderID: folderID}
}

// ParseScope reads the query-string form: "any", "root"/"null"/"", or a folder id.
func ParseScope(s string) FolderScope {
	v := strings.TrimSpace(s)
	switch strings.ToLower(v) {
	case "any", "*":
		return Any()
	case "", "root", "null", "0":
		return Root()
	}
	return In(v)
}

func (s FolderScope) String() string {
	switch s.Kind {
	case ScopeAny:
		return "ANY"
	case ScopeFolder:
		return s.FolderID
	default:
		return "root"
	}
}

// QueryResult is a file listing together with whether the ANY fallback was used.
type QueryResult struct {
	CourseID       string        `json:"courseId"`
	BatchID        string        `json:"batchId"`
	RequestedScope string        `json:"requestedScope"`
	FellBack       bool          `json:"fellBack"`
	Items          []ContentItem `json:"items"`
}
