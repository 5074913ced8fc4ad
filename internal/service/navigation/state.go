// Package navigation tracks where a dashboard user is inside a batch's
// content tree and keeps the visible lists in step with that position.
package navigation

import (
	"errors"
	"fmt"
	"sync"

	models "lmscontent/internal/domain/models/content"
)

// ErrBreadcrumbRange is returned when a breadcrumb index is outside the path.
var ErrBreadcrumbRange = errors.New("breadcrumb index out of range")

// Crumb is one breadcrumb entry. The root crumb has an empty ID.
type Crumb struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RootCrumb is always the first entry of a path.
var RootCrumb = Crumb{ID: "", Name: "root"}

// Coordinate is the (course, batch, folder) triple a fetch is issued for.
type Coordinate struct {
	CourseID string `json:"courseId"`
	BatchID  string `json:"batchId"`
	FolderID string `json:"folderId"`
}

// State is the breadcrumb stack for one viewer. There is no pop; moving up
// happens only by clicking an ancestor breadcrumb.
type State struct {
	mu       sync.RWMutex
	courseID string
	batchID  string
	path     []Crumb
}

// NewState starts at the root of the given course and batch.
func NewState(courseID, batchID string) *State {
	return &State{
		courseID: courseID,
		batchID:  batchID,
		path:     []Crumb{RootCrumb},
	}
}

// EnterFolder pushes folder onto the path.
func (s *State) EnterFolder(folder models.Folder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = append(s.path, Crumb{ID: folder.ID, Name: folder.Name})
}

// ClickBreadcrumb truncates the path to index+1 entries.
func (s *State) ClickBreadcrumb(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.path) {
		return fmt.Errorf("%w: %d (path length %d)", ErrBreadcrumbRange, index, len(s.path))
	}
	s.path = s.path[:index+1]
	return nil
}

// SwitchBatch selects another batch and resets to root.
func (s *State) SwitchBatch(batchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchID = batchID
	s.path = []Crumb{RootCrumb}
}

// SwitchCourse selects another course, clears the batch and resets to root.
func (s *State) SwitchCourse(courseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courseID = courseID
	s.batchID = ""
	s.path = []Crumb{RootCrumb}
}

// Path returns a copy of the breadcrumb stack.
func (s *State) Path() []Crumb {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Crumb(nil), s.path...)
}

// CurrentFolderID is the id of the last crumb; "" at root.
func (s *State) CurrentFolderID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path[len(s.path)-1].ID
}

// Coordinate snapshots the current position.
func (s *State) Coordinate() Coordinate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coordinateLocked()
}

// Snapshot returns the position and a copy of the breadcrumb stack,
// read under one lock so the two always agree.
func (s *State) Snapshot() (Coordinate, []Crumb) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coordinateLocked(), append([]Crumb(nil), s.path...)
}

func (s *State) coordinateLocked() Coordinate {
	return Coordinate{
		CourseID: s.courseID,
		BatchID:  s.batchID,
		FolderID: s.path[len(s.path)-1].ID,
	}
}
