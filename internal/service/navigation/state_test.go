package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "lmscontent/internal/domain/models/content"
)

func TestStateStartsAtRoot(t *testing.T) {
	s := NewState("c1", "b1")
	assert.Equal(t, []Crumb{RootCrumb}, s.Path())
	assert.Equal(t, "", s.CurrentFolderID())
	assert.Equal(t, Coordinate{CourseID: "c1", BatchID: "b1"}, s.Coordinate())
}

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		name     string
		apply    func(s *State) error
		wantPath []Crumb
		wantErr  bool
	}{
		{
			name: "enter folder",
			apply: func(s *State) error {
				s.EnterFolder(models.Folder{ID: "a", Name: "A"})
				return nil
			},
			wantPath: []Crumb{RootCrumb, {ID: "a", Name: "A"}},
		},
		{
			name: "click root from depth two",
			apply: func(s *State) error {
				s.EnterFolder(models.Folder{ID: "a", Name: "A"})
				s.EnterFolder(models.Folder{ID: "b", Name: "B"})
				return s.ClickBreadcrumb(0)
			},
			wantPath: []Crumb{RootCrumb},
		},
		{
			name: "click middle crumb",
			apply: func(s *State) error {
				s.EnterFolder(models.Folder{ID: "a", Name: "A"})
				s.EnterFolder(models.Folder{ID: "b", Name: "B"})
				s.EnterFolder(models.Folder{ID: "c", Name: "C"})
				return s.ClickBreadcrumb(1)
			},
			wantPath: []Crumb{RootCrumb, {ID: "a", Name: "A"}},
		},
		{
			name: "click current crumb is a no-op",
			apply: func(s *State) error {
				s.EnterFolder(models.Folder{ID: "a", Name: "A"})
				return s.ClickBreadcrumb(1)
			},
			wantPath: []Crumb{RootCrumb, {ID: "a", Name: "A"}},
		},
		{
			name: "out of range leaves state unchanged",
			apply: func(s *State) error {
				s.EnterFolder(models.Folder{ID: "a", Name: "A"})
				return s.ClickBreadcrumb(5)
			},
			wantPath: []Crumb{RootCrumb, {ID: "a", Name: "A"}},
			wantErr:  true,
		},
		{
			name: "negative index",
			apply: func(s *State) error {
				return s.ClickBreadcrumb(-1)
			},
			wantPath: []Crumb{RootCrumb},
			wantErr:  true,
		},
		{
			name: "switch batch resets",
			apply: func(s *State) error {
				s.EnterFolder(models.Folder{ID: "a", Name: "A"})
				s.SwitchBatch("b2")
				return nil
			},
			wantPath: []Crumb{RootCrumb},
		},
		{
			name: "switch course resets",
			apply: func(s *State) error {
				s.EnterFolder(models.Folder{ID: "a", Name: "A"})
				s.SwitchCourse("c2")
				return nil
			},
			wantPath: []Crumb{RootCrumb},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState("c1", "b1")
			err := tt.apply(s)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBreadcrumbRange)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantPath, s.Path())
			assert.Equal(t, tt.wantPath[len(tt.wantPath)-1].ID, s.CurrentFolderID())
		})
	}
}

func TestSwitchCoordinates(t *testing.T) {
	s := NewState("c1", "b1")
	s.SwitchBatch("b2")
	assert.Equal(t, Coordinate{CourseID: "c1", BatchID: "b2"}, s.Coordinate())

	s.EnterFolder(models.Folder{ID: "x", Name: "X"})
	s.SwitchCourse("c2")
	assert.Equal(t, Coordinate{CourseID: "c2"}, s.Coordinate())
}

func TestPathIsACopy(t *testing.T) {
	s := NewState("c", "b")
	p := s.Path()
	p[0].Name = "changed"
	assert.Equal(t, "root", s.Path()[0].Name)
}

func TestSnapshotAgreesUnderConcurrentNavigation(t *testing.T) {
	s := NewState("c", "b")
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			s.EnterFolder(models.Folder{ID: "x", Name: "X"})
			s.EnterFolder(models.Folder{ID: "y", Name: "Y"})
			_ = s.ClickBreadcrumb(0)
		}
	}()

	for i := 0; i < 500; i++ {
		coord, path := s.Snapshot()
		require.NotEmpty(t, path)
		require.Equal(t, coord.FolderID, path[len(path)-1].ID)
	}
	<-done

	coord, path := s.Snapshot()
	assert.Equal(t, Coordinate{CourseID: "c", BatchID: "b"}, coord)
	assert.Equal(t, []Crumb{RootCrumb}, path)
}
