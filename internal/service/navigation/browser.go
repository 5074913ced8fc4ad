package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	models "lmscontent/internal/domain/models/content"
	contentSvc "lmscontent/internal/domain/services/content"
	"lmscontent/internal/service/content"
)

// ErrStaleResult means the state moved on while a fetch was in flight and
// its result was dropped.
var ErrStaleResult = errors.New("navigation moved before fetch completed")

// View is what a dashboard renders for the current position.
type View struct {
	Coordinate Coordinate           `json:"coordinate"`
	Path       []Crumb              `json:"path"`
	Tree       []*models.TreeNode   `json:"tree"`
	Folders    []*models.TreeNode   `json:"folders"`
	Files      []models.ContentItem `json:"files"`
	FellBack   bool                 `json:"fellBack"`
}

// Browser binds a State to the query engine.
type Browser struct {
	state  *State
	query  contentSvc.QueryService
	logger *slog.Logger

	mu   sync.Mutex
	view View
}

// NewBrowser creates a browser over state.
func NewBrowser(state *State, query contentSvc.QueryService, logger *slog.Logger) *Browser {
	coord, path := state.Snapshot()
	return &Browser{
		state:  state,
		query:  query,
		logger: logger,
		view: View{
			Coordinate: coord,
			Path:       path,
			Tree:       []*models.TreeNode{},
			Folders:    []*models.TreeNode{},
			Files:      []models.ContentItem{},
		},
	}
}

// State returns the underlying navigation state.
func (b *Browser) State() *State { return b.state }

// View returns the last applied view.
func (b *Browser) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view
}

// Refresh fetches folders and files for the current coordinate.
//
// The result is applied only if the state still points at the coordinate
// the fetch was issued for; otherwise ErrStaleResult is returned and the
// view is left alone. A list whose fetch fails keeps its last-known value
// and the error is returned alongside the partly refreshed view.
func (b *Browser) Refresh(ctx context.Context) (View, error) {
	coord, _ := b.state.Snapshot()

	var (
		folders   []models.Folder
		files     *models.QueryResult
		folderErr error
		filesErr  error
	)
	var g errgroup.Group
	g.Go(func() error {
		folders, folderErr = b.query.ListFolders(ctx, coord.BatchID)
		return nil
	})
	g.Go(func() error {
		files, filesErr = b.query.FindFiles(ctx, coord.CourseID, coord.BatchID, models.In(coord.FolderID))
		return nil
	})
	_ = g.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()

	current, path := b.state.Snapshot()
	if current != coord {
		b.logger.Debug("discarding stale navigation result",
			"issued_for", fmt.Sprintf("%+v", coord),
			"current", fmt.Sprintf("%+v", current),
		)
		return b.view, ErrStaleResult
	}

	b.view.Coordinate = coord
	b.view.Path = path

	if folderErr == nil {
		forest := content.BuildTree(folders)
		forest.Sort()
		b.view.Tree = forest.Roots
		b.view.Folders = forest.Roots
		if coord.FolderID != "" {
			b.view.Folders = []*models.TreeNode{}
			if node, ok := forest.Find(coord.FolderID); ok {
				b.view.Folders = node.Children
			}
		}
	} else {
		b.logger.Warn("folder refresh failed, keeping last-known folders", "error", folderErr)
	}

	if filesErr == nil {
		b.view.Files = files.Items
		b.view.FellBack = files.FellBack
	} else {
		b.logger.Warn("file refresh failed, keeping last-known files", "error", filesErr)
	}

	return b.view, errors.Join(folderErr, filesErr)
}
