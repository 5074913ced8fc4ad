package content

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	models "lmscontent/internal/domain/models/content"
	contentRepo "lmscontent/internal/domain/repositories/content"
	"lmscontent/internal/domain/services"
	contentSvc "lmscontent/internal/domain/services/content"
)

type queryService struct {
	store       contentRepo.RecordStore
	collections models.Collections
	normalizer  *Normalizer
	authorizer  services.ResourceAuthorizer
	logger      *slog.Logger
}

// NewQueryService creates the scoped query engine.
// The store is always read whole and filtered in memory because scoping
// fields are not written consistently.
func NewQueryService(
	store contentRepo.RecordStore,
	collections models.Collections,
	normalizer *Normalizer,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) contentSvc.QueryService {
	return &queryService{
		store:       store,
		collections: collections,
		normalizer:  normalizer,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// ListFolders returns the batch's folders in store order.
func (s *queryService) ListFolders(ctx context.Context, batchID string) ([]models.Folder, error) {
	if err := s.authorizer.CanRead(ctx); err != nil {
		return nil, err
	}
	return s.listFolders(ctx, batchID)
}

func (s *queryService) listFolders(ctx context.Context, batchID string) ([]models.Folder, error) {
	recs, err := s.store.QueryAll(ctx, s.collections.Folders)
	if err != nil {
		return nil, fmt.Errorf("failed to query folders: %w", err)
	}

	batchID = NormalizeID(batchID)
	folders := make([]models.Folder, 0)
	for _, f := range s.normalizer.Folders(recs) {
		if f.BatchID == batchID {
			folders = append(folders, f)
		}
	}

	s.logger.Debug("folders listed",
		"batch_id", batchID,
		"scanned", len(recs),
		"matched", len(folders),
	)
	return folders, nil
}

// ListFiles returns the files at an exact coordinate without fallback.
func (s *queryService) ListFiles(ctx context.Context, courseID, batchID string, scope models.FolderScope) ([]models.ContentItem, error) {
	if err := s.authorizer.CanRead(ctx); err != nil {
		return nil, err
	}
	return s.listFiles(ctx, courseID, batchID, scope)
}

func (s *queryService) listFiles(ctx context.Context, courseID, batchID string, scope models.FolderScope) ([]models.ContentItem, error) {
	recs, err := s.store.QueryAll(ctx, s.collections.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}

	courseID = NormalizeID(courseID)
	batchID = NormalizeID(batchID)
	items := make([]models.ContentItem, 0)
	for _, item := range s.normalizer.Items(recs) {
		if item.CourseID != courseID || item.BatchID != batchID {
			continue
		}
		if matchesScope(item, scope) {
			items = append(items, item)
		}
	}
	sortItems(items)

	s.logger.Debug("files listed",
		"course_id", courseID,
		"batch_id", batchID,
		"scope", scope.String(),
		"scanned", len(recs),
		"matched", len(items),
	)
	return items, nil
}

func matchesScope(item models.ContentItem, scope models.FolderScope) bool {
	folderID := ResolveParent(item.FolderID)
	switch scope.Kind {
	case models.ScopeAny:
		return true
	case models.ScopeFolder:
		want := ResolveParent(scope.FolderID)
		if want == "" {
			return folderID == ""
		}
		return folderID != "" && SameID(folderID, want)
	default:
		return folderID == ""
	}
}

// FindFiles runs the scoped query and falls back to ANY when a root or
// folder scope comes back empty. The result says whether it fell back.
func (s *queryService) FindFiles(ctx context.Context, courseID, batchID string, scope models.FolderScope) (*models.QueryResult, error) {
	if err := s.authorizer.CanRead(ctx); err != nil {
		return nil, err
	}

	result := &models.QueryResult{
		CourseID:       NormalizeID(courseID),
		BatchID:        NormalizeID(batchID),
		RequestedScope: scope.String(),
	}

	items, err := s.listFiles(ctx, courseID, batchID, scope)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 && scope.Kind != models.ScopeAny {
		items, err = s.listFiles(ctx, courseID, batchID, models.Any())
		if err != nil {
			return nil, err
		}
		result.FellBack = true
		s.logger.Info("scoped file query empty, fell back to ANY",
			"course_id", result.CourseID,
			"batch_id", result.BatchID,
			"scope", result.RequestedScope,
			"fallback_count", len(items),
		)
	}
	result.Items = items
	return result, nil
}

// GetTree builds the batch forest with every file attached or reported
// as root-level or unplaced.
func (s *queryService) GetTree(ctx context.Context, courseID, batchID string) (*models.BatchTree, error) {
	if err := s.authorizer.CanRead(ctx); err != nil {
		return nil, err
	}

	var (
		folders []models.Folder
		items   []models.ContentItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		folders, err = s.listFolders(gctx, batchID)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.listFiles(gctx, courseID, batchID, models.Any())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	forest := BuildTree(folders)
	rootFiles, unplaced := AssociateFiles(forest, items)

	s.logger.Info("batch tree built",
		"course_id", courseID,
		"batch_id", batchID,
		"folder_count", len(folders),
		"file_count", len(items),
		"unplaced_count", len(unplaced),
	)

	return &models.BatchTree{
		CourseID:  NormalizeID(courseID),
		BatchID:   NormalizeID(batchID),
		Folders:   forest.Roots,
		RootFiles: rootFiles,
		Unplaced:  unplaced,
	}, nil
}

func (s *queryService) GetFile(ctx context.Context, id string) (*models.ContentItem, error) {
	if err := s.authorizer.CanRead(ctx); err != nil {
		return nil, err
	}
	rec, err := s.store.Get(ctx, s.collections.Items, id)
	if err != nil {
		return nil, err
	}
	item := s.normalizer.Item(rec)
	if item.ID == "" {
		item.ID = id
	}
	return &item, nil
}

func (s *queryService) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	if err := s.authorizer.CanRead(ctx); err != nil {
		return nil, err
	}
	rec, err := s.store.Get(ctx, s.collections.Folders, id)
	if err != nil {
		return nil, err
	}
	folder := s.normalizer.Folder(rec)
	if folder.ID == "" {
		folder.ID = id
	}
	return &folder, nil
}

// sortItems orders files oldest first, undated last, then by id.
func sortItems(items []models.ContentItem) {
	slices.SortStableFunc(items, func(a, b models.ContentItem) int {
		switch {
		case a.CreatedAt == nil && b.CreatedAt != nil:
			return 1
		case a.CreatedAt != nil && b.CreatedAt == nil:
			return -1
		case a.CreatedAt != nil && b.CreatedAt != nil:
			if c := a.CreatedAt.Compare(*b.CreatedAt); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
