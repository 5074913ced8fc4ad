package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"lmscontent/internal/config"
	"lmscontent/internal/domain"
	models "lmscontent/internal/domain/models/content"
	contentRepo "lmscontent/internal/domain/repositories/content"
	"lmscontent/internal/domain/services"
	contentSvc "lmscontent/internal/domain/services/content"
)

// DeletePolicy decides what happens to the contents of a deleted folder.
type DeletePolicy string

const (
	// DeleteReparent moves direct child folders and files to the deleted
	// folder's parent.
	DeleteReparent DeletePolicy = "reparent"
	// DeleteOrphan leaves children pointing at the removed id. Orphaned
	// folders surface as roots and orphaned files as unplaced.
	DeleteOrphan DeletePolicy = "orphan"
	// DeleteCascade removes every descendant folder and file.
	DeleteCascade DeletePolicy = "cascade"
)

// ParseDeletePolicy validates a configured policy name.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch p := DeletePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case DeleteReparent, DeleteOrphan, DeleteCascade:
		return p, nil
	case "":
		return DeleteReparent, nil
	default:
		return "", fmt.Errorf("unknown folder delete policy %q", s)
	}
}

// MutationOptions tunes the mutation service.
type MutationOptions struct {
	DeletePolicy   DeletePolicy
	MaxUploadBytes int64
	URLCacheSize   int
	// URLCacheTTL must stay below the object store's URL expiry.
	URLCacheTTL time.Duration
}

// sniffLen is how much of an upload is read to detect its content type.
const sniffLen = 3072

var noSlash = regexp.MustCompile(`^[^/]+$`)

type mutationService struct {
	store       contentRepo.RecordStore
	objects     contentRepo.ObjectStore
	query       contentSvc.QueryService
	collections models.Collections
	normalizer  *Normalizer
	authorizer  services.ResourceAuthorizer
	opts        MutationOptions
	urls        *expirable.LRU[string, string]
	now         func() time.Time
	logger      *slog.Logger
}

// NewMutationService creates the mutation service. Reads after each write go
// through query so callers always see a rebuilt view.
func NewMutationService(
	store contentRepo.RecordStore,
	objects contentRepo.ObjectStore,
	query contentSvc.QueryService,
	collections models.Collections,
	normalizer *Normalizer,
	authorizer services.ResourceAuthorizer,
	opts MutationOptions,
	logger *slog.Logger,
) contentSvc.MutationService {
	if opts.DeletePolicy == "" {
		opts.DeletePolicy = DeleteReparent
	}
	if opts.URLCacheSize <= 0 {
		opts.URLCacheSize = 1024
	}
	if opts.URLCacheTTL <= 0 {
		opts.URLCacheTTL = 45 * time.Minute
	}
	return &mutationService{
		store:       store,
		objects:     objects,
		query:       query,
		collections: collections,
		normalizer:  normalizer,
		authorizer:  authorizer,
		opts:        opts,
		urls:        expirable.NewLRU[string, string](opts.URLCacheSize, nil, opts.URLCacheTTL),
		now:         time.Now,
		logger:      logger,
	}
}

// CreateFolder validates the request, resolves the parent inside the batch
// and inserts the folder. A parent outside the batch is NotFound, which is
// what keeps creation from ever forming a cycle.
func (s *mutationService) CreateFolder(ctx context.Context, req *contentSvc.CreateFolderRequest) (*contentSvc.FolderMutation, error) {
	if err := s.authorizer.CanMutate(ctx); err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.BatchID = NormalizeID(req.BatchID)
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folders, err := s.query.ListFolders(ctx, req.BatchID)
	if err != nil {
		return nil, err
	}
	forest := BuildTree(folders)

	var parentID any
	if pid := ResolveParent(req.ParentID); pid != "" {
		parent, ok := forest.Find(pid)
		if !ok {
			return nil, domain.NewNotFound("parent folder", pid)
		}
		if len(forest.Ancestors(parent.ID))+1 >= config.MaxFolderDepth {
			return nil, domain.NewValidation("folder nesting exceeds %d levels", config.MaxFolderDepth)
		}
		parentID = parent.ID
		req.ParentID = parent.ID
	} else {
		req.ParentID = ""
	}

	if err := checkSiblingName(forest, req.ParentID, "", req.Name); err != nil {
		return nil, err
	}

	id, err := s.store.Insert(ctx, s.collections.Folders, models.Record{
		models.FieldID:        uuid.NewString(),
		models.FieldName:      req.Name,
		models.FieldBatchID:   req.BatchID,
		models.FieldParentID:  parentID,
		models.FieldCreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert folder: %w", err)
	}

	s.logger.Info("folder created",
		"id", id,
		"name", req.Name,
		"batch_id", req.BatchID,
		"parent_id", req.ParentID,
	)

	return s.refetchFolders(ctx, req.BatchID, id)
}

func (s *mutationService) RenameFolder(ctx context.Context, id, name string) (*contentSvc.FolderMutation, error) {
	return s.UpdateFolder(ctx, id, &contentSvc.UpdateFolderRequest{Name: &name})
}

func (s *mutationService) MoveFolder(ctx context.Context, id, parentID string) (*contentSvc.FolderMutation, error) {
	req := &contentSvc.UpdateFolderRequest{}
	req.ParentID.Present = true
	if pid := ResolveParent(parentID); pid != "" {
		req.ParentID.Value = &pid
	}
	return s.UpdateFolder(ctx, id, req)
}

// UpdateFolder renames and/or moves a folder. Only fields present in the
// request change.
func (s *mutationService) UpdateFolder(ctx context.Context, id string, req *contentSvc.UpdateFolderRequest) (*contentSvc.FolderMutation, error) {
	if err := s.authorizer.CanMutate(ctx); err != nil {
		return nil, err
	}

	if req.Name == nil && !req.ParentID.Present {
		return nil, domain.NewValidation("at least one of name or parentId must be provided")
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateName(name, config.MaxFolderNameLength, "folder"); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		req.Name = &name
	}

	rec, err := s.store.Get(ctx, s.collections.Folders, id)
	if err != nil {
		return nil, err
	}
	folder := s.normalizer.Folder(rec)
	if folder.ID == "" {
		folder.ID = id
	}

	folders, err := s.query.ListFolders(ctx, folder.BatchID)
	if err != nil {
		return nil, err
	}
	forest := BuildTree(folders)

	patch := models.Record{}
	name := folder.Name
	parent := folder.ParentID
	if req.Name != nil {
		name = *req.Name
		patch[models.FieldName] = name
	}

	// Tri-state: only move if parentId was present
	if req.ParentID.Present {
		target := ""
		if req.ParentID.Value != nil {
			target = ResolveParent(*req.ParentID.Value)
		}
		if target == "" {
			patch[models.FieldParentID] = nil
			parent = ""
			s.logger.Debug("moving folder to root", "folder_id", id)
		} else {
			node, ok := forest.Find(target)
			if !ok {
				return nil, domain.NewNotFound("parent folder", target)
			}
			if err := validateNoCircularReference(forest, folder.ID, node.ID); err != nil {
				return nil, err
			}
			patch[models.FieldParentID] = node.ID
			parent = node.ID
			s.logger.Debug("moving folder to new parent",
				"folder_id", id,
				"new_parent_id", node.ID,
			)
		}
	}

	if err := checkSiblingName(forest, parent, folder.ID, name); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, s.collections.Folders, id, patch); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", id,
		"name", name,
		"parent_id", parent,
		"batch_id", folder.BatchID,
	)

	return s.refetchFolders(ctx, folder.BatchID, folder.ID)
}

// validateNoCircularReference rejects moving a folder under itself or any of
// its descendants.
func validateNoCircularReference(forest *Forest, folderID, newParentID string) error {
	if SameID(folderID, newParentID) {
		return domain.NewValidation("cannot move folder into itself")
	}
	if forest.IsDescendant(folderID, newParentID) {
		return domain.NewValidation("cannot move folder into its own descendant")
	}
	if len(forest.Ancestors(newParentID))+1 >= config.MaxFolderDepth {
		return domain.NewValidation("folder nesting exceeds %d levels", config.MaxFolderDepth)
	}
	return nil
}

func checkSiblingName(forest *Forest, parentID, selfID, name string) error {
	siblings := forest.Roots
	if parentID != "" {
		node, ok := forest.Find(parentID)
		if !ok {
			return nil
		}
		siblings = node.Children
	}
	for _, sib := range siblings {
		if sib.ID != selfID && strings.EqualFold(sib.Name, name) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists in this location", name),
				ResourceType: "folder",
				ResourceID:   sib.ID,
			}
		}
	}
	return nil
}

// DeleteFolder removes the folder record after applying the delete policy
// to its contents. Failures on individual children are collected and
// reported as a partial failure; the folder itself is still removed.
func (s *mutationService) DeleteFolder(ctx context.Context, id string) (*contentSvc.FolderMutation, error) {
	if err := s.authorizer.CanMutate(ctx); err != nil {
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

	folders, err := s.query.ListFolders(ctx, folder.BatchID)
	if err != nil {
		return nil, err
	}
	forest := BuildTree(folders)

	var failed []string
	switch s.opts.DeletePolicy {
	case DeleteReparent:
		failed, err = s.reparentContents(ctx, forest, folder)
	case DeleteCascade:
		failed, err = s.cascadeContents(ctx, forest, folder)
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, s.collections.Folders, id); err != nil {
		return nil, err
	}

	s.logger.Info("folder deleted",
		"id", id,
		"name", folder.Name,
		"batch_id", folder.BatchID,
		"policy", string(s.opts.DeletePolicy),
		"failed_children", len(failed),
	)

	result, err := s.refetchFolders(ctx, folder.BatchID, "")
	if err != nil {
		return nil, err
	}
	if len(failed) > 0 {
		result.Warnings = failed
		return result, &domain.PartialFailureError{
			Operation: "delete folder",
			Completed: []string{"folder record"},
			Failed:    failed,
			Err:       fmt.Errorf("%d child operations failed", len(failed)),
		}
	}
	return result, nil
}

// batchItems returns the batch's files whose folder matches one of ids.
func (s *mutationService) batchItems(ctx context.Context, batchID string, ids ...string) ([]models.ContentItem, error) {
	recs, err := s.store.QueryAll(ctx, s.collections.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	var out []models.ContentItem
	for _, item := range s.normalizer.Items(recs) {
		if item.BatchID != batchID || item.FolderID == "" {
			continue
		}
		for _, id := range ids {
			if SameID(item.FolderID, id) {
				out = append(out, item)
				break
			}
		}
	}
	return out, nil
}

func (s *mutationService) reparentContents(ctx context.Context, forest *Forest, folder models.Folder) ([]string, error) {
	var newParent any
	if folder.ParentID != "" {
		newParent = folder.ParentID
	}

	var failed []string
	if node, ok := forest.Find(folder.ID); ok {
		for _, child := range node.Children {
			err := s.store.Update(ctx, s.collections.Folders, child.ID, models.Record{models.FieldParentID: newParent})
			if err != nil {
				s.logger.Warn("failed to reparent folder", "folder_id", child.ID, "error", err)
				failed = append(failed, fmt.Sprintf("reparent folder %s: %v", child.ID, err))
			}
		}
	}

	items, err := s.batchItems(ctx, folder.BatchID, folder.ID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		err := s.store.Update(ctx, s.collections.Items, item.ID, models.Record{models.FieldFolderID: newParent})
		if err != nil {
			s.logger.Warn("failed to reparent file", "file_id", item.ID, "error", err)
			failed = append(failed, fmt.Sprintf("reparent file %s: %v", item.ID, err))
		}
	}
	return failed, nil
}

func (s *mutationService) cascadeContents(ctx context.Context, forest *Forest, folder models.Folder) ([]string, error) {
	subtree := forest.Subtree(folder.ID)
	ids := make([]string, 0, len(subtree)+1)
	ids = append(ids, folder.ID)
	for _, n := range subtree {
		if n.ID != folder.ID {
			ids = append(ids, n.ID)
		}
	}

	items, err := s.batchItems(ctx, folder.BatchID, ids...)
	if err != nil {
		return nil, err
	}

	var failed []string
	for _, item := range items {
		if _, err := s.deleteItem(ctx, item); err != nil {
			failed = append(failed, fmt.Sprintf("delete file %s: %v", item.ID, err))
		}
	}

	// Deepest folders first
	for i := len(ids) - 1; i >= 1; i-- {
		if err := s.store.Delete(ctx, s.collections.Folders, ids[i]); err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("failed to delete child folder", "folder_id", ids[i], "error", err)
			failed = append(failed, fmt.Sprintf("delete folder %s: %v", ids[i], err))
			continue
		}
		s.logger.Debug("deleted child folder", "id", ids[i])
	}
	return failed, nil
}

func (s *mutationService) refetchFolders(ctx context.Context, batchID, focusID string) (*contentSvc.FolderMutation, error) {
	folders, err := s.query.ListFolders(ctx, batchID)
	if err != nil {
		return nil, err
	}
	forest := BuildTree(folders)

	result := &contentSvc.FolderMutation{
		Folders: folders,
		Tree:    forest.Roots,
	}
	if focusID != "" {
		for i := range folders {
			if SameID(folders[i].ID, focusID) {
				result.Folder = &folders[i]
				break
			}
		}
	}
	return result, nil
}

// UploadFile stores the binary and then its metadata record. The object is
// never removed if the metadata write fails.
func (s *mutationService) UploadFile(ctx context.Context, req *contentSvc.UploadFileRequest) (*contentSvc.FileMutation, error) {
	if err := s.authorizer.CanMutate(ctx); err != nil {
		return nil, err
	}

	req.CourseID = NormalizeID(req.CourseID)
	req.BatchID = NormalizeID(req.BatchID)
	req.FileName = sanitizeFileName(req.FileName)
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validateUploadRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folderID := ResolveParent(req.FolderID)
	if folderID != "" {
		folders, err := s.query.ListFolders(ctx, req.BatchID)
		if err != nil {
			return nil, err
		}
		node, ok := BuildTree(folders).Find(folderID)
		if !ok {
			return nil, domain.NewNotFound("folder", folderID)
		}
		folderID = node.ID
	}

	body, contentType, err := sniffContentType(req.Body, req.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	now := s.now().UTC()
	objectPath := fmt.Sprintf("courses/%s/batches/%s/%d_%s", req.CourseID, req.BatchID, now.UnixMilli(), req.FileName)

	// Phase 1: binary
	stored, err := s.objects.Put(ctx, objectPath, body, req.Size, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}
	s.logger.Info("file object stored",
		"location", stored.Location,
		"content_type", contentType,
		"size", req.Size,
	)

	// Phase 2: metadata
	var folderRef any
	if folderID != "" {
		folderRef = folderID
	}
	rec := models.Record{
		models.FieldID:          uuid.NewString(),
		models.FieldCourseID:    req.CourseID,
		models.FieldBatchID:     req.BatchID,
		models.FieldFolderID:    folderRef,
		models.FieldFileName:    req.FileName,
		models.FieldFileType:    contentType,
		models.FieldStoragePath: stored.Location,
		models.FieldDownloadURL: stored.URL,
		models.FieldCreatedAt:   now,
	}
	if req.Title != "" {
		rec[models.FieldTitle] = req.Title
	}
	if req.Size >= 0 {
		rec[models.FieldSize] = req.Size
	}
	if req.DurationSeconds != nil && *req.DurationSeconds > 0 {
		rec[models.FieldDuration] = *req.DurationSeconds
	}

	id, err := s.store.Insert(ctx, s.collections.Items, rec)
	if err != nil {
		s.logger.Warn("file metadata write failed after object upload",
			"location", stored.Location,
			"error", err,
		)
		warning := fmt.Sprintf("file stored at %s but its metadata could not be saved", stored.Location)
		result := &contentSvc.FileMutation{
			StorageLocation: stored.Location,
			Warnings:        []string{warning},
		}
		return result, &domain.PartialFailureError{
			Operation: "upload",
			Completed: []string{"object"},
			Failed:    []string{"metadata"},
			Err:       err,
		}
	}
	rec[models.FieldID] = id

	item := s.normalizer.Item(rec)
	s.logger.Info("file uploaded",
		"id", id,
		"course_id", req.CourseID,
		"batch_id", req.BatchID,
		"folder_id", folderID,
		"media_type", string(item.MediaType),
	)

	result := &contentSvc.FileMutation{Item: &item, StorageLocation: stored.Location}
	s.refetchListing(ctx, result, item)
	return result, nil
}

// refetchListing attaches the item's folder listing. A failed re-fetch is a
// warning; the write already happened.
func (s *mutationService) refetchListing(ctx context.Context, result *contentSvc.FileMutation, item models.ContentItem) {
	listing, err := s.query.FindFiles(ctx, item.CourseID, item.BatchID, models.In(item.FolderID))
	if err != nil {
		s.logger.Warn("failed to re-fetch listing", "file_id", item.ID, "error", err)
		result.Warnings = append(result.Warnings, "listing could not be refreshed")
		return
	}
	result.Listing = listing
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// sniffContentType detects the type from the first bytes when the caller
// did not declare a specific one. The returned reader replays those bytes.
func sniffContentType(body io.Reader, declared string) (io.Reader, string, error) {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return body, declared, nil
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", err
	}
	head = head[:n]
	return io.MultiReader(bytes.NewReader(head), body), mimetype.Detect(head).String(), nil
}

// RenameFile changes the title only. Storage location and URL are untouched.
func (s *mutationService) RenameFile(ctx context.Context, id, name string) (*contentSvc.FileMutation, error) {
	if err := s.authorizer.CanMutate(ctx); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if err := validateName(name, config.MaxFileNameLength, "file"); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.store.Update(ctx, s.collections.Items, id, models.Record{models.FieldTitle: name}); err != nil {
		return nil, err
	}

	item, err := s.query.GetFile(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("file renamed", "id", id, "name", name)

	result := &contentSvc.FileMutation{Item: item, StorageLocation: item.StorageLocation}
	s.refetchListing(ctx, result, *item)
	return result, nil
}

func (s *mutationService) DeleteFile(ctx context.Context, id string) (*contentSvc.DeleteReport, error) {
	if err := s.authorizer.CanMutate(ctx); err != nil {
		return nil, err
	}
	item, err := s.query.GetFile(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.deleteItem(ctx, *item)
}

func (s *mutationService) DeleteItem(ctx context.Context, item models.ContentItem) (*contentSvc.DeleteReport, error) {
	if err := s.authorizer.CanMutate(ctx); err != nil {
		return nil, err
	}
	return s.deleteItem(ctx, item)
}

// deleteItem runs both phases regardless of each other's outcome. A missing
// object counts as deleted.
func (s *mutationService) deleteItem(ctx context.Context, item models.ContentItem) (*contentSvc.DeleteReport, error) {
	report := &contentSvc.DeleteReport{
		ItemID:          item.ID,
		StorageLocation: item.StorageLocation,
	}
	if item.StorageLocation == "" && item.ID == "" {
		return report, domain.NewValidation("file has neither a storage location nor an id")
	}

	// Phase 1: binary
	if item.StorageLocation != "" {
		report.ObjectAttempted = true
		err := s.objects.Delete(ctx, item.StorageLocation)
		switch {
		case err == nil:
			report.ObjectDeleted = true
		case errors.Is(err, domain.ErrNotFound):
			report.ObjectDeleted = true
			report.Warnings = append(report.Warnings, "stored object was already gone")
		default:
			report.ObjectErr = err
			report.Warnings = append(report.Warnings, fmt.Sprintf("stored object not deleted: %v", err))
			s.logger.Warn("failed to delete file object", "location", item.StorageLocation, "error", err)
		}
		s.urls.Remove(item.StorageLocation)
	}

	// Phase 2: metadata
	if item.ID != "" {
		report.RecordAttempted = true
		if err := s.store.Delete(ctx, s.collections.Items, item.ID); err != nil {
			report.RecordErr = err
			report.Warnings = append(report.Warnings, fmt.Sprintf("metadata record not deleted: %v", err))
			s.logger.Warn("failed to delete file record", "id", item.ID, "error", err)
		} else {
			report.RecordDeleted = true
		}
	}

	s.logger.Info("file deleted",
		"id", item.ID,
		"location", item.StorageLocation,
		"object_deleted", report.ObjectDeleted,
		"record_deleted", report.RecordDeleted,
	)

	switch {
	case report.ObjectErr != nil && report.RecordErr != nil:
		return report, fmt.Errorf("failed to delete file: %w", errors.Join(report.ObjectErr, report.RecordErr))
	case report.ObjectErr != nil:
		return report, &domain.PartialFailureError{
			Operation: "delete file",
			Completed: completedPhases(report),
			Failed:    []string{"object"},
			Err:       report.ObjectErr,
		}
	case report.RecordErr != nil:
		if !report.ObjectAttempted && errors.Is(report.RecordErr, domain.ErrNotFound) {
			return report, report.RecordErr
		}
		return report, &domain.PartialFailureError{
			Operation: "delete file",
			Completed: completedPhases(report),
			Failed:    []string{"metadata"},
			Err:       report.RecordErr,
		}
	}
	return report, nil
}

func completedPhases(r *contentSvc.DeleteReport) []string {
	var done []string
	if r.ObjectDeleted {
		done = append(done, "object")
	}
	if r.RecordDeleted {
		done = append(done, "metadata")
	}
	return done
}

// ResolveURL returns the stored download URL or issues one for the storage
// location. Issued URLs are cached for less than their lifetime.
func (s *mutationService) ResolveURL(ctx context.Context, item models.ContentItem) (string, error) {
	if err := s.authorizer.CanRead(ctx); err != nil {
		return "", err
	}
	if item.RetrievalURL != "" {
		return item.RetrievalURL, nil
	}
	if item.StorageLocation == "" {
		return "", domain.NewNotFound("storage location for file", item.ID)
	}
	// older uploads recorded the hosted download URL as the location
	if strings.Contains(item.StorageLocation, "://") {
		return item.StorageLocation, nil
	}
	if u, ok := s.urls.Get(item.StorageLocation); ok {
		return u, nil
	}
	u, err := s.objects.RetrievalURL(ctx, item.StorageLocation)
	if err != nil {
		return "", fmt.Errorf("failed to resolve download url: %w", err)
	}
	s.urls.Add(item.StorageLocation, u)
	return u, nil
}

func validateName(name string, maxLen int, kind string) error {
	return validation.Validate(name,
		validation.Required.Error(kind+" name is required"),
		validation.Length(1, maxLen),
		validation.Match(noSlash).Error(kind+" name cannot contain slashes"),
	)
}

// validateCreateRequest validates a folder creation request
func (s *mutationService) validateCreateRequest(req *contentSvc.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.BatchID, validation.Required),
		validation.Field(&req.Name,
			validation.Required.Error("folder name is required"),
			validation.Length(1, config.MaxFolderNameLength),
			validation.Match(noSlash).Error("folder name cannot contain slashes"),
		),
	)
}

// validateUploadRequest validates a file upload request
func (s *mutationService) validateUploadRequest(req *contentSvc.UploadFileRequest) error {
	var sizeRules []validation.Rule
	if s.opts.MaxUploadBytes > 0 {
		sizeRules = append(sizeRules, validation.Max(s.opts.MaxUploadBytes).Error("file exceeds the upload size limit"))
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.CourseID, validation.Required),
		validation.Field(&req.BatchID, validation.Required),
		validation.Field(&req.FileName,
			validation.Required.Error("file name is required"),
			validation.Length(1, config.MaxFileNameLength),
		),
		validation.Field(&req.Title, validation.Length(0, config.MaxFileNameLength)),
		validation.Field(&req.Body, validation.NotNil.Error("file body is required")),
		validation.Field(&req.Size, sizeRules...),
	)
}
