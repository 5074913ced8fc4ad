package handler

import (
	"log/slog"
	"net/http"

	models "lmscontent/internal/domain/models/content"
	contentSvc "lmscontent/internal/domain/services/content"
	"lmscontent/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	queryService    contentSvc.QueryService
	mutationService contentSvc.MutationService
	logger          *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(queryService contentSvc.QueryService, mutationService contentSvc.MutationService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		queryService:    queryService,
		mutationService: mutationService,
		logger:          logger,
	}
}

// ListFolders returns every folder of a batch as a flat list
// GET /api/batches/{batchId}/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	batchID, ok := PathParam(w, r, "batchId", "Batch ID")
	if !ok {
		return
	}

	folders, err := h.queryService.ListFolders(r.Context(), batchID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folders)
}

// CreateFolder creates a new folder
// POST /api/batches/{batchId}/folders
// Returns 201 if created, 409 with existing folder if a sibling has the same name
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	batchID, ok := PathParam(w, r, "batchId", "Batch ID")
	if !ok {
		return
	}

	var req contentSvc.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.BatchID = batchID

	result, err := h.mutationService.CreateFolder(r.Context(), &req)
	if err != nil {
		HandleCreateConflict(w, err, func(id string) (*models.Folder, error) {
			return h.queryService.GetFolder(r.Context(), id)
		})
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

// GetFolder retrieves a folder by ID
// GET /api/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Folder ID")
	if !ok {
		return
	}

	folder, err := h.queryService.GetFolder(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// UpdateFolder renames and/or moves a folder
// PATCH /api/folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Folder ID")
	if !ok {
		return
	}

	var req contentSvc.UpdateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.mutationService.UpdateFolder(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// DeleteFolder deletes a folder and applies the configured policy to its contents
// DELETE /api/folders/{id}
// Returns 200 with the rebuilt tree, or 207 when some children could not be handled
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Folder ID")
	if !ok {
		return
	}

	result, err := h.mutationService.DeleteFolder(r.Context(), id)
	if err != nil {
		if respondPartial(w, result, err) {
			h.logger.Warn("folder delete partially failed",
				"user_id", httputil.GetUserID(r),
				"id", id,
				"error", err,
			)
			return
		}
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
