package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"lmscontent/internal/domain"
	models "lmscontent/internal/domain/models/content"
	contentSvc "lmscontent/internal/domain/services/content"
	"lmscontent/internal/httputil"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file.
const multipartMemory = 32 << 20

// FileHandler handles file HTTP requests
type FileHandler struct {
	queryService    contentSvc.QueryService
	mutationService contentSvc.MutationService
	maxUploadBytes  int64
	logger          *slog.Logger
}

// NewFileHandler creates a new file handler. maxUploadBytes <= 0 disables
// the request size cap.
func NewFileHandler(queryService contentSvc.QueryService, mutationService contentSvc.MutationService, maxUploadBytes int64, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		queryService:    queryService,
		mutationService: mutationService,
		maxUploadBytes:  maxUploadBytes,
		logger:          logger,
	}
}

// ListFiles returns the files at a coordinate, falling back to the whole
// batch when the folder scope is empty
// GET /api/courses/{courseId}/batches/{batchId}/files?folder=<id|root|any>
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	courseID, ok := PathParam(w, r, "courseId", "Course ID")
	if !ok {
		return
	}
	batchID, ok := PathParam(w, r, "batchId", "Batch ID")
	if !ok {
		return
	}
	scope := models.ParseScope(r.URL.Query().Get("folder"))

	result, err := h.queryService.FindFiles(r.Context(), courseID, batchID, scope)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// UploadFile stores a file and its metadata record
// POST /api/courses/{courseId}/batches/{batchId}/files (multipart: file, folderId, title, duration)
// Returns 201, or 207 when the object was stored but its record was not
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	courseID, ok := PathParam(w, r, "courseId", "Course ID")
	if !ok {
		return
	}
	batchID, ok := PathParam(w, r, "batchId", "Batch ID")
	if !ok {
		return
	}

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartMemory)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handleError(w, err)
			return
		}
		handleError(w, domain.NewValidation("invalid multipart form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	req := &contentSvc.UploadFileRequest{
		CourseID:    courseID,
		BatchID:     batchID,
		FolderID:    strings.TrimSpace(r.FormValue("folderId")),
		FileName:    header.Filename,
		Title:       strings.TrimSpace(r.FormValue("title")),
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	if d := strings.TrimSpace(r.FormValue("duration")); d != "" {
		v, err := strconv.ParseFloat(d, 64)
		if err != nil || v < 0 {
			httputil.RespondError(w, http.StatusBadRequest, "duration must be a non-negative number of seconds")
			return
		}
		req.DurationSeconds = &v
	}

	result, err := h.mutationService.UploadFile(r.Context(), req)
	if err != nil {
		if respondPartial(w, result, err) {
			h.logger.Warn("upload stored object without metadata",
				"user_id", httputil.GetUserID(r),
				"location", result.StorageLocation,
				"error", err,
			)
			return
		}
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

// GetFile retrieves one file record
// GET /api/files/{id}
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	item, err := h.queryService.GetFile(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// renameFileRequest is the PATCH body for a file.
type renameFileRequest struct {
	Name string `json:"name"`
}

// UpdateFile renames a file
// PATCH /api/files/{id}
func (h *FileHandler) UpdateFile(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	var req renameFileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.mutationService.RenameFile(r.Context(), id, req.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// DeleteFile deletes the stored object and the metadata record
// DELETE /api/files/{id}
// Returns 204, or 207 when only one phase succeeded
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	report, err := h.mutationService.DeleteFile(r.Context(), id)
	if err != nil {
		if respondPartial(w, report, err) {
			return
		}
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetFileURL resolves a download URL for a file
// GET /api/files/{id}/url
func (h *FileHandler) GetFileURL(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	item, err := h.queryService.GetFile(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	url, err := h.mutationService.ResolveURL(r.Context(), *item)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"url": url})
}
