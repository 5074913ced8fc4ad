package handler

import (
	"log/slog"
	"net/http"

	contentSvc "lmscontent/internal/domain/services/content"
	"lmscontent/internal/httputil"
)

// TreeHandler handles HTTP requests for tree operations
type TreeHandler struct {
	queryService contentSvc.QueryService
	logger       *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(queryService contentSvc.QueryService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		queryService: queryService,
		logger:       logger,
	}
}

// GetTree returns the nested folder tree of a batch with files attached
// GET /api/courses/{courseId}/batches/{batchId}/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	courseID, ok := PathParam(w, r, "courseId", "Course ID")
	if !ok {
		return
	}
	batchID, ok := PathParam(w, r, "batchId", "Batch ID")
	if !ok {
		return
	}

	tree, err := h.queryService.GetTree(r.Context(), courseID, batchID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}
