package handler

import "net/http"

// Handlers groups the HTTP handlers registered on the mux.
type Handlers struct {
	Folder *FolderHandler
	File   *FileHandler
	Tree   *TreeHandler
}

// RegisterRoutes wires every content route onto mux (Go 1.22+ patterns).
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	// Health check
	mux.HandleFunc("GET /health", HealthCheck)

	// Folder routes
	mux.HandleFunc("GET /api/batches/{batchId}/folders", h.Folder.ListFolders)
	mux.HandleFunc("POST /api/batches/{batchId}/folders", h.Folder.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", h.Folder.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", h.Folder.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", h.Folder.DeleteFolder)

	// Batch views
	mux.HandleFunc("GET /api/courses/{courseId}/batches/{batchId}/tree", h.Tree.GetTree)
	mux.HandleFunc("GET /api/courses/{courseId}/batches/{batchId}/files", h.File.ListFiles)
	mux.HandleFunc("POST /api/courses/{courseId}/batches/{batchId}/files", h.File.UploadFile)

	// File routes
	mux.HandleFunc("GET /api/files/{id}", h.File.GetFile)
	mux.HandleFunc("PATCH /api/files/{id}", h.File.UpdateFile)
	mux.HandleFunc("DELETE /api/files/{id}", h.File.DeleteFile)
	mux.HandleFunc("GET /api/files/{id}/url", h.File.GetFileURL)
}
