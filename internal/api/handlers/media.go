package handlers

import (
	"fmt"
	"net/http"

	"github.com/subtitle-studio/backend/internal/storage"
)

type MediaHandler struct {
	mediaPath   string
	maxUploadMB int64
}

func NewMediaHandler(mediaPath string, maxUploadMB int64) *MediaHandler {
	return &MediaHandler{mediaPath: mediaPath, maxUploadMB: maxUploadMB}
}

// GetTree lists the media directory at the requested path
func (h *MediaHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	path := extractPath(r)
	if path == "" {
		path = "."
	}

	entries, err := storage.ListDirectory(h.mediaPath, path)
	if err != nil {
		jsonError(w, "failed to list directory", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"path":    path,
		"entries": entries,
	}, http.StatusOK)
}

// Upload accepts a multipart media file and stores it in the media directory
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	name, err := storage.SaveUpload(h.mediaPath, header.Filename, file)
	if err != nil {
		jsonError(w, fmt.Sprintf("upload failed: %v", err), http.StatusBadRequest)
		return
	}

	jsonResponse(w, map[string]string{"path": name}, http.StatusCreated)
}

// Search finds media files by name substring
func (h *MediaHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		jsonError(w, "query parameter 'q' is required", http.StatusBadRequest)
		return
	}

	results, err := storage.Search(h.mediaPath, q, 50)
	if err != nil {
		jsonError(w, "search failed", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"query":   q,
		"results": results,
	}, http.StatusOK)
}
