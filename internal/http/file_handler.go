package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"minilibrary/internal/book"
	"minilibrary/internal/httpx"
)

// FileHandler streams stored blobs (covers, PDFs) back to clients.
type FileHandler struct {
	blobs book.BlobStore
}

func NewFileHandler(blobs book.BlobStore) *FileHandler {
	return &FileHandler{blobs: blobs}
}

// Get handles GET /api/files/{id}
// @Summary Download a stored file
// @Tags files
// @Produce octet-stream
// @Param id path string true "File id (hex)"
// @Failure 400 {object} httpx.MessageResponse
// @Failure 404 {object} httpx.MessageResponse
// @Router /api/files/{id} [get]
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if book.ParseKey(id) != book.KeySurrogate {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid file id")
		return
	}

	blob, err := h.blobs.Open(r.Context(), id)
	if err != nil {
		if errors.Is(err, book.ErrBlobNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "File not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "Failed to open file")
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Type", blob.ContentType)
	if blob.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(blob.Size, 10))
	}
	// Past this point errors can only be logged; headers are already out.
	_, _ = io.Copy(w, blob)
}
