package http

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"carrental-backend/internal/logger"
	"carrental-backend/internal/storage"

	"github.com/gorilla/mux"
)

// ImageUploadHandler serves the presigned upload and download URLs of local storage
type ImageUploadHandler struct {
	store storage.StorageInterface
	cfg   storage.Config
}

func NewImageUploadHandler(store storage.StorageInterface, cfg storage.Config) *ImageUploadHandler {
	return &ImageUploadHandler{store: store, cfg: cfg}
}

func (h *ImageUploadHandler) Register(r *mux.Router) {
	r.HandleFunc("/uploads/{token}", h.HandleUpload).Methods(http.MethodPut)
	r.HandleFunc("/downloads/{key}", h.HandleDownload).Methods(http.MethodGet)
}

// HandleUpload accepts the file body for a previously issued upload token
func (h *ImageUploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeErrorMessage(w, http.StatusBadRequest, "missing key parameter")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !h.cfg.Allowed(contentType) {
		writeErrorMessage(w, http.StatusUnsupportedMediaType, "content type not allowed")
		return
	}
	if h.cfg.MaxFileSize > 0 && r.ContentLength > h.cfg.MaxFileSize {
		writeErrorMessage(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	if err := h.store.ConsumeUploadToken(mux.Vars(r)["token"], key); err != nil {
		writeError(w, err)
		return
	}

	body := io.Reader(r.Body)
	if h.cfg.MaxFileSize > 0 {
		// one extra byte lets the picture service spot an oversize upload on confirm
		body = io.LimitReader(r.Body, h.cfg.MaxFileSize+1)
	}
	if err := h.store.SaveFile(key, body); err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			writeError(w, err)
			return
		}
		logger.Error("Failed to save upload", "key", key, "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, "failed to save file")
		return
	}

	// mimic an object store response
	w.Header().Set("ETag", `"mock-etag-success"`)
	w.WriteHeader(http.StatusOK)
}

func (h *ImageUploadHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeErrorMessage(w, http.StatusBadRequest, "missing key parameter")
		return
	}

	file, err := h.store.ReadFile(key)
	if err != nil {
		writeErrorMessage(w, http.StatusNotFound, "file not found")
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", contentTypeFor(key))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, file); err != nil {
		logger.Warn("Download interrupted", "key", key, "error", err)
	}
}

func contentTypeFor(key string) string {
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	return "application/octet-stream"
}
