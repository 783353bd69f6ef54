package http

import (
	"net/http"

	"carrental-backend/internal/service"

	"github.com/gorilla/mux"
)

type PictureHandler struct {
	pictureSvc service.PictureService
}

func NewPictureHandler(pictureSvc service.PictureService) *PictureHandler {
	return &PictureHandler{pictureSvc: pictureSvc}
}

func (h *PictureHandler) Register(r *mux.Router) {
	r.HandleFunc("/vehicles/{id}/pictures", h.GetUploadURL).Methods(http.MethodPost)
	r.HandleFunc("/vehicles/{id}/pictures/confirm", h.ConfirmUpload).Methods(http.MethodPost)
}

type uploadURLRequest struct {
	ContentType string `json:"content_type"`
}

type uploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
	ExpiresAt int64  `json:"expires_at"`
}

func (h *PictureHandler) GetUploadURL(w http.ResponseWriter, r *http.Request) {
	carID, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req uploadURLRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	uploadURL, key, expiresAt, err := h.pictureSvc.GetUploadURL(r.Context(), carID, req.ContentType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadURLResponse{UploadURL: uploadURL, Key: key, ExpiresAt: expiresAt})
}

type confirmUploadRequest struct {
	Key string `json:"key"`
}

func (h *PictureHandler) ConfirmUpload(w http.ResponseWriter, r *http.Request) {
	carID, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req confirmUploadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	car, err := h.pictureSvc.ConfirmUpload(r.Context(), carID, req.Key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}
