package http

import (
	"net/http"

	"carrental-backend/internal/service"

	"github.com/gorilla/mux"
)

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func (h *NotificationHandler) Register(r *mux.Router) {
	r.HandleFunc("/notifications", h.GetNotifications).Methods(http.MethodGet)
}

func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireCaller(w, r)
	if !ok {
		return
	}
	page, err := queryInt(r, "page")
	if err != nil {
		writeError(w, err)
		return
	}
	pageSize, err := queryInt(r, "page_size")
	if err != nil {
		writeError(w, err)
		return
	}

	notes, count, err := h.noteSvc.GetNotifications(r.Context(), claims.UserID(), int32(page), int32(pageSize))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notes,
		"total_count":   count,
	})
}
