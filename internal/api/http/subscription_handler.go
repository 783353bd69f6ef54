package http

import (
	"net/http"

	"carrental-backend/internal/service"

	"github.com/gorilla/mux"
)

type SubscriptionHandler struct {
	subscriptionSvc service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionSvc service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionSvc: subscriptionSvc}
}

func (h *SubscriptionHandler) Register(r *mux.Router) {
	r.HandleFunc("/subscriptions/plans", h.Plans).Methods(http.MethodGet)
	r.HandleFunc("/subscriptions", h.Subscribe).Methods(http.MethodPost)
}

func (h *SubscriptionHandler) Plans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"plans": h.subscriptionSvc.Plans()})
}

type subscribeRequest struct {
	PlanID string `json:"plan_id"`
}

func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req subscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.subscriptionSvc.Subscribe(r.Context(), claims.UserID(), claims.Email, req.PlanID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
