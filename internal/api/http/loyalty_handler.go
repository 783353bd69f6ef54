package http

import (
	"net/http"

	"carrental-backend/internal/service"

	"github.com/gorilla/mux"
)

type LoyaltyHandler struct {
	loyaltySvc service.LoyaltyService
}

func NewLoyaltyHandler(loyaltySvc service.LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{loyaltySvc: loyaltySvc}
}

func (h *LoyaltyHandler) Register(r *mux.Router) {
	r.HandleFunc("/loyalty/benefits", h.ListBenefits).Methods(http.MethodGet)
	r.HandleFunc("/loyalty/benefits/{id}/claim", h.Claim).Methods(http.MethodPost)
	r.HandleFunc("/loyalty/benefits/{id}", h.Deactivate).Methods(http.MethodDelete)
}

func (h *LoyaltyHandler) ListBenefits(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireCaller(w, r)
	if !ok {
		return
	}
	benefits, err := h.loyaltySvc.ListBenefits(r.Context(), claims.UserID())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"benefits": benefits})
}

func (h *LoyaltyHandler) Claim(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	redeemed, err := h.loyaltySvc.Claim(r.Context(), claims.UserID(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, redeemed)
}

func (h *LoyaltyHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.loyaltySvc.Deactivate(r.Context(), claims.UserID(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
