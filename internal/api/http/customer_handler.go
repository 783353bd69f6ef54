package http

import (
	"net/http"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"

	"github.com/gorilla/mux"
)

type CustomerHandler struct {
	customerSvc service.CustomerService
}

func NewCustomerHandler(customerSvc service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerSvc: customerSvc}
}

func (h *CustomerHandler) Register(r *mux.Router) {
	r.HandleFunc("/customers/me", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/customers/me", h.Upsert).Methods(http.MethodPut)
	r.HandleFunc("/customers/me", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/customers/me/points", h.GetRewardPoints).Methods(http.MethodGet)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireCaller(w, r)
	if !ok {
		return
	}
	customer, err := h.customerSvc.Get(r.Context(), claims.UserID())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// Upsert creates the caller's profile or updates the supplied fields.
// The token email is used when the body omits one.
func (h *CustomerHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var update domain.CustomerUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeError(w, err)
		return
	}
	if update.Email == nil && claims.Email != "" {
		email := claims.Email
		update.Email = &email
	}

	customer, err := h.customerSvc.Upsert(r.Context(), claims.UserID(), update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireCaller(w, r)
	if !ok {
		return
	}
	if err := h.customerSvc.Delete(r.Context(), claims.UserID()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CustomerHandler) GetRewardPoints(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireCaller(w, r)
	if !ok {
		return
	}
	points, err := h.customerSvc.GetRewardPoints(r.Context(), claims.UserID())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"reward_points": points})
}
