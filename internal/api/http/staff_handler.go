package http

import (
	"net/http"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"

	"github.com/gorilla/mux"
)

type StaffHandler struct {
	staffSvc service.StaffService
}

func NewStaffHandler(staffSvc service.StaffService) *StaffHandler {
	return &StaffHandler{staffSvc: staffSvc}
}

func (h *StaffHandler) Register(r *mux.Router) {
	r.HandleFunc("/staff/invitations", h.Invite).Methods(http.MethodPost)
	r.HandleFunc("/staff/signup", h.Signup).Methods(http.MethodPost)
}

type inviteRequest struct {
	Email string           `json:"email"`
	Name  string           `json:"name"`
	Role  domain.StaffRole `json:"role"`
}

func (h *StaffHandler) Invite(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req inviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	staff, err := h.staffSvc.Invite(r.Context(), claims.UserID(), req.Email, req.Name, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, staff)
}

type signupRequest struct {
	Token string `json:"token"`
}

// Signup links the caller's identity to the invitation in the token
func (h *StaffHandler) Signup(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Token == "" {
		req.Token = r.URL.Query().Get("token")
	}

	staff, err := h.staffSvc.Signup(r.Context(), req.Token, claims.UserID())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, staff)
}
