package http

import (
	"net/http"

	"carrental-backend/internal/service"

	"github.com/gorilla/mux"
)

type GeocodeHandler struct {
	geocodeSvc service.GeocodeService
}

func NewGeocodeHandler(geocodeSvc service.GeocodeService) *GeocodeHandler {
	return &GeocodeHandler{geocodeSvc: geocodeSvc}
}

func (h *GeocodeHandler) Register(r *mux.Router) {
	r.HandleFunc("/geocode/reverse", h.Reverse).Methods(http.MethodGet)
}

// Reverse resolves ?lat=&lng= into a pickup address
func (h *GeocodeHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	lat, err := queryFloat(r, "lat")
	if err != nil {
		writeError(w, err)
		return
	}
	lng, err := queryFloat(r, "lng")
	if err != nil {
		writeError(w, err)
		return
	}

	addr, err := h.geocodeSvc.Reverse(r.Context(), lat, lng)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, addr)
}
