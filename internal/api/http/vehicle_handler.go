package http

import (
	"net/http"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"

	"github.com/gorilla/mux"
)

type VehicleHandler struct {
	vehicleSvc service.VehicleService
}

func NewVehicleHandler(vehicleSvc service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleSvc: vehicleSvc}
}

// Register must run before any other /vehicles/{...} route so "premium" is not read as a registration
func (h *VehicleHandler) Register(r *mux.Router) {
	r.HandleFunc("/vehicles", h.Search).Methods(http.MethodGet)
	r.HandleFunc("/vehicles/premium", h.ListPremium).Methods(http.MethodGet)
	r.HandleFunc("/vehicles/{registration}", h.Get).Methods(http.MethodGet)
}

func (h *VehicleHandler) Search(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCarFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	cars, err := h.vehicleSvc.Search(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicles": cars})
}

func (h *VehicleHandler) ListPremium(w http.ResponseWriter, r *http.Request) {
	cars, err := h.vehicleSvc.ListPremium(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicles": cars})
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	car, err := h.vehicleSvc.Get(r.Context(), mux.Vars(r)["registration"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func parseCarFilter(r *http.Request) (domain.CarFilter, error) {
	q := r.URL.Query()
	filter := domain.CarFilter{
		Maker:        q.Get("maker"),
		Model:        q.Get("model"),
		EngineType:   q.Get("engine_type"),
		FuelType:     q.Get("fuel_type"),
		Transmission: q.Get("transmission"),
		Drive:        q.Get("drive"),
		Category:     q.Get("category"),
	}

	var err error
	if filter.Year, err = queryInt(r, "year"); err != nil {
		return filter, err
	}
	if filter.Doors, err = queryInt(r, "doors"); err != nil {
		return filter, err
	}
	if filter.GoldenOnly, err = queryBool(r, "golden_only"); err != nil {
		return filter, err
	}
	if filter.PromotionsOnly, err = queryBool(r, "promotions_only"); err != nil {
		return filter, err
	}
	return filter, nil
}
