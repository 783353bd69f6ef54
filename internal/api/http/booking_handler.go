package http

import (
	"net/http"

	"carrental-backend/internal/service"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingSvc service.BookingService
}

func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

func (h *BookingHandler) Register(r *mux.Router) {
	r.HandleFunc("/quotes", h.Quote).Methods(http.MethodPost)
	r.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost)
	r.HandleFunc("/bookings", h.ListBookings).Methods(http.MethodGet)
	r.HandleFunc("/bookings/{id}/cancel", h.CancelBooking).Methods(http.MethodPost)
}

// Quote prices a prospective booking. Anonymous callers may quote.
func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req service.QuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.UserID, _ = UserIDFromContext(r.Context())

	quote, err := h.bookingSvc.Quote(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req service.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.UserID = claims.UserID()

	result, err := h.bookingSvc.CreateBooking(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireCaller(w, r)
	if !ok {
		return
	}
	bookings, err := h.bookingSvc.ListBookings(r.Context(), claims.UserID())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	booking, err := h.bookingSvc.CancelBooking(r.Context(), claims.UserID(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
