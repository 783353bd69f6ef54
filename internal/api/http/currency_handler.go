package http

import (
	"net/http"
	"time"

	"carrental-backend/internal/currency"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/service"

	"github.com/gin-contrib/sse"
	"github.com/gorilla/mux"
)

// How often an idle event stream is sent a comment to keep proxies from closing it
const sseKeepAlive = 30 * time.Second

type CurrencyHandler struct {
	settings    *currency.Settings
	customerSvc service.CustomerService
}

func NewCurrencyHandler(settings *currency.Settings, customerSvc service.CustomerService) *CurrencyHandler {
	return &CurrencyHandler{settings: settings, customerSvc: customerSvc}
}

func (h *CurrencyHandler) Register(r *mux.Router) {
	r.HandleFunc("/settings/currency", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/settings/currency", h.Set).Methods(http.MethodPut)
	r.HandleFunc("/settings/currency/default", h.SetDefault).Methods(http.MethodPut)
	r.HandleFunc("/settings/currency/events", h.Events).Methods(http.MethodGet)
}

type currencyPayload struct {
	Currency string `json:"currency"`
}

type currencyView struct {
	Currency  string          `json:"currency"`
	Default   string          `json:"default"`
	Available []currency.Code `json:"available"`
}

func (h *CurrencyHandler) view(code currency.Code) currencyView {
	return currencyView{
		Currency:  string(code),
		Default:   string(h.settings.Current()),
		Available: h.settings.Available(),
	}
}

// Get returns the caller's display currency, or the default for anonymous callers
func (h *CurrencyHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := h.settings.Current()
	if userID, ok := UserIDFromContext(r.Context()); ok {
		preferred, err := h.customerSvc.CurrencyPreference(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		code = preferred
	}
	writeJSON(w, http.StatusOK, h.view(code))
}

// Set stores the caller's own display currency
func (h *CurrencyHandler) Set(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req currencyPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	code, err := currency.ParseCode(req.Currency)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.customerSvc.SetCurrencyPreference(r.Context(), claims.UserID(), code); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(code))
}

// SetDefault switches the currency shown to callers without a preference
func (h *CurrencyHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	var req currencyPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	code, err := currency.ParseCode(req.Currency)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.settings.Set(code); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(h.settings.Current()))
}

// Events streams the default currency as server-sent events, starting with the current value
func (h *CurrencyHandler) Events(w http.ResponseWriter, r *http.Request) {
	changes, cancel := h.settings.Subscribe()
	defer cancel()

	rc := http.NewResponseController(w)
	// the stream outlives the server write timeout
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", sse.ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(code currency.Code) bool {
		if err := sse.Encode(w, sse.Event{Event: "currency", Data: currencyPayload{Currency: string(code)}}); err != nil {
			return false
		}
		return rc.Flush() == nil
	}
	if !send(h.settings.Current()) {
		return
	}

	ticker := time.NewTicker(sseKeepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case code, ok := <-changes:
			if !ok || !send(code) {
				return
			}
		case <-ticker.C:
			if _, err := w.Write([]byte(": keep-alive\n\n")); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				logger.Debug("Currency stream closed", "error", err)
				return
			}
		}
	}
}
