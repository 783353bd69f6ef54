package http

import (
	"context"
	"net/http"
	"time"

	"carrental-backend/internal/security"

	"github.com/gorilla/mux"
)

// RouteRegistrar is implemented by every handler group
type RouteRegistrar interface {
	Register(r *mux.Router)
}

// RouterConfig bundles what the HTTP API serves. Nil handlers are skipped.
type RouterConfig struct {
	TokenManager security.TokenManager
	Health       func(ctx context.Context) error

	Vehicles      *VehicleHandler
	Pictures      *PictureHandler
	Bookings      *BookingHandler
	Loyalty       *LoyaltyHandler
	Customers     *CustomerHandler
	Subscriptions *SubscriptionHandler
	Webhooks      *WebhookHandler
	Staff         *StaffHandler
	Geocode       *GeocodeHandler
	Currency      *CurrencyHandler
	Notifications *NotificationHandler
	Uploads       *ImageUploadHandler
}

// NewRouter builds the /api/v1 router with logging and auth middleware
func NewRouter(cfg RouterConfig) *mux.Router {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware)
	router.Use(NewAuthMiddleware(cfg.TokenManager).Handler)

	router.HandleFunc("/healthz", healthHandler(cfg.Health)).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	// the vehicle group registers /vehicles/premium ahead of /vehicles/{registration}
	groups := []RouteRegistrar{}
	if cfg.Vehicles != nil {
		groups = append(groups, cfg.Vehicles)
	}
	if cfg.Pictures != nil {
		groups = append(groups, cfg.Pictures)
	}
	if cfg.Bookings != nil {
		groups = append(groups, cfg.Bookings)
	}
	if cfg.Loyalty != nil {
		groups = append(groups, cfg.Loyalty)
	}
	if cfg.Customers != nil {
		groups = append(groups, cfg.Customers)
	}
	if cfg.Subscriptions != nil {
		groups = append(groups, cfg.Subscriptions)
	}
	if cfg.Webhooks != nil {
		groups = append(groups, cfg.Webhooks)
	}
	if cfg.Staff != nil {
		groups = append(groups, cfg.Staff)
	}
	if cfg.Geocode != nil {
		groups = append(groups, cfg.Geocode)
	}
	if cfg.Currency != nil {
		groups = append(groups, cfg.Currency)
	}
	if cfg.Notifications != nil {
		groups = append(groups, cfg.Notifications)
	}
	if cfg.Uploads != nil {
		groups = append(groups, cfg.Uploads)
	}
	for _, g := range groups {
		g.Register(api)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, "route not found")
	})
	return router
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
