package http

import (
	"io"
	"net/http"

	"carrental-backend/internal/service"

	"github.com/gorilla/mux"
)

// Processor events are small; anything larger is not a real webhook
const maxWebhookBytes = 65536

type WebhookHandler struct {
	webhookSvc service.WebhookService
}

func NewWebhookHandler(webhookSvc service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookSvc: webhookSvc}
}

func (h *WebhookHandler) Register(r *mux.Router) {
	r.HandleFunc("/webhooks/stripe", h.Stripe).Methods(http.MethodPost)
}

// Stripe acknowledges processor events. The signature is the only authentication.
func (h *WebhookHandler) Stripe(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		writeErrorMessage(w, http.StatusServiceUnavailable, "failed to read body")
		return
	}

	if err := h.webhookSvc.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
