package service

import (
	"context"
	"errors"
	"fmt"

	"carrental-backend/internal/logger"
	"carrental-backend/internal/payment"
)

type webhookService struct {
	gateway       payment.Gateway
	subscriptions SubscriptionService
	bookings      BookingService
}

func NewWebhookService(gateway payment.Gateway, subscriptions SubscriptionService, bookings BookingService) WebhookService {
	return &webhookService{
		gateway:       gateway,
		subscriptions: subscriptions,
		bookings:      bookings,
	}
}

func (s *webhookService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	evt, err := s.gateway.ParseWebhook(payload, signature)
	switch {
	case errors.Is(err, payment.ErrIgnoredEvent):
		logger.Debug("Ignoring webhook event", "reason", err)
		return nil
	case errors.Is(err, payment.ErrInvalidSignature):
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	case err != nil:
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	switch evt.Kind {
	case payment.EventSubscriptionUpdated:
		if !evt.Active || evt.UserID == "" {
			logger.Info("Subscription not active yet", "subscriptionID", evt.SubscriptionID)
			return nil
		}
		return s.subscriptions.HandleActivated(ctx, evt.UserID, evt.SessionID, evt.SubscriptionID)

	case payment.EventPaymentSucceeded:
		if evt.SessionID == "" {
			logger.Warn("Booking payment without a session", "paymentIntentID", evt.PaymentIntentID)
			return nil
		}
		b, err := s.bookings.HandlePaymentCompleted(ctx, evt.SessionID)
		if err != nil {
			return err
		}
		logger.Info("Booking payment received", "bookingID", b.ID, "paymentIntentID", evt.PaymentIntentID, "amount", evt.AmountReceived)
		return nil
	}

	logger.Debug("Unhandled webhook event", "kind", evt.Kind)
	return nil
}
