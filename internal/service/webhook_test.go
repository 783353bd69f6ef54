package service_test

import (
	"context"
	"testing"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/payment"
	"carrental-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWebhookService_HandleWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("Active subscription upgrades the customer", func(t *testing.T) {
		customers, payments, gateway := new(MockCustomerRepo), new(MockPaymentRepo), new(MockGateway)
		subs := service.NewSubscriptionService(nil, customers, payments, gateway)
		svc := service.NewWebhookService(gateway, subs, new(MockBookingService))

		gateway.On("ParseWebhook", []byte("{}"), "sig").Return(&payment.Event{
			Kind: payment.EventSubscriptionUpdated, SubscriptionID: "sub_1", UserID: "user_1", SessionID: "sess_1", Active: true,
		}, nil)
		customers.On("SetGoldenMember", ctx, "user_1", true).Return(nil)
		payments.On("UpdateSessionStatus", ctx, "sess_1", domain.PaymentSessionCompleted, "sub_1").Return(nil)

		require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "sig"))
		customers.AssertExpectations(t)
		payments.AssertExpectations(t)
	})

	t.Run("Inactive subscription is acknowledged", func(t *testing.T) {
		gateway, subs := new(MockGateway), new(MockSubscriptionService)
		svc := service.NewWebhookService(gateway, subs, new(MockBookingService))
		gateway.On("ParseWebhook", mock.Anything, mock.Anything).Return(&payment.Event{Kind: payment.EventSubscriptionUpdated, UserID: "user_1"}, nil)

		require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "sig"))
		subs.AssertNotCalled(t, "HandleActivated", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Booking payment confirms the booking", func(t *testing.T) {
		f := newBookingFixture(t)
		svc := service.NewWebhookService(f.gateway, new(MockSubscriptionService), f.svc)
		bookingID := int32(11)

		f.gateway.On("ParseWebhook", []byte("{}"), "sig").Return(&payment.Event{
			Kind: payment.EventPaymentSucceeded, PaymentIntentID: "pi_1", UserID: "user_1", SessionID: "sess_1",
			AmountReceived: decimal.NewFromInt(180),
		}, nil)
		f.payments.On("GetSession", ctx, "sess_1").Return(&domain.PaymentSession{
			ID: "sess_1", UserID: "user_1", Kind: domain.PaymentKindBooking, BookingID: &bookingID,
			Amount: decimal.NewFromInt(180), Status: domain.PaymentSessionPending,
		}, nil)
		f.bookings.On("GetByID", ctx, bookingID).Return(&domain.Booking{ID: 11, UserID: "user_1", Status: domain.BookingStatusPending}, nil)
		f.payments.On("UpdateSessionStatus", ctx, "sess_1", domain.PaymentSessionCompleted, "").Return(nil)
		f.bookings.On("Confirm", ctx, bookingID, decimal.NewFromInt(180)).Return(nil)
		f.notes.On("Create", ctx, mock.Anything).Return(nil)

		require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "sig"))
		f.bookings.AssertCalled(t, "Confirm", ctx, bookingID, decimal.NewFromInt(180))
		f.payments.AssertExpectations(t)
	})

	t.Run("Booking payment without a session", func(t *testing.T) {
		gateway, bookings := new(MockGateway), new(MockBookingService)
		svc := service.NewWebhookService(gateway, new(MockSubscriptionService), bookings)
		gateway.On("ParseWebhook", mock.Anything, mock.Anything).Return(&payment.Event{Kind: payment.EventPaymentSucceeded, PaymentIntentID: "pi_1"}, nil)

		require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "sig"))
		bookings.AssertNotCalled(t, "HandlePaymentCompleted", mock.Anything, mock.Anything)
	})

	t.Run("Booking confirmation failure is returned", func(t *testing.T) {
		gateway, bookings := new(MockGateway), new(MockBookingService)
		svc := service.NewWebhookService(gateway, new(MockSubscriptionService), bookings)
		gateway.On("ParseWebhook", mock.Anything, mock.Anything).Return(&payment.Event{Kind: payment.EventPaymentSucceeded, SessionID: "sess_9"}, nil)
		bookings.On("HandlePaymentCompleted", ctx, "sess_9").Return(nil, service.ErrNotFound)

		assert.ErrorIs(t, svc.HandleWebhook(ctx, []byte("{}"), "sig"), service.ErrNotFound)
	})

	t.Run("Ignored event type", func(t *testing.T) {
		gateway := new(MockGateway)
		svc := service.NewWebhookService(gateway, new(MockSubscriptionService), new(MockBookingService))
		gateway.On("ParseWebhook", mock.Anything, mock.Anything).Return(nil, payment.ErrIgnoredEvent)

		assert.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "sig"))
	})

	t.Run("Bad signature", func(t *testing.T) {
		gateway := new(MockGateway)
		svc := service.NewWebhookService(gateway, new(MockSubscriptionService), new(MockBookingService))
		gateway.On("ParseWebhook", mock.Anything, mock.Anything).Return(nil, payment.ErrInvalidSignature)

		assert.ErrorIs(t, svc.HandleWebhook(ctx, []byte("{}"), "bad"), service.ErrUnauthorized)
	})
}
