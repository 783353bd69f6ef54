package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"carrental-backend/internal/service"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent   []*mail.SGMailV3
	status int
}

func (r *recordingSender) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	r.sent = append(r.sent, email)
	return &rest.Response{StatusCode: r.status, Body: "rejected"}, nil
}

func TestEmailService_Messages(t *testing.T) {
	ctx := context.Background()
	sender := &recordingSender{status: 202}
	svc := service.NewEmailServiceWithSender(sender, "bookings@example.com", "Car Rental")

	require.NoError(t, svc.SendBookingConfirmation(ctx, "jane@example.com", "Jane", "Toyota Corolla", 11, "$180.00"))
	require.NoError(t, svc.SendInstallmentReminder(ctx, "jane@example.com", "Jane", "Toyota Corolla", "$200.00", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, svc.SendStaffInvitation(ctx, "agent@example.com", "Ali", "https://x/staff/signup?token=t"))
	require.NoError(t, svc.SendBenefitUnlocked(ctx, "jane@example.com", "Jane", "Free upgrade"))

	require.Len(t, sender.sent, 4)
	first := sender.sent[0]
	assert.Equal(t, "Booking #11 confirmed: Toyota Corolla", first.Subject)
	assert.Equal(t, "bookings@example.com", first.From.Address)
	assert.Equal(t, "jane@example.com", first.Personalizations[0].To[0].Address)
	assert.True(t, strings.Contains(first.Content[0].Value, "$180.00"))

	assert.Equal(t, "Installment due Aug 1, 2026", sender.sent[1].Subject)
	assert.Contains(t, sender.sent[2].Content[0].Value, "https://x/staff/signup?token=t")
}

func TestEmailService_ErrorStatus(t *testing.T) {
	svc := service.NewEmailServiceWithSender(&recordingSender{status: 401}, "bookings@example.com", "Car Rental")
	err := svc.SendBenefitUnlocked(context.Background(), "jane@example.com", "Jane", "Free upgrade")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestEmailService_WithoutAPIKeyLogsOnly(t *testing.T) {
	svc := service.NewEmailService("", "bookings@example.com", "Car Rental")
	assert.NoError(t, svc.SendBenefitUnlocked(context.Background(), "jane@example.com", "Jane", "Free upgrade"))
}
