package service

import (
	"context"
	"fmt"
	"time"

	"carrental-backend/internal/logger"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// MailSender is the part of the SendGrid client we use
type MailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type emailService struct {
	sender    MailSender
	fromEmail string
	fromName  string
}

// NewEmailService sends through SendGrid. An empty apiKey logs messages instead of sending them.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	var sender MailSender = logSender{}
	if apiKey != "" {
		sender = sendgrid.NewSendClient(apiKey)
	}
	return NewEmailServiceWithSender(sender, fromEmail, fromName)
}

func NewEmailServiceWithSender(sender MailSender, fromEmail, fromName string) EmailService {
	return &emailService{sender: sender, fromEmail: fromEmail, fromName: fromName}
}

func (s *emailService) send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)
	response, err := s.sender.SendWithContext(ctx, message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "send", err)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "send", nil)
	return nil
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, email, name, vehicle string, bookingID int32, amount string) error {
	subject := fmt.Sprintf("Booking #%d confirmed: %s", bookingID, vehicle)
	plain := fmt.Sprintf("Hello %s,\n\nYour booking #%d for the %s has been received.\nAmount due: %s\n\nThank you for choosing %s.",
		name, bookingID, vehicle, amount, s.fromName)
	html := fmt.Sprintf(`<html><body><h2>Booking received</h2>
<p>Hello %s,</p><p>Your booking <strong>#%d</strong> for the <strong>%s</strong> has been received.</p>
<p>Amount due: <strong>%s</strong></p></body></html>`, name, bookingID, vehicle, amount)
	return s.send(ctx, email, name, subject, plain, html)
}

func (s *emailService) SendInstallmentReminder(ctx context.Context, email, name, vehicle string, amount string, due time.Time) error {
	subject := fmt.Sprintf("Installment due %s", due.Format("Jan 2, 2006"))
	plain := fmt.Sprintf("Hello %s,\n\nYour next installment of %s for the %s is due on %s.",
		name, amount, vehicle, due.Format("January 2, 2006"))
	html := fmt.Sprintf(`<html><body><h2>Installment reminder</h2>
<p>Hello %s,</p><p>Your next installment of <strong>%s</strong> for the %s is due on %s.</p></body></html>`,
		name, amount, vehicle, due.Format("January 2, 2006"))
	return s.send(ctx, email, name, subject, plain, html)
}

func (s *emailService) SendStaffInvitation(ctx context.Context, email, name, link string) error {
	subject := fmt.Sprintf("You are invited to join %s", s.fromName)
	plain := fmt.Sprintf("Hello %s,\n\nYou have been invited to join the %s staff.\nComplete your registration here:\n\n%s", name, s.fromName, link)
	html := fmt.Sprintf(`<html><body><h2>Staff invitation</h2>
<p>Hello %s,</p><p>You have been invited to join the %s staff.</p><p><a href="%s">Complete registration</a></p></body></html>`,
		name, s.fromName, link)
	return s.send(ctx, email, name, subject, plain, html)
}

func (s *emailService) SendBenefitUnlocked(ctx context.Context, email, name, benefit string) error {
	subject := fmt.Sprintf("Congratulations, %s is now available", benefit)
	plain := fmt.Sprintf("Hello %s,\n\nYou are now eligible for %s. Claim it from your loyalty page.", name, benefit)
	html := fmt.Sprintf(`<html><body><h2>Congratulations!</h2>
<p>Hello %s,</p><p>You are now eligible for <strong>%s</strong>. Claim it from your loyalty page.</p></body></html>`, name, benefit)
	return s.send(ctx, email, name, subject, plain, html)
}

// logSender stands in for SendGrid in development
type logSender struct{}

func (logSender) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	to := ""
	if len(email.Personalizations) > 0 && len(email.Personalizations[0].To) > 0 {
		to = email.Personalizations[0].To[0].Address
	}
	logger.Info("Email not sent, no SendGrid API key configured", "to", to, "subject", email.Subject)
	return &rest.Response{StatusCode: 202}, nil
}
