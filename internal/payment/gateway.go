package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"carrental-backend/internal/logger"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrIgnoredEvent     = errors.New("webhook event ignored")
)

// Metadata keys attached to processor objects
const (
	MetadataUserID    = "userId"
	MetadataSessionID = "sessionId"
	MetadataPlanID    = "planId"
	MetadataBookingID = "bookingId"
	MetadataKind      = "kind"
)

// KindBooking tags payment intents raised for bookings. Invoice intents of
// subscriptions carry no kind and are ignored.
const KindBooking = "booking"

// Subscription is the processor side of a Golden Member subscription
type Subscription struct {
	ID           string
	Status       string
	ClientSecret string // Handed to the client to confirm the first payment
}

// PaymentIntent is a one-off charge the client confirms with ClientSecret
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

type EventKind string

const (
	EventSubscriptionUpdated EventKind = "subscription_updated"
	EventPaymentSucceeded    EventKind = "payment_succeeded"
)

// Event is a verified processor webhook
type Event struct {
	Kind            EventKind
	SubscriptionID  string
	PaymentIntentID string
	UserID          string
	SessionID       string
	Active          bool
	AmountReceived  decimal.Decimal // USD, payment events only
}

// Gateway is the boundary to the payment processor
type Gateway interface {
	FindOrCreateCustomer(ctx context.Context, email, userID string) (string, error)
	CreateSubscription(ctx context.Context, customerID, priceID string, metadata map[string]string) (*Subscription, error)
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, metadata map[string]string) (*PaymentIntent, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

// NewStripeGateway builds a gateway on the Stripe API. A nil backends uses the live endpoints.
func NewStripeGateway(secretKey, webhookSecret string, backends *stripe.Backends) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &StripeGateway{api: api, webhookSecret: webhookSecret}
}

func (g *StripeGateway) FindOrCreateCustomer(ctx context.Context, email, userID string) (string, error) {
	logger.ExternalServiceCall("stripe", "customers.search", "email", email)

	search := &stripe.CustomerSearchParams{
		SearchParams: stripe.SearchParams{Query: fmt.Sprintf("email:'%s'", email)},
	}
	search.Context = ctx
	iter := g.api.Customers.Search(search)
	for iter.Next() {
		c := iter.Customer()
		logger.ExternalServiceResult("stripe", "customers.search", nil, "customer_id", c.ID)
		return c.ID, nil
	}
	if err := iter.Err(); err != nil {
		logger.ExternalServiceResult("stripe", "customers.search", err)
		return "", fmt.Errorf("failed to search customers: %w", err)
	}

	params := &stripe.CustomerParams{Email: stripe.String(email)}
	params.Context = ctx
	params.AddMetadata(MetadataUserID, userID)

	c, err := g.api.Customers.New(params)
	logger.ExternalServiceResult("stripe", "customers.create", err)
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}
	return c.ID, nil
}

func (g *StripeGateway) CreateSubscription(ctx context.Context, customerID, priceID string, metadata map[string]string) (*Subscription, error) {
	logger.ExternalServiceCall("stripe", "subscriptions.create", "customer_id", customerID, "price_id", priceID)

	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
		PaymentSettings: &stripe.SubscriptionPaymentSettingsParams{
			SaveDefaultPaymentMethod: stripe.String("on_subscription"),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	params.AddExpand("latest_invoice.payment_intent")

	sub, err := g.api.Subscriptions.New(params)
	logger.ExternalServiceResult("stripe", "subscriptions.create", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	out := &Subscription{ID: sub.ID, Status: string(sub.Status)}
	if sub.LatestInvoice != nil && sub.LatestInvoice.PaymentIntent != nil {
		out.ClientSecret = sub.LatestInvoice.PaymentIntent.ClientSecret
	}
	return out, nil
}

// CreatePaymentIntent charges a USD amount. Amounts are sent in cents.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, metadata map[string]string) (*PaymentIntent, error) {
	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	logger.ExternalServiceCall("stripe", "payment_intents.create", "amount_cents", cents)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(cents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	logger.ExternalServiceResult("stripe", "payment_intents.create", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return &PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// ParseWebhook verifies the signature and decodes subscription updates and
// succeeded booking payments. Other event types return ErrIgnoredEvent.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("failed to decode subscription: %w", err)
		}
		return &Event{
			Kind:           EventSubscriptionUpdated,
			SubscriptionID: sub.ID,
			UserID:         sub.Metadata[MetadataUserID],
			SessionID:      sub.Metadata[MetadataSessionID],
			Active:         sub.Status == stripe.SubscriptionStatusActive,
		}, nil

	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("failed to decode payment intent: %w", err)
		}
		if pi.Metadata[MetadataKind] != KindBooking {
			return nil, fmt.Errorf("%w: payment intent %s is not a booking payment", ErrIgnoredEvent, pi.ID)
		}
		return &Event{
			Kind:            EventPaymentSucceeded,
			PaymentIntentID: pi.ID,
			UserID:          pi.Metadata[MetadataUserID],
			SessionID:       pi.Metadata[MetadataSessionID],
			AmountReceived:  decimal.New(pi.AmountReceived, -2),
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrIgnoredEvent, event.Type)
}
