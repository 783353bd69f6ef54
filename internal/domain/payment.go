package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentSessionStatus string

const (
	PaymentSessionPending   PaymentSessionStatus = "PENDING"
	PaymentSessionCompleted PaymentSessionStatus = "COMPLETED"
	PaymentSessionExpired   PaymentSessionStatus = "EXPIRED"
)

type PaymentKind string

const (
	PaymentKindBooking      PaymentKind = "booking"
	PaymentKindSubscription PaymentKind = "subscription"
)

// PaymentSession tracks an amount handed to the payment processor for checkout
type PaymentSession struct {
	ID             string               `json:"id"`
	UserID         string               `json:"user_id"`
	Kind           PaymentKind          `json:"kind"`
	BookingID      *int32               `json:"booking_id,omitempty"`
	PlanID         string               `json:"plan_id,omitempty"`
	Amount         decimal.Decimal      `json:"amount"`
	Status         PaymentSessionStatus `json:"status"`
	SubscriptionID string               `json:"subscription_id,omitempty"`
	CreatedOn      time.Time            `json:"created_on"`
	UpdatedOn      time.Time            `json:"updated_on"`
}

// SubscriptionPlan is one of the Golden Member tiers
type SubscriptionPlan struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	PriceID string          `json:"-"`
}
