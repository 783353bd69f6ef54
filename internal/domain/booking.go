package domain

import (
	"time"

	"carrental-backend/internal/pricing"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type InsuranceType string

const (
	InsuranceFull  InsuranceType = "full"
	InsuranceBasic InsuranceType = "basic"
)

type Booking struct {
	ID              int32                    `json:"id"`
	UserID          string                   `json:"user_id"`
	CarID           int32                    `json:"car_id"`
	StartDate       time.Time                `json:"start_date"`
	EndDate         time.Time                `json:"end_date"`
	PickupLocation  string                   `json:"pickup_location"`
	DropoffLocation string                   `json:"dropoff_location"`
	Extras          pricing.Extras           `json:"extras"`
	PromotionID     *int32                   `json:"promotion_id,omitempty"`
	PaymentPlan     pricing.PaymentPlan      `json:"payment_plan"`
	TotalCost       decimal.Decimal          `json:"total_cost"`
	PaidAmount      decimal.Decimal          `json:"paid_amount"`
	Insurance       InsuranceType            `json:"insurance"`
	Installment     *pricing.InstallmentPlan `json:"installment,omitempty"`
	Status          BookingStatus            `json:"status"`
	CreatedOn       time.Time                `json:"created_on"`
	UpdatedOn       time.Time                `json:"updated_on"`
}

// Cancellable reports whether the booking may still be cancelled by its owner
func (b *Booking) Cancellable() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// CountsTowardLoyalty reports whether the booking adds to spend and rental counts.
// Only completed rentals count; pending ones were never paid.
func (b *Booking) CountsTowardLoyalty() bool {
	return b.Status == BookingStatusCompleted
}
