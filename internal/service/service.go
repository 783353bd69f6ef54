package service

import (
	"context"
	"errors"
	"time"

	"carrental-backend/internal/currency"
	"carrental-backend/internal/domain"
	"carrental-backend/internal/geocode"
	"carrental-backend/internal/loyalty"
	"carrental-backend/internal/pricing"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidInput           = errors.New("invalid input")
	ErrConflict               = errors.New("conflict")
	ErrGoldenMemberRequired   = errors.New("golden member required")
	ErrNotEligible            = errors.New("benefit is not eligible")
	ErrPromotionNotApplicable = errors.New("promotion is not applicable to this vehicle")
)

// QuoteRequest describes a prospective booking
type QuoteRequest struct {
	UserID      string              `json:"-"`
	CarID       int32               `json:"car_id"`
	StartDate   time.Time           `json:"start_date"`
	EndDate     time.Time           `json:"end_date"`
	Extras      pricing.Extras      `json:"extras"`
	PromotionID *int32              `json:"promotion_id,omitempty"`
	Plan        pricing.PaymentPlan `json:"payment_plan"`
	Currency    string              `json:"currency,omitempty"` // Overrides the caller's preferred display currency
}

type Quote struct {
	pricing.QuoteResult
	DurationDays     int               `json:"duration_days"`
	Promotion        *domain.Promotion `json:"promotion,omitempty"`
	Currency         string            `json:"currency"`
	FormattedTotal   string            `json:"formatted_total"`
	FormattedDisplay string            `json:"formatted_display"`
}

type CreateBookingRequest struct {
	QuoteRequest
	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`
}

type BookingResult struct {
	Booking      *domain.Booking        `json:"booking"`
	Payment      *domain.PaymentSession `json:"payment"`
	Quote        *Quote                 `json:"quote"`
	ClientSecret string                 `json:"client_secret"` // Confirms the first payment with the processor
}

type SubscriptionResult struct {
	SessionID      string `json:"session_id"`
	SubscriptionID string `json:"subscription_id"`
	ClientSecret   string `json:"client_secret"`
}

type VehicleService interface {
	Search(ctx context.Context, filter domain.CarFilter) ([]domain.Car, error)
	Get(ctx context.Context, registration string) (*domain.Car, error)
	ListPremium(ctx context.Context) ([]domain.Car, error)
}

type BookingService interface {
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingResult, error)
	ListBookings(ctx context.Context, userID string) ([]domain.Booking, error)
	CancelBooking(ctx context.Context, userID string, bookingID int32) (*domain.Booking, error)
	HandlePaymentCompleted(ctx context.Context, sessionID string) (*domain.Booking, error)
}

type LoyaltyService interface {
	ListBenefits(ctx context.Context, userID string) ([]loyalty.BenefitStatus, error)
	Claim(ctx context.Context, userID string, promotionID int32) (*domain.UserPromotion, error)
	Deactivate(ctx context.Context, userID string, promotionID int32) error
}

type CustomerService interface {
	Get(ctx context.Context, userID string) (*domain.Customer, error)
	Upsert(ctx context.Context, userID string, update domain.CustomerUpdate) (*domain.Customer, error)
	Delete(ctx context.Context, userID string) error
	UpgradeToGolden(ctx context.Context, userID string) error
	AddRewardPoints(ctx context.Context, userID string, delta int) (int, error)
	GetRewardPoints(ctx context.Context, userID string) (int, error)
	CurrencyPreference(ctx context.Context, userID string) (currency.Code, error)
	SetCurrencyPreference(ctx context.Context, userID string, code currency.Code) error
}

type SubscriptionService interface {
	Plans() []domain.SubscriptionPlan
	Subscribe(ctx context.Context, userID, email, planID string) (*SubscriptionResult, error)
	HandleActivated(ctx context.Context, userID, sessionID, subscriptionID string) error
}

// WebhookService routes verified processor events to the owning service
type WebhookService interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type StaffService interface {
	Invite(ctx context.Context, invitedBy, email, name string, role domain.StaffRole) (*domain.Staff, error)
	Signup(ctx context.Context, token, userID string) (*domain.Staff, error)
}

type GeocodeService interface {
	Reverse(ctx context.Context, lat, lng float64) (*geocode.Address, error)
}

type PictureService interface {
	GetUploadURL(ctx context.Context, carID int32, contentType string) (uploadURL, key string, expiresAt int64, err error)
	ConfirmUpload(ctx context.Context, carID int32, key string) (*domain.Car, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error)
}

type EmailService interface {
	SendBookingConfirmation(ctx context.Context, email, name, vehicle string, bookingID int32, amount string) error
	SendInstallmentReminder(ctx context.Context, email, name, vehicle string, amount string, due time.Time) error
	SendStaffInvitation(ctx context.Context, email, name, link string) error
	SendBenefitUnlocked(ctx context.Context, email, name, benefit string) error
}
