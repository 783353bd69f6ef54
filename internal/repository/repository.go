package repository

import (
	"context"
	"time"

	"carrental-backend/internal/domain"

	"github.com/shopspring/decimal"
)

type CarRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Car, error)
	GetByRegistration(ctx context.Context, registration string) (*domain.Car, error)
	Search(ctx context.Context, filter domain.CarFilter) ([]domain.Car, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Car, error)
	AddPicture(ctx context.Context, carID int32, url string) error
}

type CustomerRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Customer, error)
	Create(ctx context.Context, c *domain.Customer) error
	Update(ctx context.Context, c *domain.Customer) error
	Delete(ctx context.Context, userID string) error
	List(ctx context.Context) ([]domain.Customer, error)
	SetGoldenMember(ctx context.Context, userID string, golden bool) error
	AddRewardPoints(ctx context.Context, userID string, delta int) (int, error)
	SpendRewardPoints(ctx context.Context, userID string, cost int) (int, error)
	SetPreferredCurrency(ctx context.Context, userID, code string) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int32, status domain.BookingStatus) error
	Confirm(ctx context.Context, id int32, paid decimal.Decimal) error
	ListEnded(ctx context.Context, before time.Time) ([]domain.Booking, error)
	ListInstallmentsDue(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
	AdvanceInstallment(ctx context.Context, id int32, remaining int, next time.Time, paid decimal.Decimal) error
}

type PromotionRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Promotion, error)
	List(ctx context.Context) ([]domain.Promotion, error)
	ListPermanent(ctx context.Context) ([]domain.Promotion, error)
	ListRedeemed(ctx context.Context, userID string) ([]domain.UserPromotion, error)
	Redeem(ctx context.Context, up *domain.UserPromotion) error
	Deactivate(ctx context.Context, userID string, promotionID int32) error
	MarkUsed(ctx context.Context, userID string, promotionID int32) error
}

type PaymentRepository interface {
	CreateSession(ctx context.Context, s *domain.PaymentSession) error
	GetSession(ctx context.Context, id string) (*domain.PaymentSession, error)
	UpdateSessionStatus(ctx context.Context, id string, status domain.PaymentSessionStatus, subscriptionID string) error
	ExpireStale(ctx context.Context, olderThan time.Time) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	ListByUser(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error)
}

type StaffRepository interface {
	Create(ctx context.Context, s *domain.Staff) error
	GetByEmail(ctx context.Context, email string) (*domain.Staff, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Staff, error)
	LinkUser(ctx context.Context, id int32, userID string) error
}
