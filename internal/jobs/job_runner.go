package jobs

import (
	"context"
	"time"

	"carrental-backend/internal/config"
	"carrental-backend/internal/currency"
	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/service"

	"github.com/shopspring/decimal"
)

// BookingStore is the booking storage the jobs need
type BookingStore interface {
	UpdateStatus(ctx context.Context, id int32, status domain.BookingStatus) error
	ListEnded(ctx context.Context, before time.Time) ([]domain.Booking, error)
	ListInstallmentsDue(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
	AdvanceInstallment(ctx context.Context, id int32, remaining int, next time.Time, paid decimal.Decimal) error
}

type CustomerStore interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Customer, error)
	AddRewardPoints(ctx context.Context, userID string, delta int) (int, error)
}

type CarStore interface {
	GetByID(ctx context.Context, id int32) (*domain.Car, error)
}

type PaymentStore interface {
	ExpireStale(ctx context.Context, olderThan time.Time) (int64, error)
}

// Stores holds the storage dependencies needed by jobs
type Stores struct {
	Bookings  BookingStore
	Customers CustomerStore
	Cars      CarStore
	Payments  PaymentStore
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Email   service.EmailService
	Loyalty service.LoyaltyService
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	stores   Stores
	services *Services
	config   *config.Config
	currency *currency.Settings
	now      func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(stores Stores, services *Services, cfg *config.Config, settings *currency.Settings) *JobRunner {
	return &JobRunner{
		stores:   stores,
		services: services,
		config:   cfg,
		currency: settings,
		now:      time.Now,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	start := time.Now()
	jobFunc()
	logger.Info("Job completed", "job", jobName, "elapsed", time.Since(start))
}

// RunAll runs every job once, in dependency order
func (jr *JobRunner) RunAll() {
	jr.CompleteEndedBookings()
	jr.AdvanceInstallments()
	jr.SendInstallmentReminders()
	jr.ExpireStalePaymentSessions()
}

func vehicleName(car *domain.Car) string {
	if car == nil {
		return "vehicle"
	}
	return car.Maker + " " + car.Model
}
