package http_test

import (
	"context"

	"carrental-backend/internal/currency"
	"carrental-backend/internal/domain"
	"carrental-backend/internal/geocode"
	"carrental-backend/internal/loyalty"
	"carrental-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockVehicleService struct {
	mock.Mock
}

func (m *MockVehicleService) Search(ctx context.Context, filter domain.CarFilter) ([]domain.Car, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Car), args.Error(1)
}
func (m *MockVehicleService) Get(ctx context.Context, registration string) (*domain.Car, error) {
	args := m.Called(ctx, registration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockVehicleService) ListPremium(ctx context.Context) ([]domain.Car, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Car), args.Error(1)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Quote(ctx context.Context, req service.QuoteRequest) (*service.Quote, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Quote), args.Error(1)
}
func (m *MockBookingService) CreateBooking(ctx context.Context, req service.CreateBookingRequest) (*service.BookingResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingResult), args.Error(1)
}
func (m *MockBookingService) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingService) CancelBooking(ctx context.Context, userID string, bookingID int32) (*domain.Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) HandlePaymentCompleted(ctx context.Context, sessionID string) (*domain.Booking, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockLoyaltyService struct {
	mock.Mock
}

func (m *MockLoyaltyService) ListBenefits(ctx context.Context, userID string) ([]loyalty.BenefitStatus, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]loyalty.BenefitStatus), args.Error(1)
}
func (m *MockLoyaltyService) Claim(ctx context.Context, userID string, promotionID int32) (*domain.UserPromotion, error) {
	args := m.Called(ctx, userID, promotionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserPromotion), args.Error(1)
}
func (m *MockLoyaltyService) Deactivate(ctx context.Context, userID string, promotionID int32) error {
	args := m.Called(ctx, userID, promotionID)
	return args.Error(0)
}

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Get(ctx context.Context, userID string) (*domain.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerService) Upsert(ctx context.Context, userID string, update domain.CustomerUpdate) (*domain.Customer, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerService) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockCustomerService) UpgradeToGolden(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockCustomerService) AddRewardPoints(ctx context.Context, userID string, delta int) (int, error) {
	args := m.Called(ctx, userID, delta)
	return args.Int(0), args.Error(1)
}
func (m *MockCustomerService) GetRewardPoints(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
func (m *MockCustomerService) CurrencyPreference(ctx context.Context, userID string) (currency.Code, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(currency.Code), args.Error(1)
}
func (m *MockCustomerService) SetCurrencyPreference(ctx context.Context, userID string, code currency.Code) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}

type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Plans() []domain.SubscriptionPlan {
	args := m.Called()
	return args.Get(0).([]domain.SubscriptionPlan)
}
func (m *MockSubscriptionService) Subscribe(ctx context.Context, userID, email, planID string) (*service.SubscriptionResult, error) {
	args := m.Called(ctx, userID, email, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubscriptionResult), args.Error(1)
}
func (m *MockSubscriptionService) HandleActivated(ctx context.Context, userID, sessionID, subscriptionID string) error {
	args := m.Called(ctx, userID, sessionID, subscriptionID)
	return args.Error(0)
}

type MockStaffService struct {
	mock.Mock
}

func (m *MockStaffService) Invite(ctx context.Context, invitedBy, email, name string, role domain.StaffRole) (*domain.Staff, error) {
	args := m.Called(ctx, invitedBy, email, name, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}
func (m *MockStaffService) Signup(ctx context.Context, token, userID string) (*domain.Staff, error) {
	args := m.Called(ctx, token, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}

type MockGeocodeService struct {
	mock.Mock
}

func (m *MockGeocodeService) Reverse(ctx context.Context, lat, lng float64) (*geocode.Address, error) {
	args := m.Called(ctx, lat, lng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geocode.Address), args.Error(1)
}
