package service_test

import (
	"context"
	"io"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/geocode"
	"carrental-backend/internal/payment"
	"carrental-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockCarRepo
type MockCarRepo struct {
	mock.Mock
}

func (m *MockCarRepo) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarRepo) GetByRegistration(ctx context.Context, registration string) (*domain.Car, error) {
	args := m.Called(ctx, registration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarRepo) Search(ctx context.Context, filter domain.CarFilter) ([]domain.Car, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Car), args.Error(1)
}
func (m *MockCarRepo) ListByCategory(ctx context.Context, category string) ([]domain.Car, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]domain.Car), args.Error(1)
}
func (m *MockCarRepo) AddPicture(ctx context.Context, carID int32, url string) error {
	args := m.Called(ctx, carID, url)
	return args.Error(0)
}

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) GetByUserID(ctx context.Context, userID string) (*domain.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCustomerRepo) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockCustomerRepo) List(ctx context.Context) ([]domain.Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) SetGoldenMember(ctx context.Context, userID string, golden bool) error {
	args := m.Called(ctx, userID, golden)
	return args.Error(0)
}
func (m *MockCustomerRepo) AddRewardPoints(ctx context.Context, userID string, delta int) (int, error) {
	args := m.Called(ctx, userID, delta)
	return args.Int(0), args.Error(1)
}
func (m *MockCustomerRepo) SpendRewardPoints(ctx context.Context, userID string, cost int) (int, error) {
	args := m.Called(ctx, userID, cost)
	return args.Int(0), args.Error(1)
}
func (m *MockCustomerRepo) SetPreferredCurrency(ctx context.Context, userID, code string) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id int32, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockBookingRepo) Confirm(ctx context.Context, id int32, paid decimal.Decimal) error {
	args := m.Called(ctx, id, paid)
	return args.Error(0)
}
func (m *MockBookingRepo) ListEnded(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListInstallmentsDue(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) AdvanceInstallment(ctx context.Context, id int32, remaining int, next time.Time, paid decimal.Decimal) error {
	args := m.Called(ctx, id, remaining, next, paid)
	return args.Error(0)
}

// MockPromotionRepo
type MockPromotionRepo struct {
	mock.Mock
}

func (m *MockPromotionRepo) GetByID(ctx context.Context, id int32) (*domain.Promotion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Promotion), args.Error(1)
}
func (m *MockPromotionRepo) List(ctx context.Context) ([]domain.Promotion, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Promotion), args.Error(1)
}
func (m *MockPromotionRepo) ListPermanent(ctx context.Context) ([]domain.Promotion, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Promotion), args.Error(1)
}
func (m *MockPromotionRepo) ListRedeemed(ctx context.Context, userID string) ([]domain.UserPromotion, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.UserPromotion), args.Error(1)
}
func (m *MockPromotionRepo) Redeem(ctx context.Context, up *domain.UserPromotion) error {
	args := m.Called(ctx, up)
	return args.Error(0)
}
func (m *MockPromotionRepo) Deactivate(ctx context.Context, userID string, promotionID int32) error {
	args := m.Called(ctx, userID, promotionID)
	return args.Error(0)
}
func (m *MockPromotionRepo) MarkUsed(ctx context.Context, userID string, promotionID int32) error {
	args := m.Called(ctx, userID, promotionID)
	return args.Error(0)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) CreateSession(ctx context.Context, s *domain.PaymentSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetSession(ctx context.Context, id string) (*domain.PaymentSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentSession), args.Error(1)
}
func (m *MockPaymentRepo) UpdateSessionStatus(ctx context.Context, id string, status domain.PaymentSessionStatus, subscriptionID string) error {
	args := m.Called(ctx, id, status, subscriptionID)
	return args.Error(0)
}
func (m *MockPaymentRepo) ExpireStale(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}

// MockStaffRepo
type MockStaffRepo struct {
	mock.Mock
}

func (m *MockStaffRepo) Create(ctx context.Context, s *domain.Staff) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockStaffRepo) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}
func (m *MockStaffRepo) GetByUserID(ctx context.Context, userID string) (*domain.Staff, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}
func (m *MockStaffRepo) LinkUser(ctx context.Context, id int32, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingConfirmation(ctx context.Context, email, name, vehicle string, bookingID int32, amount string) error {
	args := m.Called(ctx, email, name, vehicle, bookingID, amount)
	return args.Error(0)
}
func (m *MockEmailService) SendInstallmentReminder(ctx context.Context, email, name, vehicle string, amount string, due time.Time) error {
	args := m.Called(ctx, email, name, vehicle, amount, due)
	return args.Error(0)
}
func (m *MockEmailService) SendStaffInvitation(ctx context.Context, email, name, link string) error {
	args := m.Called(ctx, email, name, link)
	return args.Error(0)
}
func (m *MockEmailService) SendBenefitUnlocked(ctx context.Context, email, name, benefit string) error {
	args := m.Called(ctx, email, name, benefit)
	return args.Error(0)
}

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) FindOrCreateCustomer(ctx context.Context, email, userID string) (string, error) {
	args := m.Called(ctx, email, userID)
	return args.String(0), args.Error(1)
}
func (m *MockGateway) CreateSubscription(ctx context.Context, customerID, priceID string, metadata map[string]string) (*payment.Subscription, error) {
	args := m.Called(ctx, customerID, priceID, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Subscription), args.Error(1)
}
func (m *MockGateway) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, metadata map[string]string) (*payment.PaymentIntent, error) {
	args := m.Called(ctx, amount, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentIntent), args.Error(1)
}
func (m *MockGateway) ParseWebhook(payload []byte, signature string) (*payment.Event, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Event), args.Error(1)
}

// MockBookingService
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

// MockSubscriptionService
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

// MockGeocoder
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Reverse(ctx context.Context, lat, lng float64) (*geocode.Address, error) {
	args := m.Called(ctx, lat, lng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geocode.Address), args.Error(1)
}

// MockStorage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Error(1)
}
func (m *MockStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Error(1)
}
func (m *MockStorage) FileExists(ctx context.Context, key string) (bool, int64, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}
func (m *MockStorage) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
func (m *MockStorage) ConsumeUploadToken(token, key string) error {
	args := m.Called(token, key)
	return args.Error(0)
}
func (m *MockStorage) SaveFile(key string, reader io.Reader) error {
	args := m.Called(key, reader)
	return args.Error(0)
}
func (m *MockStorage) ReadFile(key string) (io.ReadCloser, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
