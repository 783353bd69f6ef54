package jobs

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"carrental-backend/internal/config"
	"carrental-backend/internal/currency"
	"carrental-backend/internal/domain"
	"carrental-backend/internal/loyalty"
	"carrental-backend/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type advance struct {
	remaining int
	next      time.Time
	paid      decimal.Decimal
}

type fakeBookings struct {
	ended     []domain.Booking
	due       []domain.Booking
	completed []int32
	advanced  map[int32]advance
	dueFrom   time.Time
	dueTo     time.Time
}

func (f *fakeBookings) UpdateStatus(ctx context.Context, id int32, status domain.BookingStatus) error {
	if status == domain.BookingStatusCompleted {
		f.completed = append(f.completed, id)
	}
	return nil
}
func (f *fakeBookings) ListEnded(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	return f.ended, nil
}
func (f *fakeBookings) ListInstallmentsDue(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	f.dueFrom, f.dueTo = from, to
	return f.due, nil
}
func (f *fakeBookings) AdvanceInstallment(ctx context.Context, id int32, remaining int, next time.Time, paid decimal.Decimal) error {
	if f.advanced == nil {
		f.advanced = make(map[int32]advance)
	}
	f.advanced[id] = advance{remaining: remaining, next: next, paid: paid}
	return nil
}

type fakeCustomers struct {
	customers map[string]*domain.Customer
}

func (f *fakeCustomers) GetByUserID(ctx context.Context, userID string) (*domain.Customer, error) {
	c, ok := f.customers[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}
func (f *fakeCustomers) AddRewardPoints(ctx context.Context, userID string, delta int) (int, error) {
	c, ok := f.customers[userID]
	if !ok {
		return 0, sql.ErrNoRows
	}
	c.RewardPoints += delta
	return c.RewardPoints, nil
}

type fakeCars struct{}

func (fakeCars) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	return &domain.Car{ID: id, Maker: "Fiat", Model: "Egea"}, nil
}

type fakePayments struct {
	olderThan time.Time
}

func (f *fakePayments) ExpireStale(ctx context.Context, olderThan time.Time) (int64, error) {
	f.olderThan = olderThan
	return 3, nil
}

// fakeLoyalty evaluates a single points benefit against the fake customer store
type fakeLoyalty struct {
	customers *fakeCustomers
	benefit   loyalty.Benefit
}

func (f *fakeLoyalty) ListBenefits(ctx context.Context, userID string) ([]loyalty.BenefitStatus, error) {
	c, err := f.customers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return loyalty.Evaluate([]loyalty.Benefit{f.benefit}, loyalty.CustomerState{RewardPoints: c.RewardPoints}), nil
}
func (f *fakeLoyalty) Claim(ctx context.Context, userID string, promotionID int32) (*domain.UserPromotion, error) {
	return nil, nil
}
func (f *fakeLoyalty) Deactivate(ctx context.Context, userID string, promotionID int32) error {
	return nil
}

type sentMail struct {
	to, subject string
}

type fakeEmail struct {
	sent []sentMail
}

func (f *fakeEmail) SendBookingConfirmation(ctx context.Context, email, name, vehicle string, bookingID int32, amount string) error {
	f.sent = append(f.sent, sentMail{email, "confirmation"})
	return nil
}
func (f *fakeEmail) SendInstallmentReminder(ctx context.Context, email, name, vehicle string, amount string, due time.Time) error {
	f.sent = append(f.sent, sentMail{email, "reminder " + vehicle + " " + amount})
	return nil
}
func (f *fakeEmail) SendStaffInvitation(ctx context.Context, email, name, link string) error {
	return nil
}
func (f *fakeEmail) SendBenefitUnlocked(ctx context.Context, email, name, benefit string) error {
	f.sent = append(f.sent, sentMail{email, "unlocked " + benefit})
	return nil
}

type fixture struct {
	bookings  *fakeBookings
	customers *fakeCustomers
	payments  *fakePayments
	email     *fakeEmail
	runner    *JobRunner
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	settings, err := currency.NewSettings(currency.USD, nil)
	require.NoError(t, err)

	price := decimal.NewFromInt(50)
	f := &fixture{
		bookings:  &fakeBookings{},
		customers: &fakeCustomers{customers: map[string]*domain.Customer{"user_1": {UserID: "user_1", Email: "jane@example.com", Name: "Jane", RewardPoints: 40}}},
		payments:  &fakePayments{},
		email:     &fakeEmail{},
		now:       time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	services := &Services{
		Email:   f.email,
		Loyalty: &fakeLoyalty{customers: f.customers, benefit: loyalty.Benefit{ID: "3", Title: "Free GPS", Kind: loyalty.KindPointsCost, MinimumMoneySpent: &price}},
	}
	cfg := &config.Config{Payment: config.PaymentConfig{SessionTTLMinutes: 30}}
	f.runner = NewJobRunner(Stores{Bookings: f.bookings, Customers: f.customers, Cars: fakeCars{}, Payments: f.payments}, services, cfg, settings)
	f.runner.now = func() time.Time { return f.now }
	return f
}

func TestCompleteEndedBookings(t *testing.T) {
	f := newFixture(t)
	f.bookings.ended = []domain.Booking{
		{ID: 1, UserID: "user_1", TotalCost: decimal.RequireFromString("180.50"), Status: domain.BookingStatusConfirmed},
	}

	n, err := f.runner.completeEndedBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []int32{1}, f.bookings.completed)
	assert.Equal(t, 58, f.customers.customers["user_1"].RewardPoints)

	require.Len(t, f.email.sent, 1)
	assert.Equal(t, "unlocked Free GPS", f.email.sent[0].subject)
}

func TestCompleteEndedBookings_NoUnlockNoEmail(t *testing.T) {
	f := newFixture(t)
	f.bookings.ended = []domain.Booking{
		{ID: 2, UserID: "user_1", TotalCost: decimal.NewFromInt(20), Status: domain.BookingStatusConfirmed},
	}

	_, err := f.runner.completeEndedBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, f.customers.customers["user_1"].RewardPoints)
	assert.Empty(t, f.email.sent)
}

func TestSendInstallmentReminders(t *testing.T) {
	f := newFixture(t)
	plan := pricing.InstallmentPlan{AmountPerInstallment: decimal.NewFromInt(200), RemainingInstallments: 2, NextInstallmentDate: f.now.Add(6 * time.Hour)}
	f.bookings.due = []domain.Booking{
		{ID: 5, UserID: "user_1", CarID: 9, Installment: &plan},
		{ID: 6, UserID: "ghost", CarID: 9, Installment: &plan},
		{ID: 7, UserID: "user_1", CarID: 9},
	}

	n, err := f.runner.sendInstallmentReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, f.now, f.bookings.dueFrom)
	assert.Equal(t, f.now.Add(24*time.Hour), f.bookings.dueTo)
	require.Len(t, f.email.sent, 1)
	assert.Equal(t, "reminder Fiat Egea $200.00", f.email.sent[0].subject)
}

func TestSendInstallmentReminders_PreferredCurrency(t *testing.T) {
	f := newFixture(t)
	f.customers.customers["user_1"].Currency = "TRY"
	plan := pricing.InstallmentPlan{AmountPerInstallment: decimal.NewFromInt(200), RemainingInstallments: 2, NextInstallmentDate: f.now.Add(time.Hour)}
	f.bookings.due = []domain.Booking{{ID: 5, UserID: "user_1", CarID: 9, Installment: &plan}}

	_, err := f.runner.sendInstallmentReminders(context.Background())
	require.NoError(t, err)
	require.Len(t, f.email.sent, 1)
	assert.Equal(t, "reminder Fiat Egea ₺6800.00", f.email.sent[0].subject)
}

func TestAdvanceInstallments(t *testing.T) {
	f := newFixture(t)
	due := f.now.Add(-time.Hour)
	plan := pricing.InstallmentPlan{AmountPerInstallment: decimal.NewFromInt(200), RemainingInstallments: 2, NextInstallmentDate: due}
	f.bookings.due = []domain.Booking{{ID: 5, PaidAmount: decimal.NewFromInt(200), Installment: &plan}}

	n, err := f.runner.advanceInstallments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, f.bookings.dueFrom.IsZero())

	got := f.bookings.advanced[5]
	assert.Equal(t, 1, got.remaining)
	assert.Equal(t, due.Add(30*24*time.Hour), got.next)
	assert.Equal(t, "400", got.paid.String())
}

func TestExpireStalePaymentSessions(t *testing.T) {
	f := newFixture(t)

	n, err := f.runner.expireStalePaymentSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, f.now.Add(-30*time.Minute), f.payments.olderThan)
}

func TestRunWithRecovery(t *testing.T) {
	f := newFixture(t)
	assert.NotPanics(t, func() {
		f.runner.runWithRecovery("panics", func() { panic("boom") })
	})
}
