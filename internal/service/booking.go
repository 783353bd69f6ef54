package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"carrental-backend/internal/currency"
	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/payment"
	"carrental-backend/internal/pricing"
	"carrental-backend/internal/promotion"
	"carrental-backend/internal/repository"

	"github.com/google/uuid"
)

type bookingService struct {
	carRepo      repository.CarRepository
	customerRepo repository.CustomerRepository
	bookingRepo  repository.BookingRepository
	promoRepo    repository.PromotionRepository
	paymentRepo  repository.PaymentRepository
	noteRepo     repository.NotificationRepository
	emailSvc     EmailService
	gateway      payment.Gateway
	currency     *currency.Settings
	now          func() time.Time
}

func NewBookingService(
	carRepo repository.CarRepository,
	customerRepo repository.CustomerRepository,
	bookingRepo repository.BookingRepository,
	promoRepo repository.PromotionRepository,
	paymentRepo repository.PaymentRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	gateway payment.Gateway,
	settings *currency.Settings,
) BookingService {
	return &bookingService{
		carRepo:      carRepo,
		customerRepo: customerRepo,
		bookingRepo:  bookingRepo,
		promoRepo:    promoRepo,
		paymentRepo:  paymentRepo,
		noteRepo:     noteRepo,
		emailSvc:     emailSvc,
		gateway:      gateway,
		currency:     settings,
		now:          time.Now,
	}
}

func (s *bookingService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	car, err := s.carRepo.GetByID(ctx, req.CarID)
	if err != nil {
		return nil, translate(err, "vehicle")
	}
	preferred := req.Currency
	if preferred == "" && req.UserID != "" {
		if c, err := s.customerRepo.GetByUserID(ctx, req.UserID); err == nil {
			preferred = c.Currency
		}
	}
	return s.quote(ctx, car, req, preferred)
}

// quote resolves the selected promotion against the car and prices the request.
// Amounts are formatted in the preferred currency, or the default when it is empty.
func (s *bookingService) quote(ctx context.Context, car *domain.Car, req QuoteRequest, preferred string) (*Quote, error) {
	if preferred != "" {
		if _, err := currency.ParseCode(preferred); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	days := pricing.DurationDays(req.StartDate, req.EndDate)
	q := pricing.Quote{
		BaseDailyRate: car.PricePerDay,
		DurationDays:  days,
		Extras:        req.Extras,
		Plan:          planOrDefault(req.Plan),
	}

	var selected *domain.Promotion
	if req.PromotionID != nil {
		p, err := s.resolvePromotion(ctx, car, req.UserID, *req.PromotionID)
		if err != nil {
			return nil, err
		}
		selected = p
		pct := p.Value
		q.DiscountPercent = &pct
	}

	res, err := pricing.ComputeQuote(q)
	if err != nil {
		return nil, translate(err, "quote")
	}

	code := s.currency.Resolve(preferred)
	return &Quote{
		QuoteResult:      res,
		DurationDays:     days,
		Promotion:        selected,
		Currency:         string(code),
		FormattedTotal:   s.currency.FormatIn(res.TotalCost, string(code)),
		FormattedDisplay: s.currency.FormatIn(res.DisplayAmount, string(code)),
	}, nil
}

func (s *bookingService) resolvePromotion(ctx context.Context, car *domain.Car, userID string, id int32) (*domain.Promotion, error) {
	promos, err := s.promoRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	var redeemed []domain.UserPromotion
	if userID != "" {
		if redeemed, err = s.promoRepo.ListRedeemed(ctx, userID); err != nil {
			return nil, err
		}
	}

	p, ok := promotion.Find(promotion.Applicable(promos, car, redeemed), id)
	if !ok {
		return nil, fmt.Errorf("promotion %d: %w", id, ErrPromotionNotApplicable)
	}
	return &p, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingResult, error) {
	logger.EnterMethod("bookingService.CreateBooking", "userID", req.UserID, "carID", req.CarID)

	if req.UserID == "" {
		return nil, ErrUnauthorized
	}
	if req.PickupLocation == "" {
		return nil, fmt.Errorf("%w: pickup location is required", ErrInvalidInput)
	}

	customer, err := s.customerRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		return nil, translate(err, "customer profile")
	}
	car, err := s.carRepo.GetByID(ctx, req.CarID)
	if err != nil {
		return nil, translate(err, "vehicle")
	}

	if !customer.GoldenMember && (req.Extras.RequiresGoldenMember() || car.GoldenMemberOnly) {
		return nil, ErrGoldenMemberRequired
	}

	preferred := req.Currency
	if preferred == "" {
		preferred = customer.Currency
	}
	quote, err := s.quote(ctx, car, req.QuoteRequest, preferred)
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err)
		return nil, err
	}

	now := s.now()
	booking := &domain.Booking{
		UserID:          req.UserID,
		CarID:           car.ID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		Extras:          req.Extras,
		PromotionID:     req.PromotionID,
		PaymentPlan:     planOrDefault(req.Plan),
		TotalCost:       quote.TotalCost,
		Insurance:       domain.InsuranceBasic,
		Status:          domain.BookingStatusPending,
	}
	if req.Extras.Insurance {
		booking.Insurance = domain.InsuranceFull
	}
	if booking.PaymentPlan == pricing.PaymentPlanInstallment {
		plan := pricing.InstallmentSchedule(quote.TotalCost, now)
		booking.Installment = &plan
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	vehicle := fmt.Sprintf("%s %s", car.Maker, car.Model)
	note := &domain.Notification{
		UserID:  req.UserID,
		Type:    "new_booking",
		Title:   "Booking received",
		Message: fmt.Sprintf("Your booking for the %s from %s to %s was received", vehicle, req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02")),
		Attributes: map[string]string{
			"booking_id": strconv.Itoa(int(booking.ID)),
			"car_id":     strconv.Itoa(int(car.ID)),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to create booking notification", "bookingID", booking.ID, "error", err)
	}

	amount := quote.TotalCost
	if booking.PaymentPlan == pricing.PaymentPlanInstallment {
		amount = quote.DisplayAmount.Round(2)
	}
	bookingID := booking.ID
	session := &domain.PaymentSession{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Kind:      domain.PaymentKindBooking,
		BookingID: &bookingID,
		Amount:    amount,
		Status:    domain.PaymentSessionPending,
	}
	if err := s.paymentRepo.CreateSession(ctx, session); err != nil {
		s.abandon(ctx, booking.ID, "")
		logger.ExitMethodWithError("bookingService.CreateBooking", err)
		return nil, fmt.Errorf("failed to create payment session: %w", err)
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, amount, map[string]string{
		payment.MetadataKind:      payment.KindBooking,
		payment.MetadataUserID:    req.UserID,
		payment.MetadataSessionID: session.ID,
		payment.MetadataBookingID: strconv.Itoa(int(booking.ID)),
	})
	if err != nil {
		s.abandon(ctx, booking.ID, session.ID)
		logger.ExitMethodWithError("bookingService.CreateBooking", err)
		return nil, fmt.Errorf("failed to start checkout: %w", err)
	}

	if quote.Promotion != nil && quote.Promotion.Type == domain.PromotionTypePermanent {
		if err := s.promoRepo.MarkUsed(ctx, req.UserID, quote.Promotion.ID); err != nil {
			logger.Warn("Failed to mark promotion used", "promotionID", quote.Promotion.ID, "error", err)
		}
	}

	if err := s.emailSvc.SendBookingConfirmation(ctx, customer.Email, customer.Name, vehicle, booking.ID, s.currency.FormatIn(amount, quote.Currency)); err != nil {
		logger.Warn("Failed to send booking confirmation", "bookingID", booking.ID, "error", err)
	}

	logger.ExitMethod("bookingService.CreateBooking", "bookingID", booking.ID, "sessionID", session.ID)
	return &BookingResult{Booking: booking, Payment: session, Quote: quote, ClientSecret: intent.ClientSecret}, nil
}

// abandon cancels a booking whose checkout could not be started so it never
// lingers as pending. sessionID is empty when no session was stored.
func (s *bookingService) abandon(ctx context.Context, bookingID int32, sessionID string) {
	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.BookingStatusCancelled); err != nil {
		logger.Error("Failed to cancel abandoned booking", "bookingID", bookingID, "error", err)
	}
	if sessionID == "" {
		return
	}
	if err := s.paymentRepo.UpdateSessionStatus(ctx, sessionID, domain.PaymentSessionExpired, ""); err != nil {
		logger.Error("Failed to expire abandoned payment session", "sessionID", sessionID, "error", err)
	}
}

func planOrDefault(plan pricing.PaymentPlan) pricing.PaymentPlan {
	if plan == "" {
		return pricing.PaymentPlanFull
	}
	return plan
}

func (s *bookingService) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookingRepo.ListByUser(ctx, userID)
}

func (s *bookingService) CancelBooking(ctx context.Context, userID string, bookingID int32) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.CancelBooking", "userID", userID, "bookingID", bookingID)

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, translate(err, "booking")
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	if !b.Cancellable() {
		return nil, fmt.Errorf("%w: booking is %s", ErrConflict, b.Status)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.BookingStatusCancelled); err != nil {
		return nil, translate(err, "booking")
	}
	b.Status = domain.BookingStatusCancelled

	logger.ExitMethod("bookingService.CancelBooking", "bookingID", bookingID)
	return b, nil
}

// HandlePaymentCompleted closes a booking payment session and confirms the booking.
// Replayed events for a completed session are a no-op.
func (s *bookingService) HandlePaymentCompleted(ctx context.Context, sessionID string) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.HandlePaymentCompleted", "sessionID", sessionID)

	session, err := s.paymentRepo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, translate(err, "payment session")
	}
	if session.Kind != domain.PaymentKindBooking || session.BookingID == nil {
		return nil, fmt.Errorf("%w: session %s is not a booking payment", ErrInvalidInput, sessionID)
	}
	b, err := s.bookingRepo.GetByID(ctx, *session.BookingID)
	if err != nil {
		return nil, translate(err, "booking")
	}
	if session.Status == domain.PaymentSessionCompleted {
		logger.Debug("Payment session already completed", "sessionID", sessionID)
		return b, nil
	}

	if err := s.paymentRepo.UpdateSessionStatus(ctx, sessionID, domain.PaymentSessionCompleted, ""); err != nil {
		return nil, translate(err, "payment session")
	}

	if b.Status != domain.BookingStatusPending {
		// refunds are handled with the processor
		logger.Warn("Payment received for booking that is not pending", "bookingID", b.ID, "status", b.Status)
		return b, nil
	}
	err = s.bookingRepo.Confirm(ctx, b.ID, session.Amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("booking %d changed while confirming: %w", b.ID, ErrConflict)
	}
	if err != nil {
		logger.ExitMethodWithError("bookingService.HandlePaymentCompleted", err)
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}
	b.Status = domain.BookingStatusConfirmed
	b.PaidAmount = b.PaidAmount.Add(session.Amount)

	note := &domain.Notification{
		UserID:     b.UserID,
		Type:       "booking_confirmed",
		Title:      "Booking confirmed",
		Message:    fmt.Sprintf("Payment received. Your booking #%d is confirmed", b.ID),
		Attributes: map[string]string{"booking_id": strconv.Itoa(int(b.ID))},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to create confirmation notification", "bookingID", b.ID, "error", err)
	}

	logger.ExitMethod("bookingService.HandlePaymentCompleted", "bookingID", b.ID)
	return b, nil
}
