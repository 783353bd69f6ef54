package postgres

import (
	"context"
	"database/sql"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/pricing"
	"carrental-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, user_id, car_id, start_date, end_date, COALESCE(pickup_location, ''), COALESCE(dropoff_location, ''),
	insurance, gps, child_seat, chauffeur_service, travel_kit, promotion_id, payment_plan, total_cost, paid_amount,
	insurance_type, installment_frequency, installment_total, installment_amount, installment_remaining,
	installment_next_date, status, created_on, updated_on`

func scanBooking(row rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	var (
		promotionID sql.NullInt32
		frequency   sql.NullString
		total       sql.NullInt32
		amount      decimal.NullDecimal
		remaining   sql.NullInt32
		nextDate    sql.NullTime
	)
	err := row.Scan(&b.ID, &b.UserID, &b.CarID, &b.StartDate, &b.EndDate, &b.PickupLocation, &b.DropoffLocation,
		&b.Extras.Insurance, &b.Extras.GPS, &b.Extras.ChildSeat, &b.Extras.ChauffeurService, &b.Extras.TravelKit,
		&promotionID, &b.PaymentPlan, &b.TotalCost, &b.PaidAmount,
		&b.Insurance, &frequency, &total, &amount, &remaining,
		&nextDate, &b.Status, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return nil, err
	}

	if promotionID.Valid {
		id := promotionID.Int32
		b.PromotionID = &id
	}
	if frequency.Valid {
		b.Installment = &pricing.InstallmentPlan{
			Frequency:             frequency.String,
			TotalInstallments:     int(total.Int32),
			AmountPerInstallment:  amount.Decimal,
			RemainingInstallments: int(remaining.Int32),
			NextInstallmentDate:   nextDate.Time,
		}
	}
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	logger.EnterMethod("bookingRepository.Create", "userID", b.UserID, "carID", b.CarID)

	var (
		frequency sql.NullString
		total     sql.NullInt32
		amount    decimal.NullDecimal
		remaining sql.NullInt32
		nextDate  sql.NullTime
	)
	if ip := b.Installment; ip != nil {
		frequency = sql.NullString{String: ip.Frequency, Valid: true}
		total = sql.NullInt32{Int32: int32(ip.TotalInstallments), Valid: true}
		amount = decimal.NewNullDecimal(ip.AmountPerInstallment)
		remaining = sql.NullInt32{Int32: int32(ip.RemainingInstallments), Valid: true}
		nextDate = sql.NullTime{Time: ip.NextInstallmentDate, Valid: true}
	}

	now := time.Now()
	query := `INSERT INTO bookings (user_id, car_id, start_date, end_date, pickup_location, dropoff_location,
	          insurance, gps, child_seat, chauffeur_service, travel_kit, promotion_id, payment_plan, total_cost, paid_amount,
	          insurance_type, installment_frequency, installment_total, installment_amount, installment_remaining,
	          installment_next_date, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $23)
	          RETURNING id`
	logger.DatabaseCall("INSERT", "bookings", "userID", b.UserID)
	err := r.db.QueryRowContext(ctx, query, b.UserID, b.CarID, b.StartDate, b.EndDate, b.PickupLocation, b.DropoffLocation,
		b.Extras.Insurance, b.Extras.GPS, b.Extras.ChildSeat, b.Extras.ChauffeurService, b.Extras.TravelKit,
		b.PromotionID, b.PaymentPlan, b.TotalCost, b.PaidAmount,
		b.Insurance, frequency, total, amount, remaining, nextDate, b.Status, now).Scan(&b.ID)
	logger.DatabaseResult("INSERT", 1, err, "bookingID", b.ID)
	if err != nil {
		logger.ExitMethodWithError("bookingRepository.Create", err)
		return err
	}

	b.CreatedOn, b.UpdatedOn = now, now
	logger.ExitMethod("bookingRepository.Create", "bookingID", b.ID)
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.db.QueryRowContext(ctx, query, id))
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY start_date DESC`
	return r.list(ctx, query, userID)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int32, status domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_on = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// Confirm records a captured payment on a pending booking.
// sql.ErrNoRows means the booking is gone or no longer pending.
func (r *bookingRepository) Confirm(ctx context.Context, id int32, paid decimal.Decimal) error {
	query := `UPDATE bookings SET status = $1, paid_amount = paid_amount + $2, updated_on = $3
	          WHERE id = $4 AND status = $5`
	logger.DatabaseCall("UPDATE", "bookings.status", "bookingID", id, "paid", paid)
	res, err := r.db.ExecContext(ctx, query, domain.BookingStatusConfirmed, paid, time.Now(), id, domain.BookingStatusPending)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "bookingID", id)
		return err
	}
	return expectAffected(res)
}

// ListEnded returns confirmed bookings whose rental period finished before the given time
func (r *bookingRepository) ListEnded(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 AND end_date < $2 ORDER BY end_date`
	return r.list(ctx, query, domain.BookingStatusConfirmed, before)
}

// ListInstallmentsDue returns active installment bookings with a payment due in [from, to)
func (r *bookingRepository) ListInstallmentsDue(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE installment_remaining > 0 AND installment_next_date >= $1 AND installment_next_date < $2
	          AND status <> $3 ORDER BY installment_next_date`
	return r.list(ctx, query, from, to, domain.BookingStatusCancelled)
}

func (r *bookingRepository) AdvanceInstallment(ctx context.Context, id int32, remaining int, next time.Time, paid decimal.Decimal) error {
	query := `UPDATE bookings SET installment_remaining = $1, installment_next_date = $2, paid_amount = $3, updated_on = $4
	          WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, remaining, next, paid, time.Now(), id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *bookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
