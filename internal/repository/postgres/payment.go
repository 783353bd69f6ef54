package postgres

import (
	"context"
	"database/sql"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreateSession(ctx context.Context, s *domain.PaymentSession) error {
	now := time.Now()
	query := `INSERT INTO payment_sessions (id, user_id, kind, booking_id, plan_id, amount, status, subscription_id, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`
	logger.DatabaseCall("INSERT", "payment_sessions", "sessionID", s.ID, "kind", s.Kind)
	res, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.Kind, s.BookingID, s.PlanID, s.Amount, s.Status, s.SubscriptionID, now)
	var affected int64
	if err == nil {
		affected, _ = res.RowsAffected()
	}
	logger.DatabaseResult("INSERT", affected, err, "sessionID", s.ID)
	if err != nil {
		return err
	}
	s.CreatedOn, s.UpdatedOn = now, now
	return nil
}

func (r *paymentRepository) GetSession(ctx context.Context, id string) (*domain.PaymentSession, error) {
	s := &domain.PaymentSession{}
	var bookingID sql.NullInt32
	query := `SELECT id, user_id, kind, booking_id, COALESCE(plan_id, ''), amount, status, COALESCE(subscription_id, ''), created_on, updated_on
	          FROM payment_sessions WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.UserID, &s.Kind, &bookingID, &s.PlanID, &s.Amount,
		&s.Status, &s.SubscriptionID, &s.CreatedOn, &s.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if bookingID.Valid {
		b := bookingID.Int32
		s.BookingID = &b
	}
	return s, nil
}

func (r *paymentRepository) UpdateSessionStatus(ctx context.Context, id string, status domain.PaymentSessionStatus, subscriptionID string) error {
	query := `UPDATE payment_sessions SET status = $1, subscription_id = COALESCE(NULLIF($2, ''), subscription_id), updated_on = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, status, subscriptionID, time.Now(), id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// ExpireStale marks pending sessions created before olderThan as expired
func (r *paymentRepository) ExpireStale(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `UPDATE payment_sessions SET status = $1, updated_on = $2 WHERE status = $3 AND created_on < $4`
	res, err := r.db.ExecContext(ctx, query, domain.PaymentSessionExpired, time.Now(), domain.PaymentSessionPending, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
