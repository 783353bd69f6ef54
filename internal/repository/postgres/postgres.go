package postgres

import (
	"database/sql"

	"carrental-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.CarRepository
	repository.CustomerRepository
	repository.BookingRepository
	repository.PromotionRepository
	repository.PaymentRepository
	repository.NotificationRepository
	repository.StaffRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		CarRepository:          NewCarRepository(db),
		CustomerRepository:     NewCustomerRepository(db),
		BookingRepository:      NewBookingRepository(db),
		PromotionRepository:    NewPromotionRepository(db),
		PaymentRepository:      NewPaymentRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		StaffRepository:        NewStaffRepository(db),
	}
}

// DB exposes the underlying handle for health checks
func (s *Store) DB() *sql.DB {
	return s.db
}
