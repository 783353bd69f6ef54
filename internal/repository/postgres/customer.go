package postgres

import (
	"context"
	"database/sql"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
)

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, user_id, COALESCE(email, ''), COALESCE(name, ''), nationality, age, phone_number,
	license_number, address, date_of_birth, COALESCE(expiration_date, ''), golden_member, reward_points,
	COALESCE(preferred_currency, ''), created_on, updated_on`

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	c := &domain.Customer{}
	err := row.Scan(&c.ID, &c.UserID, &c.Email, &c.Name, &c.Nationality, &c.Age, &c.PhoneNumber,
		&c.LicenseNumber, &c.Address, &c.DateOfBirth, &c.ExpirationDate, &c.GoldenMember, &c.RewardPoints,
		&c.Currency, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) GetByUserID(ctx context.Context, userID string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE user_id = $1`
	return scanCustomer(r.db.QueryRowContext(ctx, query, userID))
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	logger.EnterMethod("customerRepository.Create", "userID", c.UserID)
	now := time.Now()
	query := `INSERT INTO customers (user_id, email, name, nationality, age, phone_number, license_number, address,
	          date_of_birth, expiration_date, golden_member, reward_points, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, c.UserID, c.Email, c.Name, c.Nationality, c.Age, c.PhoneNumber,
		c.LicenseNumber, c.Address, c.DateOfBirth, c.ExpirationDate, c.GoldenMember, c.RewardPoints, now).Scan(&c.ID)
	if err != nil {
		logger.ExitMethodWithError("customerRepository.Create", err, "userID", c.UserID)
		return err
	}
	c.CreatedOn, c.UpdatedOn = now, now
	logger.ExitMethod("customerRepository.Create", "customerID", c.ID)
	return nil
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE customers SET email=$1, name=$2, nationality=$3, age=$4, phone_number=$5, license_number=$6,
	          address=$7, date_of_birth=$8, expiration_date=$9, updated_on=$10 WHERE user_id=$11`
	res, err := r.db.ExecContext(ctx, query, c.Email, c.Name, c.Nationality, c.Age, c.PhoneNumber, c.LicenseNumber,
		c.Address, c.DateOfBirth, c.ExpirationDate, time.Now(), c.UserID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *customerRepository) Delete(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *customerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_on`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (r *customerRepository) SetGoldenMember(ctx context.Context, userID string, golden bool) error {
	query := `UPDATE customers SET golden_member = $1, updated_on = $2 WHERE user_id = $3`
	res, err := r.db.ExecContext(ctx, query, golden, time.Now(), userID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// AddRewardPoints adjusts the balance atomically and returns the new value.
// The balance never goes below zero.
func (r *customerRepository) AddRewardPoints(ctx context.Context, userID string, delta int) (int, error) {
	query := `UPDATE customers SET reward_points = GREATEST(reward_points + $1, 0), updated_on = $2
	          WHERE user_id = $3 RETURNING reward_points`
	logger.DatabaseCall("UPDATE", "customers.reward_points", "userID", userID, "delta", delta)
	var points int
	err := r.db.QueryRowContext(ctx, query, delta, time.Now(), userID).Scan(&points)
	logger.DatabaseResult("UPDATE", 1, err, "userID", userID)
	return points, err
}

// SpendRewardPoints debits cost only while the balance covers it.
// sql.ErrNoRows means the balance was short or the customer is unknown.
func (r *customerRepository) SpendRewardPoints(ctx context.Context, userID string, cost int) (int, error) {
	query := `UPDATE customers SET reward_points = reward_points - $1, updated_on = $2
	          WHERE user_id = $3 AND reward_points >= $1 RETURNING reward_points`
	logger.DatabaseCall("UPDATE", "customers.reward_points", "userID", userID, "cost", cost)
	var points int
	err := r.db.QueryRowContext(ctx, query, cost, time.Now(), userID).Scan(&points)
	logger.DatabaseResult("UPDATE", 1, err, "userID", userID)
	return points, err
}

func (r *customerRepository) SetPreferredCurrency(ctx context.Context, userID, code string) error {
	query := `UPDATE customers SET preferred_currency = $1, updated_on = $2 WHERE user_id = $3`
	res, err := r.db.ExecContext(ctx, query, code, time.Now(), userID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
