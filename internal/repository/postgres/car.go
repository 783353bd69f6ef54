package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"

	"github.com/lib/pq"
)

type carRepository struct {
	db *sql.DB
}

func NewCarRepository(db *sql.DB) repository.CarRepository {
	return &carRepository{db: db}
}

const carColumns = `id, registration_number, maker, model, year, COALESCE(engine_type, ''), COALESCE(fuel_type, ''),
	COALESCE(transmission, ''), COALESCE(drive, ''), doors, seats, COALESCE(color, ''), COALESCE(description, ''),
	price_per_day, golden_member_only, categories, pictures, created_on`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCar(row rowScanner) (*domain.Car, error) {
	c := &domain.Car{}
	err := row.Scan(&c.ID, &c.RegistrationNumber, &c.Maker, &c.Model, &c.Year, &c.EngineType, &c.FuelType,
		&c.Transmission, &c.Drive, &c.Doors, &c.Seats, &c.Color, &c.Description,
		&c.PricePerDay, &c.GoldenMemberOnly, pq.Array(&c.Categories), pq.Array(&c.Pictures), &c.CreatedOn)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *carRepository) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	return scanCar(r.db.QueryRowContext(ctx, query, id))
}

func (r *carRepository) GetByRegistration(ctx context.Context, registration string) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE registration_number = $1`
	return scanCar(r.db.QueryRowContext(ctx, query, registration))
}

func (r *carRepository) Search(ctx context.Context, f domain.CarFilter) ([]domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE 1=1`
	var args []any
	argIdx := 1

	addText := func(column, value string) {
		if value == "" {
			return
		}
		query += fmt.Sprintf(" AND %s ILIKE $%d", column, argIdx)
		args = append(args, "%"+value+"%")
		argIdx++
	}
	addEqual := func(column string, value any) {
		query += fmt.Sprintf(" AND %s = $%d", column, argIdx)
		args = append(args, value)
		argIdx++
	}

	addText("maker", f.Maker)
	addText("model", f.Model)
	if f.Year > 0 {
		addEqual("year", f.Year)
	}
	if f.EngineType != "" {
		addEqual("engine_type", f.EngineType)
	}
	if f.FuelType != "" {
		addEqual("fuel_type", f.FuelType)
	}
	if f.Transmission != "" {
		addEqual("transmission", f.Transmission)
	}
	if f.Drive != "" {
		addEqual("drive", f.Drive)
	}
	if f.Doors > 0 {
		addEqual("doors", f.Doors)
	}
	if f.GoldenOnly {
		addEqual("golden_member_only", true)
	}
	if f.Category != "" && f.Category != "all" {
		query += fmt.Sprintf(" AND $%d = ANY(categories)", argIdx)
		args = append(args, f.Category)
		argIdx++
	}
	query += " ORDER BY maker, model"

	logger.DatabaseCall("SELECT", "cars", "filters", len(args))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	cars, err := collectCars(rows)
	logger.DatabaseResult("SELECT", int64(len(cars)), err)
	return cars, err
}

func (r *carRepository) ListByCategory(ctx context.Context, category string) ([]domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE $1 = ANY(categories) ORDER BY maker, model`
	rows, err := r.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCars(rows)
}

func (r *carRepository) AddPicture(ctx context.Context, carID int32, url string) error {
	query := `UPDATE cars SET pictures = array_append(pictures, $1) WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, url, carID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func collectCars(rows *sql.Rows) ([]domain.Car, error) {
	var cars []domain.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, *c)
	}
	return cars, rows.Err()
}

// expectAffected turns an update that touched no rows into sql.ErrNoRows
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
