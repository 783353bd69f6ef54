package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"carrental-backend/internal/config"
	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
)

type Car struct {
	RegistrationNumber string   `yaml:"registration_number"`
	Maker              string   `yaml:"maker"`
	Model              string   `yaml:"model"`
	Year               int      `yaml:"year"`
	EngineType         string   `yaml:"engine_type"`
	FuelType           string   `yaml:"fuel_type"`
	Transmission       string   `yaml:"transmission"`
	Drive              string   `yaml:"drive"`
	Doors              int      `yaml:"doors"`
	Seats              int      `yaml:"seats"`
	Color              string   `yaml:"color"`
	Description        string   `yaml:"description"`
	PricePerDay        string   `yaml:"price_per_day"`
	GoldenMemberOnly   bool     `yaml:"golden_member_only"`
	Categories         []string `yaml:"categories"`
}

type Promotion struct {
	Title             string   `yaml:"title"`
	Description       string   `yaml:"description"`
	Type              string   `yaml:"type"`
	Value             string   `yaml:"value"`
	Target            string   `yaml:"target"`
	SpecificTarget    []string `yaml:"specific_target"`
	MinimumMoneySpent string   `yaml:"minimum_money_spent"`
	MinimumRentals    *int     `yaml:"minimum_rentals"`
	StartDate         string   `yaml:"start_date"` // yyyy-mm-dd
	EndDate           string   `yaml:"end_date"`
}

type SetupData struct {
	Cars       []Car       `yaml:"cars"`
	Promotions []Promotion `yaml:"promotions"`
}

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	seedPath := flag.String("seed", "config/seed.dev.yaml", "Path to the catalogue seed file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	setupData, err := readSetupFile(*seedPath)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Connected to database", "host", cfg.Database.Host, "database", cfg.Database.Database)

	cars, promos, err := populateData(db, setupData)
	if err != nil {
		log.Fatalf("Failed to populate data: %v", err)
	}
	logger.Info("Catalogue seeded", "cars", cars, "promotions", promos)
}

func readSetupFile(filename string) (*SetupData, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return parseSetupData(data)
}

func parseSetupData(data []byte) (*SetupData, error) {
	var setupData SetupData
	if err := yaml.Unmarshal(data, &setupData); err != nil {
		return nil, err
	}
	return &setupData, nil
}

// populateData inserts the catalogue in one transaction. Existing cars and promotions are kept.
func populateData(db *sql.DB, data *SetupData) (int, int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	cars := 0
	for _, c := range data.Cars {
		price, err := decimal.NewFromString(c.PricePerDay)
		if err != nil {
			return 0, 0, fmt.Errorf("car %s: invalid price_per_day: %w", c.RegistrationNumber, err)
		}
		res, err := tx.Exec(`
			INSERT INTO cars (registration_number, maker, model, year, engine_type, fuel_type, transmission, drive,
			                  doors, seats, color, description, price_per_day, golden_member_only, categories, created_on)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			ON CONFLICT (registration_number) DO NOTHING
		`,
			c.RegistrationNumber, c.Maker, c.Model, c.Year, c.EngineType, c.FuelType, c.Transmission, c.Drive,
			c.Doors, c.Seats, c.Color, c.Description, price, c.GoldenMemberOnly, pq.Array(c.Categories), time.Now(),
		)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to insert car %s: %w", c.RegistrationNumber, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			cars++
			logger.Info("Created car", "registration", c.RegistrationNumber)
		}
	}

	promos := 0
	for _, p := range data.Promotions {
		args, err := promotionArgs(p)
		if err != nil {
			return 0, 0, err
		}
		res, err := tx.Exec(`
			INSERT INTO promotions (title, description, type, value, target, specific_target,
			                        minimum_money_spent, minimum_rentals, start_date, end_date)
			SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
			WHERE NOT EXISTS (SELECT 1 FROM promotions WHERE title = $1)
		`, args...)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to insert promotion %q: %w", p.Title, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			promos++
			logger.Info("Created promotion", "title", p.Title, "type", p.Type)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return cars, promos, nil
}

func promotionArgs(p Promotion) ([]any, error) {
	switch domain.PromotionType(p.Type) {
	case domain.PromotionTypeDiscount, domain.PromotionTypeOffer, domain.PromotionTypeUpgrade,
		domain.PromotionTypePermanent, domain.PromotionTypeRewardPoints:
	default:
		return nil, fmt.Errorf("promotion %q: unknown type %q", p.Title, p.Type)
	}

	value := decimal.Zero
	if p.Value != "" {
		v, err := decimal.NewFromString(p.Value)
		if err != nil {
			return nil, fmt.Errorf("promotion %q: invalid value: %w", p.Title, err)
		}
		value = v
	}
	target := p.Target
	if target == "" {
		target = string(domain.PromotionTargetNone)
	}

	var minMoney decimal.NullDecimal
	if p.MinimumMoneySpent != "" {
		m, err := decimal.NewFromString(p.MinimumMoneySpent)
		if err != nil {
			return nil, fmt.Errorf("promotion %q: invalid minimum_money_spent: %w", p.Title, err)
		}
		minMoney = decimal.NewNullDecimal(m)
	}
	var minRentals sql.NullInt32
	if p.MinimumRentals != nil {
		minRentals = sql.NullInt32{Int32: int32(*p.MinimumRentals), Valid: true}
	}

	start, err := parseDate(p.StartDate)
	if err != nil {
		return nil, fmt.Errorf("promotion %q: %w", p.Title, err)
	}
	end, err := parseDate(p.EndDate)
	if err != nil {
		return nil, fmt.Errorf("promotion %q: %w", p.Title, err)
	}

	specific := p.SpecificTarget
	if specific == nil {
		specific = []string{}
	}
	return []any{p.Title, p.Description, p.Type, value, target, pq.Array(specific),
		minMoney, minRentals, start, end}, nil
}

func parseDate(s string) (sql.NullTime, error) {
	if s == "" {
		return sql.NullTime{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return sql.NullTime{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd", s)
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}
