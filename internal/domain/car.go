package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Car struct {
	ID                 int32           `json:"id"`
	RegistrationNumber string          `json:"registration_number"`
	Maker              string          `json:"maker"`
	Model              string          `json:"model"`
	Year               int             `json:"year"`
	EngineType         string          `json:"engine_type"`
	FuelType           string          `json:"fuel_type"`
	Transmission       string          `json:"transmission"`
	Drive              string          `json:"drive"`
	Doors              int             `json:"doors"`
	Seats              int             `json:"seats"`
	Color              string          `json:"color"`
	Description        string          `json:"description"`
	PricePerDay        decimal.Decimal `json:"price_per_day"`
	GoldenMemberOnly   bool            `json:"golden_member_only"`
	Categories         []string        `json:"categories"`
	Pictures           []string        `json:"pictures"`
	CreatedOn          time.Time       `json:"created_on"`
}

// InCategory reports whether the car is listed under the given category
func (c *Car) InCategory(category string) bool {
	for _, cat := range c.Categories {
		if cat == category {
			return true
		}
	}
	return false
}

// CarFilter narrows a vehicle search. Zero values are ignored.
type CarFilter struct {
	Maker          string `json:"maker"`
	Model          string `json:"model"`
	Year           int    `json:"year"`
	EngineType     string `json:"engine_type"`
	FuelType       string `json:"fuel_type"`
	Transmission   string `json:"transmission"`
	Drive          string `json:"drive"`
	Doors          int    `json:"doors"`
	Category       string `json:"category"`
	GoldenOnly     bool   `json:"golden_only"`
	PromotionsOnly bool   `json:"promotions_only"`
}
