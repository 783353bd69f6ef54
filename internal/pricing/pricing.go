package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned for quote parameters that cannot be priced.
var ErrInvalidInput = errors.New("invalid input")

// PaymentPlan selects how a quote total is framed for display
type PaymentPlan string

const (
	PaymentPlanFull        PaymentPlan = "full"
	PaymentPlanInstallment PaymentPlan = "installment"
)

const daysPerWeek = 7

// Daily rates for the optional extras. The travel kit is free.
var (
	InsuranceDailyRate = decimal.NewFromInt(10)
	GPSDailyRate       = decimal.NewFromInt(5)
	ChildSeatDailyRate = decimal.NewFromInt(8)
	ChauffeurDailyRate = decimal.NewFromInt(100)
	TravelKitDailyRate = decimal.Zero
)

var hundred = decimal.NewFromInt(100)

// Extras holds the optional add-ons selected for a booking
type Extras struct {
	Insurance        bool `json:"insurance"`
	GPS              bool `json:"gps"`
	ChildSeat        bool `json:"child_seat"`
	ChauffeurService bool `json:"chauffeur_service"`
	TravelKit        bool `json:"travel_kit"`
}

// DailyCost returns the per-day price of the selected extras
func (e Extras) DailyCost() decimal.Decimal {
	total := decimal.Zero
	if e.Insurance {
		total = total.Add(InsuranceDailyRate)
	}
	if e.GPS {
		total = total.Add(GPSDailyRate)
	}
	if e.ChildSeat {
		total = total.Add(ChildSeatDailyRate)
	}
	if e.ChauffeurService {
		total = total.Add(ChauffeurDailyRate)
	}
	if e.TravelKit {
		total = total.Add(TravelKitDailyRate)
	}
	return total
}

// RequiresGoldenMember reports whether any selected extra is reserved for Golden Members
func (e Extras) RequiresGoldenMember() bool {
	return e.ChauffeurService || e.TravelKit
}

// Quote is the input of a price computation
type Quote struct {
	BaseDailyRate   decimal.Decimal
	DurationDays    int
	Extras          Extras
	DiscountPercent *decimal.Decimal // nil means no promotion selected
	Plan            PaymentPlan
}

// QuoteResult provides the computed totals and the plan-specific display value
type QuoteResult struct {
	BasePrice     decimal.Decimal `json:"base_price"`
	ExtrasCost    decimal.Decimal `json:"extras_cost"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	DisplayAmount decimal.Decimal `json:"display_amount"`
	DisplayLabel  string          `json:"display_label"`
	Weeks         int             `json:"weeks,omitempty"`
}

// Validate checks the quote preconditions
func (q Quote) Validate() error {
	if q.BaseDailyRate.IsNegative() {
		return fmt.Errorf("%w: base daily rate must be >= 0, got %s", ErrInvalidInput, q.BaseDailyRate)
	}
	if q.DurationDays < 1 {
		return fmt.Errorf("%w: duration must be at least 1 day, got %d", ErrInvalidInput, q.DurationDays)
	}
	if q.DiscountPercent != nil {
		if q.DiscountPercent.IsNegative() || q.DiscountPercent.GreaterThan(hundred) {
			return fmt.Errorf("%w: discount percent must be between 0 and 100, got %s", ErrInvalidInput, q.DiscountPercent)
		}
	}
	switch q.Plan {
	case PaymentPlanFull, PaymentPlanInstallment:
	default:
		return fmt.Errorf("%w: unknown payment plan %q", ErrInvalidInput, q.Plan)
	}
	return nil
}

// ComputeQuote prices a rental and frames the total for the selected payment plan
func ComputeQuote(q Quote) (QuoteResult, error) {
	if err := q.Validate(); err != nil {
		return QuoteResult{}, err
	}

	days := decimal.NewFromInt(int64(q.DurationDays))

	res := QuoteResult{
		BasePrice:  q.BaseDailyRate.Mul(days),
		ExtrasCost: q.Extras.DailyCost().Mul(days),
		Discount:   decimal.Zero,
	}
	res.Subtotal = res.BasePrice.Add(res.ExtrasCost)
	res.TotalCost = res.Subtotal

	if q.DiscountPercent != nil {
		res.Discount = res.Subtotal.Mul(*q.DiscountPercent).Div(hundred)
		res.TotalCost = res.Subtotal.Sub(res.Discount)
	}

	switch q.Plan {
	case PaymentPlanInstallment:
		frameInstallment(&res, q.DurationDays)
	default:
		res.DisplayAmount = res.TotalCost
		res.DisplayLabel = res.TotalCost.StringFixed(2)
	}

	return res, nil
}

// frameInstallment splits the total per week for rentals of a week or longer,
// otherwise per day
func frameInstallment(res *QuoteResult, durationDays int) {
	if durationDays >= daysPerWeek {
		weeks := (durationDays + daysPerWeek - 1) / daysPerWeek
		res.Weeks = weeks
		res.DisplayAmount = res.TotalCost.Div(decimal.NewFromInt(int64(weeks)))
		res.DisplayLabel = fmt.Sprintf("%s/week for %d weeks", res.DisplayAmount.StringFixed(2), weeks)
		return
	}
	res.DisplayAmount = res.TotalCost.Div(decimal.NewFromInt(int64(durationDays)))
	res.DisplayLabel = fmt.Sprintf("%s/day for %d days", res.DisplayAmount.StringFixed(2), durationDays)
}

// DurationDays converts a pickup/dropoff pair into billable days.
// Partial days round up; zero or negative spans are billed as one day.
func DurationDays(pickup, dropoff time.Time) int {
	diff := dropoff.Sub(pickup)
	if diff <= 0 {
		return 1
	}
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// InstallmentPlan describes how an installment booking is paid off
type InstallmentPlan struct {
	Frequency             string          `json:"frequency"`
	TotalInstallments     int             `json:"total_installments"`
	AmountPerInstallment  decimal.Decimal `json:"amount_per_installment"`
	RemainingInstallments int             `json:"remaining_installments"`
	NextInstallmentDate   time.Time       `json:"next_installment_date"`
}

const (
	defaultInstallments  = 3
	installmentFrequency = "monthly"
	installmentInterval  = 30 * 24 * time.Hour
)

// InstallmentSchedule builds the monthly plan attached to installment bookings.
// The first installment is collected at checkout.
func InstallmentSchedule(total decimal.Decimal, now time.Time) InstallmentPlan {
	return InstallmentPlan{
		Frequency:             installmentFrequency,
		TotalInstallments:     defaultInstallments,
		AmountPerInstallment:  total.Div(decimal.NewFromInt(defaultInstallments)).Round(2),
		RemainingInstallments: defaultInstallments - 1,
		NextInstallmentDate:   now.Add(installmentInterval),
	}
}

// NextInstallment returns the plan after one more installment is collected
func (p InstallmentPlan) NextInstallment() InstallmentPlan {
	next := p
	if next.RemainingInstallments > 0 {
		next.RemainingInstallments--
	}
	next.NextInstallmentDate = p.NextInstallmentDate.Add(installmentInterval)
	return next
}
