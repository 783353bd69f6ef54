package loyalty

import (
	"github.com/shopspring/decimal"
)

// Kind is the way a benefit is unlocked
type Kind string

const (
	KindSpendThreshold       Kind = "spend_threshold"
	KindRentalCountThreshold Kind = "rental_count_threshold"
	KindPointsCost           Kind = "points_cost"
)

// Status is the classification of a benefit for one customer
type Status string

const (
	StatusActivated  Status = "ACTIVATED"
	StatusEligible   Status = "ELIGIBLE"
	StatusInProgress Status = "IN_PROGRESS"
)

// Dimension names a threshold a benefit can be gated on
type Dimension string

const (
	DimensionMoney   Dimension = "money"
	DimensionRentals Dimension = "rentals"
	DimensionPoints  Dimension = "points"
)

// Benefit is one tier of the loyalty program.
// For points_cost benefits MinimumMoneySpent holds the points price.
type Benefit struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Kind              Kind             `json:"kind"`
	MinimumMoneySpent *decimal.Decimal `json:"minimum_money_spent,omitempty"`
	MinimumRentals    *int             `json:"minimum_rentals,omitempty"`
}

// CustomerState is a read-only snapshot of a customer's progress
type CustomerState struct {
	TotalMoneySpent     decimal.Decimal
	RentalCount         int
	RewardPoints        int
	ActivatedBenefitIDs map[string]bool
}

// Progress reports how far a customer is along one threshold
type Progress struct {
	Dimension Dimension       `json:"dimension"`
	Actual    decimal.Decimal `json:"actual"`
	Required  decimal.Decimal `json:"required"`
	Fraction  decimal.Decimal `json:"fraction"`
	Remaining decimal.Decimal `json:"remaining"`
}

// Met reports whether the actual value reached the requirement
func (p Progress) Met() bool {
	return p.Actual.GreaterThanOrEqual(p.Required)
}

// BenefitStatus is the evaluation result for one benefit
type BenefitStatus struct {
	Benefit  Benefit    `json:"benefit"`
	Status   Status     `json:"status"`
	Progress []Progress `json:"progress,omitempty"`
}

var (
	one           = decimal.NewFromInt(1)
	pointsPerUnit = decimal.RequireFromString("0.1")
)

func (b Benefit) moneyThreshold() (decimal.Decimal, bool) {
	if b.MinimumMoneySpent == nil || !b.MinimumMoneySpent.IsPositive() {
		return decimal.Zero, false
	}
	return *b.MinimumMoneySpent, true
}

func (b Benefit) rentalThreshold() (int, bool) {
	if b.MinimumRentals == nil || *b.MinimumRentals <= 0 {
		return 0, false
	}
	return *b.MinimumRentals, true
}

// Offered reports whether a benefit has at least one positive threshold.
// Benefits without one are not part of the program.
func Offered(b Benefit) bool {
	_, hasMoney := b.moneyThreshold()
	_, hasRentals := b.rentalThreshold()
	return hasMoney || hasRentals
}

// EvaluateBenefit classifies a benefit for the given customer state.
// Activation takes precedence over thresholds; thresholds combine with AND.
func EvaluateBenefit(b Benefit, state CustomerState) BenefitStatus {
	progress := measure(b, state)

	if state.ActivatedBenefitIDs[b.ID] {
		return BenefitStatus{Benefit: b, Status: StatusActivated, Progress: progress}
	}

	for _, p := range progress {
		if !p.Met() {
			return BenefitStatus{Benefit: b, Status: StatusInProgress, Progress: progress}
		}
	}
	return BenefitStatus{Benefit: b, Status: StatusEligible, Progress: progress}
}

// Evaluate drops benefits that are not offered and classifies the rest in order
func Evaluate(benefits []Benefit, state CustomerState) []BenefitStatus {
	statuses := make([]BenefitStatus, 0, len(benefits))
	for _, b := range benefits {
		if !Offered(b) {
			continue
		}
		statuses = append(statuses, EvaluateBenefit(b, state))
	}
	return statuses
}

func measure(b Benefit, state CustomerState) []Progress {
	var progress []Progress

	if price, ok := b.moneyThreshold(); ok {
		if b.Kind == KindPointsCost {
			progress = append(progress, countProgress(DimensionPoints, state.RewardPoints, price.Ceil()))
		} else {
			progress = append(progress, moneyProgress(state.TotalMoneySpent, price))
		}
	}
	if rentals, ok := b.rentalThreshold(); ok {
		progress = append(progress, countProgress(DimensionRentals, state.RentalCount, decimal.NewFromInt(int64(rentals))))
	}
	return progress
}

func moneyProgress(spent, required decimal.Decimal) Progress {
	actual := spent.RoundCeil(2)
	return Progress{
		Dimension: DimensionMoney,
		Actual:    actual,
		Required:  required,
		Fraction:  fraction(actual, required),
		Remaining: decimal.Max(required.Sub(actual), decimal.Zero).RoundCeil(2),
	}
}

func countProgress(dim Dimension, actual int, required decimal.Decimal) Progress {
	a := decimal.NewFromInt(int64(actual))
	return Progress{
		Dimension: dim,
		Actual:    a,
		Required:  required,
		Fraction:  fraction(a, required),
		Remaining: decimal.Max(required.Sub(a), decimal.Zero),
	}
}

func fraction(actual, required decimal.Decimal) decimal.Decimal {
	if !required.IsPositive() {
		return one
	}
	return decimal.Min(actual.Div(required), one)
}

// TotalMoneySpent sums booking costs and rounds the result up to the cent
func TotalMoneySpent(costs []decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, costs...).RoundCeil(2)
}

// RewardPointsForBooking returns the points earned by a completed booking
func RewardPointsForBooking(totalCost decimal.Decimal) int {
	if !totalCost.IsPositive() {
		return 0
	}
	return int(totalCost.Mul(pointsPerUnit).Floor().IntPart())
}

// NewlyUnlocked returns the benefits that moved from in progress to eligible
func NewlyUnlocked(before, after []BenefitStatus) []BenefitStatus {
	prev := make(map[string]Status, len(before))
	for _, s := range before {
		prev[s.Benefit.ID] = s.Status
	}

	var unlocked []BenefitStatus
	for _, s := range after {
		if s.Status == StatusEligible && prev[s.Benefit.ID] == StatusInProgress {
			unlocked = append(unlocked, s)
		}
	}
	return unlocked
}
