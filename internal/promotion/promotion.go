package promotion

import (
	"strconv"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/loyalty"
)

// Targets reports whether a promotion names the car, by id, registration or category
func Targets(p domain.Promotion, car *domain.Car) bool {
	for _, target := range p.SpecificTarget {
		if target == strconv.Itoa(int(car.ID)) || target == car.RegistrationNumber || car.InCategory(target) {
			return true
		}
	}
	return false
}

// Applicable returns the promotions a customer may apply when booking car:
// catalogue discounts for all cars or targeting this one, then the customer's
// unused permanent promotions.
func Applicable(promos []domain.Promotion, car *domain.Car, redeemed []domain.UserPromotion) []domain.Promotion {
	var out []domain.Promotion
	for _, p := range promos {
		if p.Type != domain.PromotionTypeDiscount {
			continue
		}
		switch p.Target {
		case domain.PromotionTargetAll:
			out = append(out, p)
		case domain.PromotionTargetSpecific:
			if Targets(p, car) {
				out = append(out, p)
			}
		}
	}

	for _, up := range redeemed {
		if up.IsUsed || up.Promotion == nil {
			continue
		}
		if up.Promotion.Type == domain.PromotionTypePermanent {
			out = append(out, *up.Promotion)
		}
	}
	return out
}

// Find returns the promotion with id from list
func Find(list []domain.Promotion, id int32) (domain.Promotion, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Promotion{}, false
}

// HasPromotion reports whether any promotion targets the car
func HasPromotion(car *domain.Car, promos []domain.Promotion) bool {
	for _, p := range promos {
		if Targets(p, car) {
			return true
		}
	}
	return false
}

// ToBenefit maps a loyalty catalogue promotion onto a loyalty benefit
func ToBenefit(p domain.Promotion) loyalty.Benefit {
	b := loyalty.Benefit{
		ID:                strconv.Itoa(int(p.ID)),
		Title:             p.Title,
		Description:       p.Description,
		MinimumMoneySpent: p.MinimumMoneySpent,
		MinimumRentals:    p.MinimumRentals,
	}

	switch {
	case p.Type == domain.PromotionTypeRewardPoints:
		b.Kind = loyalty.KindPointsCost
	case p.MinimumMoneySpent != nil && p.MinimumMoneySpent.IsPositive():
		b.Kind = loyalty.KindSpendThreshold
	default:
		b.Kind = loyalty.KindRentalCountThreshold
	}
	return b
}

// ToBenefits maps a catalogue, keeping order
func ToBenefits(promos []domain.Promotion) []loyalty.Benefit {
	out := make([]loyalty.Benefit, 0, len(promos))
	for _, p := range promos {
		out = append(out, ToBenefit(p))
	}
	return out
}
