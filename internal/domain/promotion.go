package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PromotionType string

const (
	PromotionTypeDiscount     PromotionType = "discount"
	PromotionTypeOffer        PromotionType = "offer"
	PromotionTypeUpgrade      PromotionType = "upgrade"
	PromotionTypePermanent    PromotionType = "permanent"
	PromotionTypeRewardPoints PromotionType = "reward_points"
)

type PromotionTarget string

const (
	PromotionTargetAll      PromotionTarget = "all"
	PromotionTargetSpecific PromotionTarget = "specific"
	PromotionTargetNone     PromotionTarget = "none"
)

// Promotion is either a catalogue discount or a loyalty benefit.
// For reward_points promotions MinimumMoneySpent is the points price.
type Promotion struct {
	ID                int32            `json:"id"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Image             string           `json:"image,omitempty"`
	Type              PromotionType    `json:"type"`
	Value             decimal.Decimal  `json:"value"`
	Target            PromotionTarget  `json:"target"`
	SpecificTarget    []string         `json:"specific_target"`
	MinimumMoneySpent *decimal.Decimal `json:"minimum_money_spent,omitempty"`
	MinimumRentals    *int             `json:"minimum_rentals,omitempty"`
	StartDate         *time.Time       `json:"start_date,omitempty"`
	EndDate           *time.Time       `json:"end_date,omitempty"`
}

// UserPromotion records a benefit a customer redeemed
type UserPromotion struct {
	ID          int32      `json:"id"`
	UserID      string     `json:"user_id"`
	PromotionID int32      `json:"promotion_id"`
	IsUsed      bool       `json:"is_used"`
	RedeemedOn  time.Time  `json:"redeemed_on"`
	UsedOn      *time.Time `json:"used_on,omitempty"`
	Promotion   *Promotion `json:"promotion,omitempty"` // Populated by ListRedeemed
}
