package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/loyalty"
	"carrental-backend/internal/promotion"
	"carrental-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type loyaltyService struct {
	customerRepo repository.CustomerRepository
	bookingRepo  repository.BookingRepository
	promoRepo    repository.PromotionRepository
}

func NewLoyaltyService(
	customerRepo repository.CustomerRepository,
	bookingRepo repository.BookingRepository,
	promoRepo repository.PromotionRepository,
) LoyaltyService {
	return &loyaltyService{
		customerRepo: customerRepo,
		bookingRepo:  bookingRepo,
		promoRepo:    promoRepo,
	}
}

// state builds the read-only snapshot the loyalty engine evaluates
func (s *loyaltyService) state(ctx context.Context, userID string) (loyalty.CustomerState, error) {
	customer, err := s.customerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return loyalty.CustomerState{}, translate(err, "customer profile")
	}
	bookings, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		return loyalty.CustomerState{}, err
	}
	redeemed, err := s.promoRepo.ListRedeemed(ctx, userID)
	if err != nil {
		return loyalty.CustomerState{}, err
	}

	var costs []decimal.Decimal
	for i := range bookings {
		if bookings[i].CountsTowardLoyalty() {
			costs = append(costs, bookings[i].TotalCost)
		}
	}
	activated := make(map[string]bool, len(redeemed))
	for _, up := range redeemed {
		activated[strconv.Itoa(int(up.PromotionID))] = true
	}

	return loyalty.CustomerState{
		TotalMoneySpent:     loyalty.TotalMoneySpent(costs),
		RentalCount:         len(costs),
		RewardPoints:        customer.RewardPoints,
		ActivatedBenefitIDs: activated,
	}, nil
}

func (s *loyaltyService) ListBenefits(ctx context.Context, userID string) ([]loyalty.BenefitStatus, error) {
	logger.EnterMethod("loyaltyService.ListBenefits", "userID", userID)

	state, err := s.state(ctx, userID)
	if err != nil {
		logger.ExitMethodWithError("loyaltyService.ListBenefits", err)
		return nil, err
	}
	catalogue, err := s.promoRepo.ListPermanent(ctx)
	if err != nil {
		return nil, err
	}

	statuses := loyalty.Evaluate(promotion.ToBenefits(catalogue), state)
	logger.ExitMethod("loyaltyService.ListBenefits", "count", len(statuses))
	return statuses, nil
}

func (s *loyaltyService) Claim(ctx context.Context, userID string, promotionID int32) (*domain.UserPromotion, error) {
	logger.EnterMethod("loyaltyService.Claim", "userID", userID, "promotionID", promotionID)

	p, err := s.promoRepo.GetByID(ctx, promotionID)
	if err != nil {
		return nil, translate(err, "benefit")
	}
	if p.Type != domain.PromotionTypePermanent && p.Type != domain.PromotionTypeRewardPoints {
		return nil, fmt.Errorf("promotion %d is not a loyalty benefit: %w", promotionID, ErrNotEligible)
	}

	benefit := promotion.ToBenefit(*p)
	if !loyalty.Offered(benefit) {
		return nil, fmt.Errorf("benefit %d is not offered: %w", promotionID, ErrNotEligible)
	}

	state, err := s.state(ctx, userID)
	if err != nil {
		return nil, err
	}
	switch loyalty.EvaluateBenefit(benefit, state).Status {
	case loyalty.StatusActivated:
		return nil, fmt.Errorf("benefit %d already activated: %w", promotionID, ErrConflict)
	case loyalty.StatusInProgress:
		return nil, fmt.Errorf("benefit %d: %w", promotionID, ErrNotEligible)
	}

	var cost int
	if benefit.Kind == loyalty.KindPointsCost && benefit.MinimumMoneySpent != nil {
		cost = int(benefit.MinimumMoneySpent.Ceil().IntPart())
		// The debit is conditional on the balance so concurrent claims cannot overdraw it.
		if _, err := s.customerRepo.SpendRewardPoints(ctx, userID, cost); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("benefit %d: insufficient reward points: %w", promotionID, ErrNotEligible)
			}
			return nil, fmt.Errorf("failed to spend reward points: %w", err)
		}
	}

	up := &domain.UserPromotion{UserID: userID, PromotionID: promotionID}
	if err := s.promoRepo.Redeem(ctx, up); err != nil {
		if cost > 0 {
			if _, rerr := s.customerRepo.AddRewardPoints(ctx, userID, cost); rerr != nil {
				logger.Error("Failed to refund reward points", "userID", userID, "points", cost, "error", rerr)
			}
		}
		logger.ExitMethodWithError("loyaltyService.Claim", err)
		return nil, fmt.Errorf("failed to redeem benefit: %w", err)
	}
	up.Promotion = p

	logger.ExitMethod("loyaltyService.Claim", "userPromotionID", up.ID, "pointsSpent", cost)
	return up, nil
}

func (s *loyaltyService) Deactivate(ctx context.Context, userID string, promotionID int32) error {
	err := s.promoRepo.Deactivate(ctx, userID, promotionID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("activated benefit %d: %w", promotionID, ErrNotFound)
	}
	return err
}
