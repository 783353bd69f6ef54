package service

import (
	"context"
	"fmt"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/payment"
	"carrental-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultPlans are the Golden Member tiers. Processor price ids come from config.
func DefaultPlans(priceIDs map[string]string) []domain.SubscriptionPlan {
	plans := []domain.SubscriptionPlan{
		{ID: "silver_elite", Name: "Silver Elite", Price: decimal.NewFromInt(199)},
		{ID: "gold_elite", Name: "Gold Elite", Price: decimal.NewFromInt(399)},
		{ID: "platinum_elite", Name: "Platinum Elite", Price: decimal.NewFromInt(799)},
	}
	for i := range plans {
		plans[i].PriceID = priceIDs[plans[i].ID]
	}
	return plans
}

type subscriptionService struct {
	plans        []domain.SubscriptionPlan
	customerRepo repository.CustomerRepository
	paymentRepo  repository.PaymentRepository
	gateway      payment.Gateway
}

func NewSubscriptionService(
	plans []domain.SubscriptionPlan,
	customerRepo repository.CustomerRepository,
	paymentRepo repository.PaymentRepository,
	gateway payment.Gateway,
) SubscriptionService {
	return &subscriptionService{
		plans:        plans,
		customerRepo: customerRepo,
		paymentRepo:  paymentRepo,
		gateway:      gateway,
	}
}

func (s *subscriptionService) Plans() []domain.SubscriptionPlan {
	return s.plans
}

func (s *subscriptionService) plan(id string) (domain.SubscriptionPlan, bool) {
	for _, p := range s.plans {
		if p.ID == id {
			return p, true
		}
	}
	return domain.SubscriptionPlan{}, false
}

func (s *subscriptionService) Subscribe(ctx context.Context, userID, email, planID string) (*SubscriptionResult, error) {
	logger.EnterMethod("subscriptionService.Subscribe", "userID", userID, "planID", planID)

	plan, ok := s.plan(planID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown plan %q", ErrInvalidInput, planID)
	}
	if plan.PriceID == "" {
		return nil, fmt.Errorf("%w: plan %q has no processor price configured", ErrInvalidInput, planID)
	}

	if c, err := s.customerRepo.GetByUserID(ctx, userID); err == nil && c.Email != "" {
		email = c.Email
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	session := &domain.PaymentSession{
		ID:     uuid.New().String(),
		UserID: userID,
		Kind:   domain.PaymentKindSubscription,
		PlanID: plan.ID,
		Amount: plan.Price,
		Status: domain.PaymentSessionPending,
	}
	if err := s.paymentRepo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create payment session: %w", err)
	}

	customerID, err := s.gateway.FindOrCreateCustomer(ctx, email, userID)
	if err != nil {
		logger.ExitMethodWithError("subscriptionService.Subscribe", err)
		return nil, err
	}
	sub, err := s.gateway.CreateSubscription(ctx, customerID, plan.PriceID, map[string]string{
		payment.MetadataUserID:    userID,
		payment.MetadataSessionID: session.ID,
		payment.MetadataPlanID:    plan.ID,
	})
	if err != nil {
		logger.ExitMethodWithError("subscriptionService.Subscribe", err)
		return nil, err
	}

	if err := s.paymentRepo.UpdateSessionStatus(ctx, session.ID, domain.PaymentSessionPending, sub.ID); err != nil {
		logger.Warn("Failed to record subscription id", "sessionID", session.ID, "error", err)
	}

	logger.ExitMethod("subscriptionService.Subscribe", "subscriptionID", sub.ID)
	return &SubscriptionResult{SessionID: session.ID, SubscriptionID: sub.ID, ClientSecret: sub.ClientSecret}, nil
}

// HandleActivated upgrades the subscriber to Golden Member and closes the payment session
func (s *subscriptionService) HandleActivated(ctx context.Context, userID, sessionID, subscriptionID string) error {
	logger.Info("Subscription activated", "userID", userID, "subscriptionID", subscriptionID)

	if err := s.customerRepo.SetGoldenMember(ctx, userID, true); err != nil {
		return translate(err, "customer profile")
	}
	if sessionID == "" {
		return nil
	}
	if err := s.paymentRepo.UpdateSessionStatus(ctx, sessionID, domain.PaymentSessionCompleted, subscriptionID); err != nil {
		return translate(err, "payment session")
	}
	return nil
}
