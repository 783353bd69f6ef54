package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carrental-backend/internal/currency"
	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
)

type customerService struct {
	customerRepo repository.CustomerRepository
	currency     *currency.Settings
}

func NewCustomerService(customerRepo repository.CustomerRepository, settings *currency.Settings) CustomerService {
	return &customerService{customerRepo: customerRepo, currency: settings}
}

func (s *customerService) Get(ctx context.Context, userID string) (*domain.Customer, error) {
	c, err := s.customerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, translate(err, "customer profile")
	}
	return c, nil
}

// Upsert creates the profile on first save, which requires the full set of
// rental details, and patches it afterwards.
func (s *customerService) Upsert(ctx context.Context, userID string, update domain.CustomerUpdate) (*domain.Customer, error) {
	logger.EnterMethod("customerService.Upsert", "userID", userID)

	if update.Age != nil && *update.Age <= 0 {
		return nil, fmt.Errorf("%w: age must be positive", ErrInvalidInput)
	}

	c, err := s.customerRepo.GetByUserID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		if missing := update.MissingForCreate(); missing != "" {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, missing)
		}
		c = &domain.Customer{UserID: userID}
		update.Apply(c)
		if err := s.customerRepo.Create(ctx, c); err != nil {
			logger.ExitMethodWithError("customerService.Upsert", err)
			return nil, fmt.Errorf("failed to create customer: %w", err)
		}
		logger.ExitMethod("customerService.Upsert", "created", true)
		return c, nil
	}
	if err != nil {
		return nil, err
	}

	update.Apply(c)
	if err := s.customerRepo.Update(ctx, c); err != nil {
		logger.ExitMethodWithError("customerService.Upsert", err)
		return nil, translate(err, "customer profile")
	}
	logger.ExitMethod("customerService.Upsert", "created", false)
	return c, nil
}

func (s *customerService) Delete(ctx context.Context, userID string) error {
	return translate(s.customerRepo.Delete(ctx, userID), "customer profile")
}

func (s *customerService) UpgradeToGolden(ctx context.Context, userID string) error {
	logger.Info("Upgrading customer to Golden Member", "userID", userID)
	return translate(s.customerRepo.SetGoldenMember(ctx, userID, true), "customer profile")
}

func (s *customerService) AddRewardPoints(ctx context.Context, userID string, delta int) (int, error) {
	points, err := s.customerRepo.AddRewardPoints(ctx, userID, delta)
	if err != nil {
		return 0, translate(err, "customer profile")
	}
	return points, nil
}

func (s *customerService) GetRewardPoints(ctx context.Context, userID string) (int, error) {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return c.RewardPoints, nil
}

// CurrencyPreference resolves the customer's display currency. Callers without
// a profile or a stored preference get the default.
func (s *customerService) CurrencyPreference(ctx context.Context, userID string) (currency.Code, error) {
	c, err := s.customerRepo.GetByUserID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return s.currency.Current(), nil
	}
	if err != nil {
		return "", err
	}
	return s.currency.Resolve(c.Currency), nil
}

func (s *customerService) SetCurrencyPreference(ctx context.Context, userID string, code currency.Code) error {
	if _, err := s.currency.Rate(code); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	logger.Info("Setting preferred currency", "userID", userID, "currency", code)
	return translate(s.customerRepo.SetPreferredCurrency(ctx, userID, string(code)), "customer profile")
}
