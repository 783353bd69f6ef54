package service

import (
	"context"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/promotion"
	"carrental-backend/internal/repository"
)

const PremiumCategory = "premium"

type vehicleService struct {
	carRepo   repository.CarRepository
	promoRepo repository.PromotionRepository
}

func NewVehicleService(carRepo repository.CarRepository, promoRepo repository.PromotionRepository) VehicleService {
	return &vehicleService{carRepo: carRepo, promoRepo: promoRepo}
}

func (s *vehicleService) Search(ctx context.Context, filter domain.CarFilter) ([]domain.Car, error) {
	logger.EnterMethod("vehicleService.Search", "filter", filter)

	cars, err := s.carRepo.Search(ctx, filter)
	if err != nil {
		logger.ExitMethodWithError("vehicleService.Search", err)
		return nil, err
	}
	if !filter.PromotionsOnly {
		logger.ExitMethod("vehicleService.Search", "count", len(cars))
		return cars, nil
	}

	promos, err := s.promoRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Car, 0, len(cars))
	for i := range cars {
		if promotion.HasPromotion(&cars[i], promos) {
			out = append(out, cars[i])
		}
	}
	logger.ExitMethod("vehicleService.Search", "count", len(out))
	return out, nil
}

func (s *vehicleService) Get(ctx context.Context, registration string) (*domain.Car, error) {
	car, err := s.carRepo.GetByRegistration(ctx, registration)
	if err != nil {
		return nil, translate(err, "vehicle")
	}
	return car, nil
}

func (s *vehicleService) ListPremium(ctx context.Context) ([]domain.Car, error) {
	return s.carRepo.ListByCategory(ctx, PremiumCategory)
}
