package service_test

import (
	"context"
	"database/sql"
	"testing"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicleService_Search(t *testing.T) {
	ctx := context.Background()
	cars := []domain.Car{
		{ID: 1, RegistrationNumber: "34 A 1", Categories: []string{"suv"}},
		{ID: 2, RegistrationNumber: "34 B 2", Categories: []string{"sedan"}},
	}

	t.Run("Plain filter", func(t *testing.T) {
		carRepo, promoRepo := new(MockCarRepo), new(MockPromotionRepo)
		svc := service.NewVehicleService(carRepo, promoRepo)
		filter := domain.CarFilter{Maker: "Toyota"}
		carRepo.On("Search", ctx, filter).Return(cars, nil)

		got, err := svc.Search(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, got, 2)
		promoRepo.AssertNotCalled(t, "List", ctx)
	})

	t.Run("Promotions only", func(t *testing.T) {
		carRepo, promoRepo := new(MockCarRepo), new(MockPromotionRepo)
		svc := service.NewVehicleService(carRepo, promoRepo)
		filter := domain.CarFilter{PromotionsOnly: true}
		carRepo.On("Search", ctx, filter).Return(cars, nil)
		promoRepo.On("List", ctx).Return([]domain.Promotion{
			{ID: 1, Type: domain.PromotionTypeDiscount, Target: domain.PromotionTargetSpecific, SpecificTarget: []string{"suv"}},
		}, nil)

		got, err := svc.Search(ctx, filter)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int32(1), got[0].ID)
	})
}

func TestVehicleService_Get(t *testing.T) {
	ctx := context.Background()
	carRepo := new(MockCarRepo)
	svc := service.NewVehicleService(carRepo, new(MockPromotionRepo))

	carRepo.On("GetByRegistration", ctx, "34 A 1").Return(&domain.Car{ID: 1}, nil)
	carRepo.On("GetByRegistration", ctx, "missing").Return(nil, sql.ErrNoRows)
	carRepo.On("ListByCategory", ctx, service.PremiumCategory).Return([]domain.Car{{ID: 7}}, nil)

	car, err := svc.Get(ctx, "34 A 1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), car.ID)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrNotFound)

	premium, err := svc.ListPremium(ctx)
	require.NoError(t, err)
	assert.Len(t, premium, 1)
}
