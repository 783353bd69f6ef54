package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var promotionCols = []string{"id", "title", "description", "image", "type", "value", "target", "specific_target",
	"minimum_money_spent", "minimum_rentals", "start_date", "end_date"}

func TestPromotionRepository_ListPermanent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewPromotionRepository(db)

	rows := sqlmock.NewRows(promotionCols).
		AddRow(1, "Silver", "", "", "permanent", "10", "none", "{}", "500.00", nil, nil, nil).
		AddRow(2, "Free GPS", "", "", "reward_points", "0", "none", "{}", "200", 2, nil, nil)

	mock.ExpectQuery("SELECT (.+) FROM promotions p WHERE p.type IN \\(\\$1, \\$2\\)").
		WithArgs("permanent", "reward_points").
		WillReturnRows(rows)

	promos, err := repo.ListPermanent(context.Background())
	require.NoError(t, err)
	require.Len(t, promos, 2)
	assert.Equal(t, "500", promos[0].MinimumMoneySpent.String())
	assert.Nil(t, promos[0].MinimumRentals)
	assert.Equal(t, 2, *promos[1].MinimumRentals)
	assert.Equal(t, domain.PromotionTypeRewardPoints, promos[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromotionRepository_ListRedeemed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewPromotionRepository(db)
	now := time.Now()

	cols := append(append([]string{}, promotionCols...), "up_id", "user_id", "is_used", "redeemed_on", "used_on")
	rows := sqlmock.NewRows(cols).
		AddRow(3, "Loyal driver", "", "", "permanent", "15", "none", "{}", nil, 5, nil, nil, 8, "user_1", false, now, nil)

	mock.ExpectQuery("FROM user_promotions up JOIN promotions p").
		WithArgs("user_1").
		WillReturnRows(rows)

	redeemed, err := repo.ListRedeemed(context.Background(), "user_1")
	require.NoError(t, err)
	require.Len(t, redeemed, 1)
	assert.Equal(t, int32(8), redeemed[0].ID)
	assert.Equal(t, int32(3), redeemed[0].PromotionID)
	require.NotNil(t, redeemed[0].Promotion)
	assert.Equal(t, "Loyal driver", redeemed[0].Promotion.Title)
	assert.Nil(t, redeemed[0].UsedOn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromotionRepository_MarkUsed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewPromotionRepository(db)

	mock.ExpectExec("UPDATE user_promotions SET is_used = TRUE").
		WithArgs(sqlmock.AnyArg(), "user_1", int32(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.MarkUsed(context.Background(), "user_1", 3)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
