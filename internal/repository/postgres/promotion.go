package postgres

import (
	"context"
	"database/sql"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type promotionRepository struct {
	db *sql.DB
}

func NewPromotionRepository(db *sql.DB) repository.PromotionRepository {
	return &promotionRepository{db: db}
}

const promotionColumns = `p.id, p.title, COALESCE(p.description, ''), COALESCE(p.image, ''), p.type, p.value, p.target,
	p.specific_target, p.minimum_money_spent, p.minimum_rentals, p.start_date, p.end_date`

func scanPromotion(row rowScanner, extra ...any) (*domain.Promotion, error) {
	p := &domain.Promotion{}
	var (
		minMoney   decimal.NullDecimal
		minRentals sql.NullInt32
		start, end sql.NullTime
	)
	dest := []any{&p.ID, &p.Title, &p.Description, &p.Image, &p.Type, &p.Value, &p.Target,
		pq.Array(&p.SpecificTarget), &minMoney, &minRentals, &start, &end}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if minMoney.Valid {
		m := minMoney.Decimal
		p.MinimumMoneySpent = &m
	}
	if minRentals.Valid {
		n := int(minRentals.Int32)
		p.MinimumRentals = &n
	}
	if start.Valid {
		p.StartDate = &start.Time
	}
	if end.Valid {
		p.EndDate = &end.Time
	}
	return p, nil
}

func (r *promotionRepository) GetByID(ctx context.Context, id int32) (*domain.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions p WHERE p.id = $1`
	return scanPromotion(r.db.QueryRowContext(ctx, query, id))
}

// List returns the promotions currently running
func (r *promotionRepository) List(ctx context.Context) ([]domain.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions p
	          WHERE (p.start_date IS NULL OR p.start_date <= $1) AND (p.end_date IS NULL OR p.end_date >= $1)
	          ORDER BY p.id`
	return r.list(ctx, query, time.Now())
}

// ListPermanent returns the loyalty catalogue
func (r *promotionRepository) ListPermanent(ctx context.Context) ([]domain.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions p WHERE p.type IN ($1, $2) ORDER BY p.id`
	return r.list(ctx, query, domain.PromotionTypePermanent, domain.PromotionTypeRewardPoints)
}

func (r *promotionRepository) ListRedeemed(ctx context.Context, userID string) ([]domain.UserPromotion, error) {
	query := `SELECT ` + promotionColumns + `, up.id, up.user_id, up.is_used, up.redeemed_on, up.used_on
	          FROM user_promotions up JOIN promotions p ON p.id = up.promotion_id
	          WHERE up.user_id = $1 ORDER BY up.redeemed_on`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var redeemed []domain.UserPromotion
	for rows.Next() {
		var up domain.UserPromotion
		var usedOn sql.NullTime
		p, err := scanPromotion(rows, &up.ID, &up.UserID, &up.IsUsed, &up.RedeemedOn, &usedOn)
		if err != nil {
			return nil, err
		}
		up.PromotionID = p.ID
		up.Promotion = p
		if usedOn.Valid {
			up.UsedOn = &usedOn.Time
		}
		redeemed = append(redeemed, up)
	}
	return redeemed, rows.Err()
}

func (r *promotionRepository) Redeem(ctx context.Context, up *domain.UserPromotion) error {
	now := time.Now()
	query := `INSERT INTO user_promotions (user_id, promotion_id, is_used, redeemed_on) VALUES ($1, $2, FALSE, $3) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, up.UserID, up.PromotionID, now).Scan(&up.ID); err != nil {
		return err
	}
	up.RedeemedOn = now
	return nil
}

func (r *promotionRepository) Deactivate(ctx context.Context, userID string, promotionID int32) error {
	query := `DELETE FROM user_promotions WHERE user_id = $1 AND promotion_id = $2`
	res, err := r.db.ExecContext(ctx, query, userID, promotionID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *promotionRepository) MarkUsed(ctx context.Context, userID string, promotionID int32) error {
	query := `UPDATE user_promotions SET is_used = TRUE, used_on = $1 WHERE user_id = $2 AND promotion_id = $3 AND is_used = FALSE`
	res, err := r.db.ExecContext(ctx, query, time.Now(), userID, promotionID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *promotionRepository) list(ctx context.Context, query string, args ...any) ([]domain.Promotion, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promos []domain.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		promos = append(promos, *p)
	}
	return promos, rows.Err()
}
