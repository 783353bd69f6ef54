package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pct(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestComputeQuote_Scenarios(t *testing.T) {
	t.Run("Insurance, full payment", func(t *testing.T) {
		res, err := ComputeQuote(Quote{
			BaseDailyRate: dec("50"),
			DurationDays:  3,
			Extras:        Extras{Insurance: true},
			Plan:          PaymentPlanFull,
		})
		require.NoError(t, err)
		assertDecimal(t, "150", res.BasePrice)
		assertDecimal(t, "30", res.ExtrasCost)
		assertDecimal(t, "180", res.TotalCost)
		assertDecimal(t, "180", res.DisplayAmount)
		assert.Equal(t, "180.00", res.DisplayLabel)
	})

	t.Run("Insurance, installment under a week", func(t *testing.T) {
		res, err := ComputeQuote(Quote{
			BaseDailyRate: dec("50"),
			DurationDays:  3,
			Extras:        Extras{Insurance: true},
			Plan:          PaymentPlanInstallment,
		})
		require.NoError(t, err)
		assertDecimal(t, "180", res.TotalCost)
		assertDecimal(t, "60", res.DisplayAmount)
		assert.Equal(t, "60.00/day for 3 days", res.DisplayLabel)
		assert.Equal(t, 0, res.Weeks)
	})

	t.Run("Discount, installment over a week", func(t *testing.T) {
		res, err := ComputeQuote(Quote{
			BaseDailyRate:   dec("100"),
			DurationDays:    10,
			DiscountPercent: pct("20"),
			Plan:            PaymentPlanInstallment,
		})
		require.NoError(t, err)
		assertDecimal(t, "1000", res.Subtotal)
		assertDecimal(t, "200", res.Discount)
		assertDecimal(t, "800", res.TotalCost)
		assert.Equal(t, 2, res.Weeks)
		assertDecimal(t, "400", res.DisplayAmount)
		assert.Equal(t, "400.00/week for 2 weeks", res.DisplayLabel)
	})
}

func TestComputeQuote_AllExtras(t *testing.T) {
	res, err := ComputeQuote(Quote{
		BaseDailyRate: dec("40"),
		DurationDays:  2,
		Extras:        Extras{Insurance: true, GPS: true, ChildSeat: true, ChauffeurService: true, TravelKit: true},
		Plan:          PaymentPlanFull,
	})
	require.NoError(t, err)
	// (10 + 5 + 8 + 100 + 0) * 2
	assertDecimal(t, "246", res.ExtrasCost)
	assertDecimal(t, "326", res.TotalCost)
}

func TestComputeQuote_NoExtrasNoDiscount(t *testing.T) {
	for _, days := range []int{1, 2, 6, 7, 8, 30} {
		for _, rate := range []string{"0", "19.99", "120"} {
			res, err := ComputeQuote(Quote{BaseDailyRate: dec(rate), DurationDays: days, Plan: PaymentPlanFull})
			require.NoError(t, err)
			assert.True(t, dec(rate).Mul(decimal.NewFromInt(int64(days))).Equal(res.TotalCost))
			assertDecimal(t, "0", res.ExtrasCost)
			assertDecimal(t, "0", res.Discount)
		}
	}
}

func TestComputeQuote_Idempotent(t *testing.T) {
	q := Quote{
		BaseDailyRate:   dec("73.5"),
		DurationDays:    9,
		Extras:          Extras{GPS: true, ChildSeat: true},
		DiscountPercent: pct("12.5"),
		Plan:            PaymentPlanInstallment,
	}
	first, err := ComputeQuote(q)
	require.NoError(t, err)
	second, err := ComputeQuote(q)
	require.NoError(t, err)

	assert.True(t, first.TotalCost.Equal(second.TotalCost))
	assert.True(t, first.DisplayAmount.Equal(second.DisplayAmount))
	assert.Equal(t, first.DisplayLabel, second.DisplayLabel)
}

func TestComputeQuote_ExtrasMonotonic(t *testing.T) {
	base := Quote{BaseDailyRate: dec("60"), DurationDays: 4, DiscountPercent: pct("15"), Plan: PaymentPlanFull}
	baseRes, err := ComputeQuote(base)
	require.NoError(t, err)

	toggles := []func(*Extras){
		func(e *Extras) { e.Insurance = true },
		func(e *Extras) { e.GPS = true },
		func(e *Extras) { e.ChildSeat = true },
		func(e *Extras) { e.ChauffeurService = true },
		func(e *Extras) { e.TravelKit = true },
	}
	for _, toggle := range toggles {
		q := base
		toggle(&q.Extras)
		res, err := ComputeQuote(q)
		require.NoError(t, err)
		assert.True(t, res.TotalCost.GreaterThanOrEqual(baseRes.TotalCost))
	}
}

func TestComputeQuote_FullDiscount(t *testing.T) {
	res, err := ComputeQuote(Quote{
		BaseDailyRate:   dec("80"),
		DurationDays:    5,
		Extras:          Extras{Insurance: true},
		DiscountPercent: pct("100"),
		Plan:            PaymentPlanFull,
	})
	require.NoError(t, err)
	assertDecimal(t, "0", res.TotalCost)
	assert.Equal(t, "0.00", res.DisplayLabel)
}

func TestComputeQuote_ZeroDiscountMatchesNoDiscount(t *testing.T) {
	with, err := ComputeQuote(Quote{BaseDailyRate: dec("55"), DurationDays: 3, DiscountPercent: pct("0"), Plan: PaymentPlanFull})
	require.NoError(t, err)
	without, err := ComputeQuote(Quote{BaseDailyRate: dec("55"), DurationDays: 3, Plan: PaymentPlanFull})
	require.NoError(t, err)
	assert.True(t, with.TotalCost.Equal(without.TotalCost))
}

func TestComputeQuote_InstallmentBoundary(t *testing.T) {
	t.Run("Six days uses daily framing", func(t *testing.T) {
		res, err := ComputeQuote(Quote{BaseDailyRate: dec("10"), DurationDays: 6, Plan: PaymentPlanInstallment})
		require.NoError(t, err)
		assert.Equal(t, "10.00/day for 6 days", res.DisplayLabel)
	})

	t.Run("Seven days uses weekly framing with one week", func(t *testing.T) {
		res, err := ComputeQuote(Quote{BaseDailyRate: dec("10"), DurationDays: 7, Plan: PaymentPlanInstallment})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Weeks)
		assertDecimal(t, "70", res.DisplayAmount)
		assert.Equal(t, "70.00/week for 1 weeks", res.DisplayLabel)
	})

	t.Run("Fifteen days rounds weeks up", func(t *testing.T) {
		res, err := ComputeQuote(Quote{BaseDailyRate: dec("10"), DurationDays: 15, Plan: PaymentPlanInstallment})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Weeks)
		assertDecimal(t, "50", res.DisplayAmount)
	})
}

func TestComputeQuote_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		quote Quote
	}{
		{"Negative rate", Quote{BaseDailyRate: dec("-1"), DurationDays: 1, Plan: PaymentPlanFull}},
		{"Zero duration", Quote{BaseDailyRate: dec("10"), DurationDays: 0, Plan: PaymentPlanFull}},
		{"Negative duration", Quote{BaseDailyRate: dec("10"), DurationDays: -3, Plan: PaymentPlanFull}},
		{"Discount over 100", Quote{BaseDailyRate: dec("10"), DurationDays: 1, DiscountPercent: pct("100.01"), Plan: PaymentPlanFull}},
		{"Negative discount", Quote{BaseDailyRate: dec("10"), DurationDays: 1, DiscountPercent: pct("-5"), Plan: PaymentPlanFull}},
		{"Unknown plan", Quote{BaseDailyRate: dec("10"), DurationDays: 1, Plan: "weekly"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeQuote(tt.quote)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestDurationDays(t *testing.T) {
	pickup := time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dropoff time.Time
		want    int
	}{
		{"Exactly one day", pickup.Add(24 * time.Hour), 1},
		{"Partial day rounds up", pickup.Add(25 * time.Hour), 2},
		{"Same instant is one day", pickup, 1},
		{"Dropoff before pickup is one day", pickup.Add(-48 * time.Hour), 1},
		{"Ten days", pickup.Add(240 * time.Hour), 10},
		{"A few hours", pickup.Add(3 * time.Hour), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DurationDays(pickup, tt.dropoff))
		})
	}
}

func TestInstallmentSchedule(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	plan := InstallmentSchedule(dec("100"), now)

	assert.Equal(t, "monthly", plan.Frequency)
	assert.Equal(t, 3, plan.TotalInstallments)
	assert.Equal(t, 2, plan.RemainingInstallments)
	assertDecimal(t, "33.33", plan.AmountPerInstallment)
	assert.Equal(t, now.Add(30*24*time.Hour), plan.NextInstallmentDate)

	next := plan.NextInstallment()
	assert.Equal(t, 1, next.RemainingInstallments)
	assert.Equal(t, now.Add(60*24*time.Hour), next.NextInstallmentDate)

	last := next.NextInstallment().NextInstallment()
	assert.Equal(t, 0, last.RemainingInstallments)
}
