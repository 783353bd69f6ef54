package jobs

import (
	"context"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/loyalty"
)

// CompleteEndedBookings completes confirmed bookings whose end date has passed,
// awards reward points and congratulates customers on newly unlocked benefits.
func (jr *JobRunner) CompleteEndedBookings() {
	jr.runWithRecovery("CompleteEndedBookings", func() {
		n, err := jr.completeEndedBookings(context.Background())
		if err != nil {
			logger.Error("Failed to complete ended bookings", "error", err)
			return
		}
		logger.Info("Completed ended bookings", "count", n)
	})
}

func (jr *JobRunner) completeEndedBookings(ctx context.Context) (int, error) {
	log := logger.WithJob("CompleteEndedBookings")

	ended, err := jr.stores.Bookings.ListEnded(ctx, jr.now())
	if err != nil {
		return 0, err
	}

	count := 0
	for _, b := range ended {
		before, err := jr.services.Loyalty.ListBenefits(ctx, b.UserID)
		if err != nil {
			log.Warn("Failed to evaluate benefits before completion", "booking_id", b.ID, "error", err)
		}

		if err := jr.stores.Bookings.UpdateStatus(ctx, b.ID, domain.BookingStatusCompleted); err != nil {
			log.Error("Failed to complete booking", "booking_id", b.ID, "error", err)
			continue
		}
		count++

		points := loyalty.RewardPointsForBooking(b.TotalCost)
		if points > 0 {
			total, err := jr.stores.Customers.AddRewardPoints(ctx, b.UserID, points)
			if err != nil {
				log.Error("Failed to award reward points", "booking_id", b.ID, "user_id", b.UserID, "error", err)
				continue
			}
			log.Debug("Awarded reward points", "booking_id", b.ID, "points", points, "balance", total)
		}

		if before == nil {
			continue
		}
		after, err := jr.services.Loyalty.ListBenefits(ctx, b.UserID)
		if err != nil {
			log.Warn("Failed to evaluate benefits after completion", "booking_id", b.ID, "error", err)
			continue
		}
		jr.congratulate(ctx, b.UserID, loyalty.NewlyUnlocked(before, after))
	}
	return count, nil
}

func (jr *JobRunner) congratulate(ctx context.Context, userID string, unlocked []loyalty.BenefitStatus) {
	if len(unlocked) == 0 {
		return
	}
	customer, err := jr.stores.Customers.GetByUserID(ctx, userID)
	if err != nil {
		logger.Warn("Failed to load customer for benefit email", "user_id", userID, "error", err)
		return
	}
	for _, s := range unlocked {
		if err := jr.services.Email.SendBenefitUnlocked(ctx, customer.Email, customer.Name, s.Benefit.Title); err != nil {
			logger.Warn("Failed to send benefit email", "user_id", userID, "benefit", s.Benefit.ID, "error", err)
		}
	}
}

// SendInstallmentReminders emails customers whose next installment falls due within a day
func (jr *JobRunner) SendInstallmentReminders() {
	jr.runWithRecovery("SendInstallmentReminders", func() {
		n, err := jr.sendInstallmentReminders(context.Background())
		if err != nil {
			logger.Error("Failed to send installment reminders", "error", err)
			return
		}
		logger.Info("Sent installment reminders", "count", n)
	})
}

func (jr *JobRunner) sendInstallmentReminders(ctx context.Context) (int, error) {
	now := jr.now()
	due, err := jr.stores.Bookings.ListInstallmentsDue(ctx, now, now.Add(24*time.Hour))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, b := range due {
		if b.Installment == nil {
			continue
		}
		customer, err := jr.stores.Customers.GetByUserID(ctx, b.UserID)
		if err != nil {
			logger.Warn("Failed to load customer for reminder", "booking_id", b.ID, "error", err)
			continue
		}
		car, _ := jr.stores.Cars.GetByID(ctx, b.CarID)

		amount := jr.currency.FormatIn(b.Installment.AmountPerInstallment, customer.Currency)
		if err := jr.services.Email.SendInstallmentReminder(ctx, customer.Email, customer.Name, vehicleName(car), amount, b.Installment.NextInstallmentDate); err != nil {
			logger.Warn("Failed to send installment reminder", "booking_id", b.ID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// AdvanceInstallments collects installments whose due date has passed and moves the plan forward
func (jr *JobRunner) AdvanceInstallments() {
	jr.runWithRecovery("AdvanceInstallments", func() {
		n, err := jr.advanceInstallments(context.Background())
		if err != nil {
			logger.Error("Failed to advance installments", "error", err)
			return
		}
		logger.Info("Advanced installments", "count", n)
	})
}

func (jr *JobRunner) advanceInstallments(ctx context.Context) (int, error) {
	due, err := jr.stores.Bookings.ListInstallmentsDue(ctx, time.Time{}, jr.now())
	if err != nil {
		return 0, err
	}

	advanced := 0
	for _, b := range due {
		if b.Installment == nil {
			continue
		}
		next := b.Installment.NextInstallment()
		paid := b.PaidAmount.Add(b.Installment.AmountPerInstallment)
		if err := jr.stores.Bookings.AdvanceInstallment(ctx, b.ID, next.RemainingInstallments, next.NextInstallmentDate, paid); err != nil {
			logger.Error("Failed to advance installment", "booking_id", b.ID, "error", err)
			continue
		}
		advanced++
	}
	return advanced, nil
}
