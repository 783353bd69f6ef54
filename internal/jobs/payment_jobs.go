package jobs

import (
	"context"
	"time"

	"carrental-backend/internal/logger"
)

// ExpireStalePaymentSessions expires pending checkout sessions older than the configured TTL
func (jr *JobRunner) ExpireStalePaymentSessions() {
	jr.runWithRecovery("ExpireStalePaymentSessions", func() {
		n, err := jr.expireStalePaymentSessions(context.Background())
		if err != nil {
			logger.Error("Failed to expire payment sessions", "error", err)
			return
		}
		logger.Info("Expired stale payment sessions", "count", n)
	})
}

func (jr *JobRunner) expireStalePaymentSessions(ctx context.Context) (int64, error) {
	ttl := time.Duration(jr.config.Payment.SessionTTLMinutes) * time.Minute
	return jr.stores.Payments.ExpireStale(ctx, jr.now().Add(-ttl))
}
