package worker

// overdue_cron.go
// Background goroutine that periodically flips OPEN and PARTIAL credit
// accounts whose due date has passed to OVERDUE.

import (
	"context"
	"time"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/repository"

	"github.com/rs/zerolog/log"
)

const overdueTickInterval = 1 * time.Hour

// StartOverdueCron launches a background goroutine that marks past-due
// credit accounts every hour. It runs one sweep immediately on startup so a
// restarted server does not wait a full tick. Respects the context for
// graceful shutdown.
func StartOverdueCron(ctx context.Context, creditRepo repository.CreditAccountRepository) {
	go func() {
		ticker := time.NewTicker(overdueTickInterval)
		defer ticker.Stop()

		log.Info().Msg("overdue_cron: started")
		sweepOverdue(ctx, creditRepo)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("overdue_cron: shutting down")
				return
			case <-ticker.C:
				sweepOverdue(ctx, creditRepo)
			}
		}
	}()
}

func sweepOverdue(ctx context.Context, creditRepo repository.CreditAccountRepository) {
	n, err := creditRepo.MarkOverdue(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("overdue_cron: sweep failed")
		return
	}
	if n > 0 {
		log.Info().Int64("accounts", n).Msg("overdue_cron: accounts marked overdue")
	}
}
