package scheduler

import (
	"time"

	"github.com/oakmart/oakmart-backend/internal/app/repository"
	"github.com/oakmart/oakmart-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CartExpiryScheduler marks shopping carts idle for longer than the
// active window as inactive.
type CartExpiryScheduler struct {
	cron         *cron.Cron
	cartRepo     repository.CartRepository
	activeWindow time.Duration
}

func NewCartExpiryScheduler(cartRepo repository.CartRepository, activeWindow time.Duration) *CartExpiryScheduler {
	return &CartExpiryScheduler{
		cron:         cron.New(),
		cartRepo:     cartRepo,
		activeWindow: activeWindow,
	}
}

// Start registers the daily sweep at 3:00 AM.
func (s *CartExpiryScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		cutoff := time.Now().Add(-s.activeWindow)
		logger.Info("Starting scheduled cart expiry sweep", map[string]interface{}{
			"cutoff": cutoff,
		})

		expired, err := s.cartRepo.ExpireIdleBefore(cutoff)
		if err != nil {
			logger.Error("Failed to expire idle carts", err)
			return
		}

		logger.Info("Cart expiry sweep completed", map[string]interface{}{
			"expired": expired,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for cart expiry", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart expiry scheduler started (daily at 3:00 AM)", nil)

	return nil
}

func (s *CartExpiryScheduler) Stop() {
	logger.Info("Stopping cart expiry scheduler...", nil)
	s.cron.Stop()
	logger.Info("Cart expiry scheduler stopped", nil)
}
