package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/edubooks-storefront/internal/app/service"
	"github.com/ikkim/edubooks-storefront/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Disabled turns the schedule off.
const Disabled = "off"

const syncTimeout = 30 * time.Second

// CartSyncScheduler re-fetches the cart on a cron schedule so changes made
// from another device show up without a write from this session.
type CartSyncScheduler struct {
	cron *cron.Cron
	cart service.CartService
}

func NewCartSyncScheduler(cart service.CartService) *CartSyncScheduler {
	return &CartSyncScheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		cart: cart,
	}
}

// Start registers the sync job with spec and starts the scheduler.
func (s *CartSyncScheduler) Start(spec string) error {
	if spec == "" || spec == Disabled {
		logger.Info("Cart sync scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(spec, s.Sync); err != nil {
		logger.Error("Failed to add cart sync job", err, map[string]interface{}{
			"spec": spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Cart sync scheduler started", map[string]interface{}{
		"spec": spec,
	})
	return nil
}

// Sync runs one re-fetch unless a cart request is already in flight.
func (s *CartSyncScheduler) Sync() {
	if s.cart.Loading() {
		logger.Debug("Cart busy, skipping scheduled sync")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	if err := s.cart.Fetch(ctx); err != nil {
		logger.Warn("Scheduled cart sync failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	logger.Debug("Scheduled cart sync done", map[string]interface{}{
		"items": s.cart.Count(),
	})
}

// Stop waits for a running sync to finish.
func (s *CartSyncScheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("Cart sync scheduler stopped")
}
