package services

import (
	"context"
	"fmt"
	"time"

	"library-lending/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const sweepTimeout = 30 * time.Second

// CronService runs scheduled lending jobs
type CronService struct {
	ledger  *LendingLedger
	metrics *metrics.LendingMetrics
	logger  *zap.Logger
	cron    *cron.Cron
	now     func() time.Time
}

// NewCronService creates a cron service that runs the overdue sweep on schedule.
// schedule accepts standard five-field cron expressions and descriptors such as "@every 15m".
func NewCronService(ledger *LendingLedger, m *metrics.LendingMetrics, logger *zap.Logger, schedule string) (*CronService, error) {
	s := &CronService{
		ledger:  ledger,
		metrics: m,
		logger:  logger,
		cron:    cron.New(),
		now:     time.Now,
	}

	if _, err := s.cron.AddFunc(schedule, s.SweepOverdue); err != nil {
		return nil, fmt.Errorf("invalid overdue sweep schedule %q: %w", schedule, err)
	}

	return s, nil
}

// Start launches the scheduler in its own goroutine
func (s *CronService) Start() {
	s.cron.Start()
	s.logger.Info("🚀 CronService started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("🛑 CronService stopped")
}

// SweepOverdue counts overdue loans across all tenants and publishes the gauge
func (s *CronService) SweepOverdue() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	count, err := s.ledger.CountOverdueLoans(ctx, s.now())
	if err != nil {
		s.logger.Error("❌ Overdue sweep failed", zap.Error(err))
		return
	}

	s.metrics.OverdueLoans.Set(float64(count))
	if count > 0 {
		s.logger.Info("⏰ Overdue loans", zap.Int64("count", count))
	}
}
