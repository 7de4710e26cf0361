// Package scheduler runs periodic background jobs. Right now that is a
// single task: refreshing open ledger mirrors from the document store so
// long-lived sessions converge with writes made by other clients.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	portssvc "github.com/mustafajawed/Budget-Manager/internal/core/ports/services"
)

// resyncTimeout bounds a single full-mirror refresh.
const resyncTimeout = 5 * time.Minute

// Scheduler manages the cron tasks.
type Scheduler struct {
	cron   *cron.Cron
	ledger portssvc.LedgerSessionSvc
	logger *slog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ledger portssvc.LedgerSessionSvc, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		ledger: ledger,
		logger: logger,
	}
}

// RegisterResync schedules a mirror refresh on the given cron spec.
func (s *Scheduler) RegisterResync(spec string) error {
	_, err := s.cron.AddFunc(spec, s.resyncTask)
	return err
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) resyncTask() {
	ctx, cancel := context.WithTimeout(context.Background(), resyncTimeout)
	defer cancel()

	s.logger.Info("Refreshing open ledger mirrors")
	s.ledger.Resync(ctx)
}
