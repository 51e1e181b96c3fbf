// Package scheduler periodically re-evaluates auto labels for all accounts.
// Time-window rules ("New", "Last-hour") expire without any message arriving,
// so labels must be refreshed even when the webhook is quiet.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"whatsdesk-go/internal/config"
	"whatsdesk-go/internal/model"
)

// AccountLister enumerates the tenants to refresh.
type AccountLister interface {
	ListAccounts() ([]model.Account, error)
}

// Refresher runs the batch auto label evaluation for one account.
type Refresher interface {
	RefreshAccount(accountID string) (updated int, failed int, err error)
}

// Scheduler manages the periodic label refresh job
type Scheduler struct {
	cron      *cron.Cron
	entryID   cron.EntryID
	config    *config.SchedulerConfig
	accounts  AccountLister
	refresher Refresher
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
	mu        sync.RWMutex
}

// NewScheduler creates a new scheduler
func NewScheduler(cfg *config.SchedulerConfig, accounts AccountLister, refresher Refresher) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		config:    cfg,
		accounts:  accounts,
		refresher: refresher,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	schedule := fmt.Sprintf("0 */%d * * * *", s.config.IntervalMinutes)

	entryID, err := s.cron.AddFunc(schedule, s.refreshAllAccounts)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	if s.ctx.Err() != nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}

	s.entryID = entryID
	s.cron.Start()
	s.isRunning = true

	logrus.Infof("Label refresh scheduler started with interval: %d minutes", s.config.IntervalMinutes)
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.cancel()

	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
		logrus.Info("Scheduler stopped gracefully")
	case <-time.After(30 * time.Second):
		logrus.Warn("Scheduler stop timeout, forcing shutdown")
	}

	s.isRunning = false
	return nil
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// refreshAllAccounts is the job body that runs periodically
func (s *Scheduler) refreshAllAccounts() {
	s.wg.Add(1)
	defer s.wg.Done()

	s.mu.RLock()
	if !s.isRunning {
		s.mu.RUnlock()
		logrus.Info("Scheduler not running, skipping refresh cycle")
		return
	}
	s.mu.RUnlock()

	logrus.Info("Starting label refresh cycle")
	startTime := time.Now()

	accounts, err := s.accounts.ListAccounts()
	if err != nil {
		logrus.Errorf("Failed to list accounts: %v", err)
		return
	}

	for _, account := range accounts {
		select {
		case <-s.ctx.Done():
			logrus.Info("Label refresh cycle cancelled")
			return
		default:
		}

		updated, failed, err := s.refresher.RefreshAccount(account.ID)
		if err != nil {
			logrus.Errorf("Failed to refresh labels for account %s: %v", account.ID, err)
			continue
		}
		if failed > 0 {
			logrus.Warnf("Refreshed labels for account %s: %d updated, %d failed", account.ID, updated, failed)
		}
	}

	logrus.Infof("Label refresh cycle completed in %v", time.Since(startTime))
}

// RunOnce runs the label refresh once (for manual triggering)
func (s *Scheduler) RunOnce() error {
	logrus.Info("Running label refresh once")
	s.refreshAllAccounts()
	return nil
}

// GetNextRun returns the time of the next scheduled run
func (s *Scheduler) GetNextRun() time.Time {
	if !s.IsRunning() {
		return time.Time{}
	}

	entry := s.cron.Entry(s.entryID)
	return entry.Next
}

// GetLastRun returns the time of the last run
func (s *Scheduler) GetLastRun() time.Time {
	if !s.IsRunning() {
		return time.Time{}
	}

	entry := s.cron.Entry(s.entryID)
	return entry.Prev
}

// Wait waits for in-flight refresh cycles to finish
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
