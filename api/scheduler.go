/*
scheduler.go - Automated certification expiry scan

PURPOSE:
  Once per calendar day, groups every certification into the expiry alert
  windows and records the result as an alert run. Ops read the run history
  (GET /api/alerts/runs) and the structured log lines; delivering alerts by
  email is out of scope.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Uses the day the check fires as "today" for the whole scan
  - Skips days that already have a completed run
  - Records each run (running, completed, failed) for audit and UI display

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewExpiryAlertScheduler(store, store, calendar, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: TriggerAlertScan endpoint (manual scan)
  - certification/grouping.go: GroupByExpiry
*/
package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/fleet-engine/certification"
	"github.com/warp/fleet-engine/generic"
	"github.com/warp/fleet-engine/roster"
	"github.com/warp/fleet-engine/store/sqlite"
)

// AlertRunStore persists scan history.
type AlertRunStore interface {
	SaveAlertRun(ctx context.Context, run sqlite.AlertRun) error
	IsAlertRunComplete(ctx context.Context, day generic.TimePoint) (bool, error)
}

// expiringLister is implemented by stores that can filter by expiry date.
type expiringLister interface {
	ListCertificationsExpiringBefore(ctx context.Context, cutoff generic.TimePoint) ([]certification.Record, error)
}

// ExpiryAlertScheduler handles the daily expiry scan.
type ExpiryAlertScheduler struct {
	Records       certification.Store
	Runs          AlertRunStore
	Calendar      *roster.Calculator
	Logger        *zap.Logger
	CheckInterval time.Duration
	Enabled       bool

	// Now is the clock; tests replace it.
	Now func() time.Time

	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewExpiryAlertScheduler creates a new scheduler.
func NewExpiryAlertScheduler(records certification.Store, runs AlertRunStore, calendar *roster.Calculator, logger *zap.Logger) *ExpiryAlertScheduler {
	return &ExpiryAlertScheduler{
		Records:       records,
		Runs:          runs,
		Calendar:      calendar,
		Logger:        logger.Named("alerts"),
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		Now:           time.Now,
	}
}

// Start begins the scheduler.
func (s *ExpiryAlertScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		s.Logger.Info("scheduler disabled, not starting")
		return
	}
	if s.running {
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.running = true
	s.wg.Add(1)

	go s.run()

	s.Logger.Info("scheduler started", zap.Duration("interval", s.CheckInterval))
}

// Stop stops the scheduler and waits for an in-flight scan.
func (s *ExpiryAlertScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.running = false
	s.Logger.Info("scheduler stopped")
}

func (s *ExpiryAlertScheduler) run() {
	defer s.wg.Done()

	// Run immediately on start
	s.checkAndProcess()

	for {
		select {
		case <-s.ticker.C:
			s.checkAndProcess()
		case <-s.stop:
			return
		}
	}
}

func (s *ExpiryAlertScheduler) checkAndProcess() {
	ctx := context.Background()
	today := s.Now()
	day := generic.DateOf(today)

	done, err := s.Runs.IsAlertRunComplete(ctx, day)
	if err != nil {
		s.Logger.Error("checking alert run status", zap.Stringer("day", day), zap.Error(err))
		return
	}
	if done {
		s.Logger.Debug("alert run already complete", zap.Stringer("day", day))
		return
	}

	if _, err := s.Scan(ctx, today); err != nil {
		s.Logger.Error("alert scan failed", zap.Stringer("day", day), zap.Error(err))
	}
}

// RunNow triggers an immediate check (for testing/admin). A day that already
// has a completed run is skipped.
func (s *ExpiryAlertScheduler) RunNow() {
	s.checkAndProcess()
}

// Scan groups every certification against today and records the run,
// replacing any earlier run for the same day.
func (s *ExpiryAlertScheduler) Scan(ctx context.Context, today time.Time) (sqlite.AlertRun, error) {
	day := generic.DateOf(today)
	started := s.Now()

	run := sqlite.AlertRun{
		ID:         uuid.NewString(),
		RunDate:    day,
		PeriodCode: s.Calendar.Current(today).Code,
		Status:     sqlite.AlertRunRunning,
		StartedAt:  &started,
		CreatedAt:  started,
	}
	if err := s.Runs.SaveAlertRun(ctx, run); err != nil {
		return run, fmt.Errorf("failed to save run record: %w", err)
	}

	groups, err := s.group(ctx, today)
	if err != nil {
		run.Status = sqlite.AlertRunFailed
		run.Error = err.Error()
		if saveErr := s.Runs.SaveAlertRun(ctx, run); saveErr != nil {
			s.Logger.Error("failed to record failed run", zap.Error(saveErr))
		}
		return run, err
	}

	completed := s.Now()
	run.Status = sqlite.AlertRunCompleted
	run.TotalExpiring = groups.TotalExpiring()
	run.Expired = groups[certification.GroupExpired].Len()
	run.Within14Days = groups[certification.GroupWithin14Days].Len()
	run.CompletedAt = &completed

	if err := s.Runs.SaveAlertRun(ctx, run); err != nil {
		return run, fmt.Errorf("failed to update run record: %w", err)
	}

	s.logGroups(run, groups)
	return run, nil
}

func (s *ExpiryAlertScheduler) group(ctx context.Context, today time.Time) (certification.ExpiryGroups, error) {
	var records []certification.Record
	var err error
	if lister, ok := s.Records.(expiringLister); ok {
		cutoff := generic.DateOf(today).AddDays(certification.AlertHorizonDays)
		records, err = lister.ListCertificationsExpiringBefore(ctx, cutoff)
	} else {
		records, err = s.Records.ListCertifications(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("loading certifications: %w", err)
	}

	categories, err := s.Records.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}

	return certification.NewClassifier(categories).GroupByExpiry(records, today), nil
}

func (s *ExpiryAlertScheduler) logGroups(run sqlite.AlertRun, groups certification.ExpiryGroups) {
	if groups.AllClear() {
		s.Logger.Info("all certifications current",
			zap.Stringer("day", run.RunDate), zap.String("period", run.PeriodCode))
		return
	}

	for _, g := range groups.InOrder() {
		if g.Len() == 0 {
			continue
		}
		level := zap.InfoLevel
		if g.ID == certification.GroupExpired || g.ID == certification.GroupWithin14Days {
			level = zap.WarnLevel
		}
		s.Logger.Log(level, "certifications need attention",
			zap.String("group", string(g.ID)),
			zap.Int("count", g.Len()),
			zap.Strings("categories", g.Categories),
			zap.String("period", run.PeriodCode),
		)
	}
}
