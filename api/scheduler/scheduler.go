package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/databases"
)

const (
	reconcileJob     = "reconcile_job"
	reconcileTimeout = 5 * time.Minute
	reconcileLockTTL = 10 * time.Minute
)

// Reconciler repairs complaints that drifted from their FIR and case file
type Reconciler interface {
	Reconcile(ctx context.Context) (int, error)
}

// Scheduler runs the periodic reconciliation sweep
type Scheduler struct {
	cron       *cron.Cron
	Engine     Reconciler
	LockDB     databases.SchedulerLockDatabase
	schedule   string
	instanceID string
}

// NewScheduler creates a new scheduler instance. schedule is a five field cron spec.
func NewScheduler(engine Reconciler, lockDB databases.SchedulerLockDatabase, schedule string) *Scheduler {
	// Heroku sets DYNO to "web.1", "web.2", etc.
	instanceID := os.Getenv("DYNO")
	if instanceID == "" {
		instanceID = "instance-" + uuid.NewString()
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		Engine:     engine,
		LockDB:     lockDB,
		schedule:   schedule,
		instanceID: instanceID,
	}
}

// Start registers the reconciliation job and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.reconcile); err != nil {
		return fmt.Errorf("failed to register reconcile job %q: %w", s.schedule, err)
	}
	s.cron.Start()
	zap.S().Infow("reconcile scheduler started", "schedule", s.schedule, "instance", s.instanceID)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running sweep
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("reconcile scheduler stopped")
}

// reconcile sweeps unresolved complaints on one instance at a time
func (s *Scheduler) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, reconcileJob, s.instanceID, reconcileLockTTL)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for reconcile job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("reconcile job already running on another instance, skipping")
		return
	}
	defer func() {
		if err := s.LockDB.ReleaseLock(context.Background(), reconcileJob, s.instanceID); err != nil {
			zap.S().Warnw("failed to release reconcile lock", "error", err)
		}
	}()

	start := time.Now()
	repaired, err := s.Engine.Reconcile(ctx)
	if err != nil {
		zap.S().Errorw("reconcile sweep failed", "repaired", repaired, "error", err)
		return
	}
	zap.S().Infow("reconcile sweep complete",
		"repaired", repaired,
		"took", time.Since(start).String(),
	)
}
