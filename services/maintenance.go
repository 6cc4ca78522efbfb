package services

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"estimator-backend/config"
	"estimator-backend/logging"
	"estimator-backend/storage"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// MaintenanceTimeout bounds a single maintenance run.
const MaintenanceTimeout = 25 * time.Minute

// Maintenance runs the scheduled housekeeping jobs.
type Maintenance struct {
	store     storage.Store
	retention config.RetentionConfig
	cron      *cron.Cron
	running   int32
	now       func() time.Time
}

// NewMaintenance prepares the scheduler; call Start to run it.
func NewMaintenance(store storage.Store, retention config.RetentionConfig) *Maintenance {
	return &Maintenance{
		store:     store,
		retention: retention,
		cron: cron.New(
			cron.WithLogger(cron.PrintfLogger(zap.NewStdLog(logging.Logger.Named("cron")))),
		),
		now: time.Now,
	}
}

// Start schedules the maintenance run. A non-positive retention disables it.
func (m *Maintenance) Start() error {
	if m.retention.Days <= 0 {
		logging.Info("submission retention disabled")
		return nil
	}
	if _, err := m.cron.AddFunc(m.retention.Schedule, m.runScheduled); err != nil {
		return fmt.Errorf("schedule maintenance %q: %w", m.retention.Schedule, err)
	}
	m.cron.Start()
	logging.Info("maintenance scheduled",
		zap.String("schedule", m.retention.Schedule),
		zap.Int("retention_days", m.retention.Days),
	)
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (m *Maintenance) Stop(ctx context.Context) {
	stopped := m.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
	}
}

func (m *Maintenance) runScheduled() {
	if !atomic.CompareAndSwapInt32(&m.running, 0, 1) {
		logging.Warn("previous maintenance still running, skipping this run")
		return
	}
	defer atomic.StoreInt32(&m.running, 0)

	ctx, cancel := context.WithTimeout(context.Background(), MaintenanceTimeout)
	defer cancel()
	m.RunOnce(ctx)
}

// RunOnce runs every maintenance job and waits for them.
func (m *Maintenance) RunOnce(ctx context.Context) {
	var wg sync.WaitGroup

	safeGo(ctx, &wg, "PurgeExpiredSubmissions", func(ctx context.Context) error {
		_, err := m.PurgeExpiredSubmissions(ctx)
		return err
	})
	safeGo(ctx, &wg, "CheckActiveCalculator", m.CheckActiveCalculator)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("all maintenance jobs finished")
	case <-ctx.Done():
		logging.Warn("maintenance timed out", zap.Error(ctx.Err()))
	}
}

// PurgeExpiredSubmissions deletes submissions older than the retention window.
func (m *Maintenance) PurgeExpiredSubmissions(ctx context.Context) (int64, error) {
	if m.retention.Days <= 0 {
		return 0, nil
	}
	cutoff := m.now().AddDate(0, 0, -m.retention.Days)
	n, err := m.store.PurgeSubmissionsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	logging.Info("expired submissions purged", zap.Int64("deleted", n), zap.Time("cutoff", cutoff))
	return n, nil
}

// CheckActiveCalculator logs validation problems of the live configuration
// so broken admin edits show up in the logs even if nobody prices a quote.
func (m *Maintenance) CheckActiveCalculator(ctx context.Context) error {
	calc, err := m.store.ActiveCalculator(ctx)
	if errors.Is(err, storage.ErrNoActiveCalculator) {
		logging.Warn("no active calculator configured")
		return nil
	}
	if err != nil {
		return err
	}
	if verr := calc.Validate(); verr != nil {
		logging.Warn("active calculator has validation problems",
			zap.String("id", calc.ID),
			zap.Error(verr),
		)
	}
	return nil
}

func safeGo(ctx context.Context, wg *sync.WaitGroup, name string, fn func(context.Context) error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logging.Error("panic in maintenance job",
					zap.String("job", name),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)
			}
		}()

		if err := fn(ctx); err != nil {
			logging.Error("maintenance job failed", zap.String("job", name), zap.Error(err))
			return
		}
		logging.Debug("maintenance job completed", zap.String("job", name))
	}()
}
