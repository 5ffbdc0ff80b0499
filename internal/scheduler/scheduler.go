// Package scheduler wires up the cron entries that periodically run the
// batch sync for each configured cadence.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/JonesEri07/reqcheck-sub002/internal/domain/integration"
	"github.com/JonesEri07/reqcheck-sub002/internal/syncer"
)

// BatchRunner runs all integrations of one cadence. Implemented by
// *syncer.Batch.
type BatchRunner interface {
	Run(ctx context.Context, cadence integration.SyncFrequency) (syncer.Summary, error)
}

// cadenceSpecs maps each schedulable cadence onto a cron spec. MANUALLY
// is absent on purpose: those integrations only run via the HTTP trigger.
var cadenceSpecs = map[integration.SyncFrequency]string{
	integration.FrequencyHourly: "@hourly",
	integration.FrequencyDaily:  "@daily",
	integration.FrequencyWeekly: "@weekly",
}

type Scheduler struct {
	cron       *cron.Cron
	batch      BatchRunner
	runTimeout time.Duration
	logger     *log.Logger
}

func New(batch BatchRunner, runTimeout time.Duration, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(cron.DefaultLogger)),
		batch:      batch,
		runTimeout: runTimeout,
		logger:     logger,
	}
}

// Start registers one cron entry per cadence and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	for cadence, spec := range cadenceSpecs {
		cadence := cadence
		_, err := s.cron.AddFunc(spec, func() {
			s.runBatch(ctx, cadence)
		})
		if err != nil {
			return fmt.Errorf("cron.AddFunc %s: %w", cadence, err)
		}
	}

	s.cron.Start()
	s.logger.Printf("scheduler started cadences=%d", len(cadenceSpecs))
	return nil
}

// Stop shuts the scheduler down, waiting for a running batch to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Printf("scheduler stopped")
}

func (s *Scheduler) runBatch(parent context.Context, cadence integration.SyncFrequency) {
	ctx := parent
	cancel := func() {}
	if s.runTimeout > 0 {
		ctx, cancel = context.WithTimeout(parent, s.runTimeout)
	}
	defer cancel()

	summary, err := s.batch.Run(ctx, cadence)
	if err != nil {
		s.logger.Printf("scheduler batch=%s failed: %v", cadence, err)
		return
	}
	s.logger.Printf("scheduler batch=%s processed=%d failed=%d created=%d updated=%d",
		cadence, summary.IntegrationsProcessed, summary.IntegrationsFailed,
		summary.JobsCreated, summary.JobsUpdated)
}
