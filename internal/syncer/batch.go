package syncer

import (
	"context"
	"log"
	"time"

	"github.com/JonesEri07/reqcheck-sub002/internal/domain/integration"
	"github.com/JonesEri07/reqcheck-sub002/internal/domain/skill"
	"github.com/JonesEri07/reqcheck-sub002/internal/repository"

	"github.com/google/uuid"
)

// Syncer runs one integration's sync. Implemented by *Engine.
type Syncer interface {
	Sync(ctx context.Context, in Input) Result
}

// CatalogSource resolves a team's skill catalog for injection into the
// engine (a cache sits in front of the store in production wiring).
type CatalogSource interface {
	CatalogForTeam(ctx context.Context, teamID uuid.UUID) ([]skill.CatalogEntry, error)
}

type IntegrationError struct {
	IntegrationID uuid.UUID `json:"integration_id"`
	TeamID        uuid.UUID `json:"team_id"`
	Error         string    `json:"error"`
}

// Summary aggregates one batch run. Unsupported integration types are
// logged and excluded from all counters.
type Summary struct {
	IntegrationsProcessed int                `json:"integrations_processed"`
	IntegrationsSucceeded int                `json:"integrations_succeeded"`
	IntegrationsFailed    int                `json:"integrations_failed"`
	JobsCreated           int                `json:"jobs_created"`
	JobsUpdated           int                `json:"jobs_updated"`
	Errors                []IntegrationError `json:"errors,omitempty"`
}

type Batch struct {
	integrations repository.IntegrationRepository
	teams        repository.TeamRepository
	catalogs     CatalogSource
	engine       Syncer
	log          *log.Logger
}

func NewBatch(
	integrations repository.IntegrationRepository,
	teams repository.TeamRepository,
	catalogs CatalogSource,
	engine Syncer,
	logger *log.Logger,
) *Batch {
	if logger == nil {
		logger = log.Default()
	}
	return &Batch{integrations: integrations, teams: teams, catalogs: catalogs, engine: engine, log: logger}
}

// Run syncs every integration configured for the cadence, sequentially,
// isolating failures: one integration's error is recorded and the batch
// moves on. The last-sync timestamp only advances on success, so a fixed
// cadence naturally retries failed integrations next run.
func (b *Batch) Run(ctx context.Context, cadence integration.SyncFrequency) (Summary, error) {
	list, err := b.integrations.ListByFrequency(ctx, cadence)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{}
	for _, in := range list {
		if in.Type != integration.TypeGreenhouse {
			b.log.Printf("batch=%s integration_id=%s status=skipped reason=unsupported_type type=%s",
				cadence, in.ID, in.Type)
			continue
		}

		summary.IntegrationsProcessed++

		res := b.runOne(ctx, in)
		if !res.Success {
			summary.IntegrationsFailed++
			summary.Errors = append(summary.Errors, IntegrationError{
				IntegrationID: in.ID,
				TeamID:        in.TeamID,
				Error:         res.Error,
			})
			b.log.Printf("batch=%s integration_id=%s status=error err=%s", cadence, in.ID, res.Error)
			continue
		}

		summary.IntegrationsSucceeded++
		summary.JobsCreated += res.JobsCreated
		summary.JobsUpdated += res.JobsUpdated

		if err := b.integrations.TouchLastSynced(ctx, in.ID, time.Now().UTC()); err != nil {
			b.log.Printf("batch=%s integration_id=%s touch last_synced_at failed: %v", cadence, in.ID, err)
		}
	}

	b.log.Printf("batch=%s processed=%d succeeded=%d failed=%d created=%d updated=%d",
		cadence, summary.IntegrationsProcessed, summary.IntegrationsSucceeded,
		summary.IntegrationsFailed, summary.JobsCreated, summary.JobsUpdated)
	return summary, nil
}

func (b *Batch) runOne(ctx context.Context, in integration.Integration) Result {
	catalog, err := b.catalogs.CatalogForTeam(ctx, in.TeamID)
	if err != nil {
		return failure(Result{}, err)
	}
	matchCfg, err := b.teams.MatchConfig(ctx, in.TeamID)
	if err != nil {
		return failure(Result{}, err)
	}

	return b.engine.Sync(ctx, Input{
		Integration: in,
		Catalog:     catalog,
		MatchConfig: matchCfg,
	})
}
