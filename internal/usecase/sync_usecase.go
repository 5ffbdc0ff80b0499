package usecase

import (
	"context"
	"errors"

	"github.com/JonesEri07/reqcheck-sub002/internal/domain/integration"
	"github.com/JonesEri07/reqcheck-sub002/internal/repository"
	"github.com/JonesEri07/reqcheck-sub002/internal/syncer"

	"github.com/google/uuid"
)

var (
	ErrIntegrationNotFound        = errors.New("integration not found")
	ErrUnsupportedIntegrationType = errors.New("unsupported integration type")
	ErrInvalidSyncFrequency       = errors.New("invalid sync frequency")
)

type SyncUsecase interface {
	// TriggerSync runs one integration immediately, regardless of its
	// configured cadence.
	TriggerSync(ctx context.Context, integrationID uuid.UUID) (syncer.Result, error)
	// RunBatch syncs every integration configured for the cadence.
	RunBatch(ctx context.Context, frequency integration.SyncFrequency) (syncer.Summary, error)
}

type Sync struct {
	integrations repository.IntegrationRepository
	teams        repository.TeamRepository
	catalogs     syncer.CatalogSource
	engine       syncer.Syncer
	batch        *syncer.Batch
}

func NewSyncUsecase(
	integrations repository.IntegrationRepository,
	teams repository.TeamRepository,
	catalogs syncer.CatalogSource,
	engine syncer.Syncer,
	batch *syncer.Batch,
) *Sync {
	return &Sync{
		integrations: integrations,
		teams:        teams,
		catalogs:     catalogs,
		engine:       engine,
		batch:        batch,
	}
}

func (u *Sync) TriggerSync(ctx context.Context, integrationID uuid.UUID) (syncer.Result, error) {
	in, err := u.integrations.FindByID(ctx, integrationID)
	if err != nil {
		return syncer.Result{}, err
	}
	if in == nil {
		return syncer.Result{}, ErrIntegrationNotFound
	}
	if in.Type != integration.TypeGreenhouse {
		return syncer.Result{}, ErrUnsupportedIntegrationType
	}

	catalog, err := u.catalogs.CatalogForTeam(ctx, in.TeamID)
	if err != nil {
		return syncer.Result{}, err
	}
	matchCfg, err := u.teams.MatchConfig(ctx, in.TeamID)
	if err != nil {
		return syncer.Result{}, err
	}

	return u.engine.Sync(ctx, syncer.Input{
		Integration: *in,
		Catalog:     catalog,
		MatchConfig: matchCfg,
	}), nil
}

func (u *Sync) RunBatch(ctx context.Context, frequency integration.SyncFrequency) (syncer.Summary, error) {
	switch frequency {
	case integration.FrequencyHourly, integration.FrequencyDaily, integration.FrequencyWeekly:
	default:
		return syncer.Summary{}, ErrInvalidSyncFrequency
	}
	return u.batch.Run(ctx, frequency)
}
