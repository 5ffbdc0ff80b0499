package app

import (
	"context"
	"log"
	"time"

	"github.com/JonesEri07/reqcheck-sub002/internal/config"
	"github.com/JonesEri07/reqcheck-sub002/internal/database"
	dbpostgres "github.com/JonesEri07/reqcheck-sub002/internal/database/postgres"
	"github.com/JonesEri07/reqcheck-sub002/internal/database/seeder"
	"github.com/JonesEri07/reqcheck-sub002/internal/greenhouse"
	"github.com/JonesEri07/reqcheck-sub002/internal/infrastructure/cache"
	"github.com/JonesEri07/reqcheck-sub002/internal/repository"
	"github.com/JonesEri07/reqcheck-sub002/internal/syncer"
	"github.com/JonesEri07/reqcheck-sub002/internal/usecase"
)

// Container owns shared infrastructure and the wired sync components.
// Both binaries build one and pick the pieces they serve.
type Container struct {
	Config config.Config
	Logger *log.Logger
	DB     database.DB
	Cache  *cache.Redis

	Engine *syncer.Engine
	Batch  *syncer.Batch
	SyncUC usecase.SyncUsecase
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := seeder.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	redis := cache.New(logger)

	integrations := repository.NewPostgresIntegrationRepository(db)
	jobs := repository.NewPostgresJobRepository(db)
	assocs := repository.NewPostgresAssociationRepository(db)
	weights := repository.NewPostgresQuestionWeightRepository(db)
	skills := repository.NewPostgresSkillRepository(db)
	teams := repository.NewPostgresTeamRepository(db)

	catalogs := usecase.NewCachedCatalogSource(skills, redis, cache.DefaultTTLFromEnv(), logger)

	fetcher := greenhouse.NewClient(cfg.Greenhouse.BaseURL, cfg.Greenhouse.RequestTimeout, logger)
	engine := syncer.NewEngine(fetcher, jobs, assocs, weights, logger)
	batch := syncer.NewBatch(integrations, teams, catalogs, engine, logger)
	syncUC := usecase.NewSyncUsecase(integrations, teams, catalogs, engine, batch)

	return &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  redis,
		Engine: engine,
		Batch:  batch,
		SyncUC: syncUC,
	}, nil
}

func (c *Container) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
