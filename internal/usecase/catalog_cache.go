package usecase

import (
	"context"
	"log"
	"time"

	"github.com/JonesEri07/reqcheck-sub002/internal/domain/skill"
	"github.com/JonesEri07/reqcheck-sub002/internal/repository"

	"github.com/google/uuid"
)

type CatalogCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CachedCatalogSource fronts the skill store with redis so a batch run
// over many integrations of the same team loads the catalog once per TTL
// window instead of once per integration. Cache errors are logged and the
// store answers.
type CachedCatalogSource struct {
	skills repository.SkillRepository
	cache  CatalogCache
	ttl    time.Duration
	logger *log.Logger
}

func NewCachedCatalogSource(skills repository.SkillRepository, cache CatalogCache, ttl time.Duration, logger *log.Logger) *CachedCatalogSource {
	if logger == nil {
		logger = log.Default()
	}
	return &CachedCatalogSource{skills: skills, cache: cache, ttl: ttl, logger: logger}
}

func teamCatalogKey(teamID uuid.UUID) string {
	return "catalog:team:" + teamID.String()
}

func (c *CachedCatalogSource) CatalogForTeam(ctx context.Context, teamID uuid.UUID) ([]skill.CatalogEntry, error) {
	key := teamCatalogKey(teamID)

	if c.cache != nil {
		var cached []skill.CatalogEntry
		found, err := c.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			c.logger.Printf("catalog cache read failed team_id=%s err=%v", teamID, err)
		}
		if found {
			return cached, nil
		}
	}

	catalog, err := c.skills.LoadCatalog(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.SetJSON(ctx, key, catalog, c.ttl); err != nil {
			c.logger.Printf("catalog cache write failed team_id=%s err=%v", teamID, err)
		}
	}
	return catalog, nil
}

// InvalidateTeamCatalog drops the cached catalog, used after catalog
// mutations so the next sync sees fresh skills.
func (c *CachedCatalogSource) InvalidateTeamCatalog(ctx context.Context, teamID uuid.UUID) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Delete(ctx, teamCatalogKey(teamID))
}
