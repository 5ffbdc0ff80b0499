package skill

import (
	"time"

	"github.com/google/uuid"
)

type Skill struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

type Alias struct {
	ID      uuid.UUID
	SkillID uuid.UUID
	Value   string
}

type Question struct {
	ID      uuid.UUID
	SkillID uuid.UUID
	Prompt  string
	Tags    []string
}

// CatalogEntry is the read model the detector and the has_detected_skill
// filter match against. Names and aliases are stored normalized
// (lowercase, trimmed); the catalog is never mutated by a sync run.
type CatalogEntry struct {
	SkillID   uuid.UUID  `json:"skill_id"`
	Name      string     `json:"name"`
	Aliases   []string   `json:"aliases,omitempty"`
	Questions []Question `json:"questions,omitempty"`
}
