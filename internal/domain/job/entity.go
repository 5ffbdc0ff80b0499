package job

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

type Source string

const SourceGreenhouse Source = "GREENHOUSE"

// Job is the persisted posting. Created on the first sync of a given
// (team, external id, source) triple, refreshed on every later sync,
// never deleted by the sync engine.
type Job struct {
	ID          uuid.UUID
	TeamID      uuid.UUID
	ExternalID  string
	Title       string
	Description string
	Status      Status
	Source      Source
	CreatedAt   time.Time
	SyncedAt    *time.Time
}

// SkillAssociation links a job to a skill. ManuallyAdded rows are
// operator curated and protected from automatic removal under the
// KEEP_MANUAL and SMART policies.
type SkillAssociation struct {
	ID            uuid.UUID
	JobID         uuid.UUID
	SkillID       uuid.UUID
	Weight        float64
	Required      bool
	ManuallyAdded bool
}

// QuestionWeight is owned by a SkillAssociation and must never outlive it.
type QuestionWeight struct {
	ID            uuid.UUID
	AssociationID uuid.UUID
	QuestionID    uuid.UUID
	Weight        float64
	Source        Source
}
