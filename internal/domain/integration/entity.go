package integration

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const TypeGreenhouse Type = "GREENHOUSE"

// SyncFrequency is the configured cadence. MANUALLY is never scheduled;
// the other values map onto cron specs in the scheduler.
type SyncFrequency string

const (
	FrequencyManually SyncFrequency = "MANUALLY"
	FrequencyHourly   SyncFrequency = "HOURLY"
	FrequencyDaily    SyncFrequency = "DAILY"
	FrequencyWeekly   SyncFrequency = "WEEKLY"
)

// SyncBehavior selects the reconciliation policy applied to a job's
// skill associations when the job already exists.
type SyncBehavior string

const (
	BehaviorReplaceAll SyncBehavior = "REPLACE_ALL"
	BehaviorKeepManual SyncBehavior = "KEEP_MANUAL"
	BehaviorSmart      SyncBehavior = "SMART"
)

type Integration struct {
	ID            uuid.UUID
	TeamID        uuid.UUID
	Type          Type
	BoardToken    string
	SyncFrequency SyncFrequency
	SyncBehavior  SyncBehavior
	// RawFilters holds the post-fetch filter chain as stored (JSON);
	// it is parsed and validated at the configuration boundary.
	RawFilters   []byte
	LastSyncedAt *time.Time
	CreatedAt    time.Time
}
