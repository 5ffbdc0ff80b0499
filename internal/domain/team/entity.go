package team

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// MatchConfig carries the team's question-weight tuning. The sync engine
// passes it through to the detector untouched.
type MatchConfig struct {
	TagMatchWeight   float64
	TagNoMatchWeight float64
}

// DefaultMatchConfig mirrors the values applied when a team has not
// tuned its weights.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{TagMatchWeight: 1.0, TagNoMatchWeight: 0.25}
}
