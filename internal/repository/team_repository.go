package repository

import (
	"context"

	"github.com/JonesEri07/reqcheck-sub002/internal/database"
	"github.com/JonesEri07/reqcheck-sub002/internal/domain/team"

	"github.com/google/uuid"
)

type TeamRepository interface {
	// MatchConfig returns the team's weight tuning, falling back to
	// defaults when the team has none.
	MatchConfig(ctx context.Context, teamID uuid.UUID) (team.MatchConfig, error)
}

type PostgresTeamRepository struct {
	db database.DB
}

func NewPostgresTeamRepository(db database.DB) *PostgresTeamRepository {
	return &PostgresTeamRepository{db: db}
}

func (r *PostgresTeamRepository) MatchConfig(ctx context.Context, teamID uuid.UUID) (team.MatchConfig, error) {
	rows, err := r.db.Query(ctx,
		`SELECT tag_match_weight, tag_no_match_weight FROM teams WHERE id = $1 LIMIT 1`, teamID)
	if err != nil {
		return team.MatchConfig{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return team.MatchConfig{}, err
		}
		return team.DefaultMatchConfig(), nil
	}

	var cfg team.MatchConfig
	if err := rows.Scan(&cfg.TagMatchWeight, &cfg.TagNoMatchWeight); err != nil {
		return team.MatchConfig{}, err
	}
	return cfg, rows.Err()
}
