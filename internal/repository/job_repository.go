package repository

import (
	"context"
	"time"

	"github.com/JonesEri07/reqcheck-sub002/internal/database"
	"github.com/JonesEri07/reqcheck-sub002/internal/domain/job"

	"github.com/google/uuid"
)

type JobRepository interface {
	// FindByExternalID returns nil, nil when no job exists for the
	// (team, external id, source) triple.
	FindByExternalID(ctx context.Context, teamID uuid.UUID, externalID string, source job.Source) (*job.Job, error)
	Create(ctx context.Context, j job.Job) error
	// RefreshSynced updates the fields every sync rewrites regardless of
	// reconciliation policy.
	RefreshSynced(ctx context.Context, id uuid.UUID, title, description string, status job.Status, syncedAt time.Time) error
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) FindByExternalID(ctx context.Context, teamID uuid.UUID, externalID string, source job.Source) (*job.Job, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, team_id, external_id, title, description, status, source, synced_at
		 FROM jobs
		 WHERE team_id = $1 AND external_id = $2 AND source = $3
		 LIMIT 1`,
		teamID, externalID, string(source),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var j job.Job
	var status, src string
	if err := rows.Scan(&j.ID, &j.TeamID, &j.ExternalID, &j.Title, &j.Description, &status, &src, &j.SyncedAt); err != nil {
		return nil, err
	}
	j.Status = job.Status(status)
	j.Source = job.Source(src)
	return &j, rows.Err()
}

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO jobs (id, team_id, external_id, title, description, status, source, synced_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		j.ID, j.TeamID, j.ExternalID, j.Title, j.Description, string(j.Status), string(j.Source), j.SyncedAt,
	)
	return err
}

func (r *PostgresJobRepository) RefreshSynced(ctx context.Context, id uuid.UUID, title, description string, status job.Status, syncedAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE jobs SET title = $2, description = $3, status = $4, synced_at = $5 WHERE id = $1`,
		id, title, description, string(status), syncedAt,
	)
	return err
}
