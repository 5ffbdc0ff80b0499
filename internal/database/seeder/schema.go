package seeder

import (
	"context"
	"fmt"

	"github.com/JonesEri07/reqcheck-sub002/internal/database"
)

// Collaborator tables of the sync engine. The engine only ever creates,
// updates and cascade-deletes rows here; nothing in this service owns a
// wider product schema.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		tag_match_weight DOUBLE PRECISION NOT NULL DEFAULT 1.0,
		tag_no_match_weight DOUBLE PRECISION NOT NULL DEFAULT 0.25,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS skills (
		id UUID PRIMARY KEY,
		team_id UUID NOT NULL REFERENCES teams(id),
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (team_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS skill_aliases (
		id UUID PRIMARY KEY,
		skill_id UUID NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id UUID PRIMARY KEY,
		skill_id UUID NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
		prompt TEXT NOT NULL,
		tags TEXT[] NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS integrations (
		id UUID PRIMARY KEY,
		team_id UUID NOT NULL REFERENCES teams(id),
		type TEXT NOT NULL,
		board_token TEXT NOT NULL,
		sync_frequency TEXT NOT NULL,
		sync_behavior TEXT NOT NULL,
		post_fetch_filters JSONB NOT NULL DEFAULT '[]',
		last_synced_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id UUID PRIMARY KEY,
		team_id UUID NOT NULL REFERENCES teams(id),
		external_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		source TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		synced_at TIMESTAMPTZ,
		UNIQUE (team_id, external_id, source)
	)`,
	`CREATE TABLE IF NOT EXISTS job_skill_associations (
		id UUID PRIMARY KEY,
		job_id UUID NOT NULL REFERENCES jobs(id),
		skill_id UUID NOT NULL,
		weight DOUBLE PRECISION NOT NULL DEFAULT 0,
		required BOOLEAN NOT NULL DEFAULT false,
		manually_added BOOLEAN NOT NULL DEFAULT false
	)`,
	`CREATE TABLE IF NOT EXISTS question_weights (
		id UUID PRIMARY KEY,
		association_id UUID NOT NULL REFERENCES job_skill_associations(id),
		question_id UUID NOT NULL,
		weight DOUBLE PRECISION NOT NULL DEFAULT 0,
		source TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_team_external ON jobs (team_id, external_id, source)`,
	`CREATE INDEX IF NOT EXISTS idx_assoc_job ON job_skill_associations (job_id)`,
	`CREATE INDEX IF NOT EXISTS idx_qw_assoc ON question_weights (association_id)`,
}

// EnsureSchema creates missing collaborator tables and verifies the
// columns the repositories depend on.
func EnsureSchema(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	if err := ensureTableColumns(ctx, db, "jobs", "id", "team_id", "external_id", "title", "description", "status", "source", "synced_at"); err != nil {
		return err
	}
	if err := ensureTableColumns(ctx, db, "job_skill_associations", "id", "job_id", "skill_id", "weight", "required", "manually_added"); err != nil {
		return err
	}
	return ensureTableColumns(ctx, db, "question_weights", "id", "association_id", "question_id", "weight", "source")
}

func ensureTableColumns(ctx context.Context, db database.DB, table string, columns ...string) error {
	rows, err := db.Query(
		ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema='public' AND table_name=$1`,
		table,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		existing[c] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, col := range columns {
		if _, ok := existing[col]; !ok {
			return fmt.Errorf("schema mismatch: missing column %s.%s", table, col)
		}
	}
	return nil
}
