package repository

import (
	"context"
	"time"

	"github.com/JonesEri07/reqcheck-sub002/internal/database"
	"github.com/JonesEri07/reqcheck-sub002/internal/domain/integration"

	"github.com/google/uuid"
)

type IntegrationRepository interface {
	// FindByID returns nil, nil when the integration does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*integration.Integration, error)
	ListByFrequency(ctx context.Context, f integration.SyncFrequency) ([]integration.Integration, error)
	// TouchLastSynced is only called after a fully successful run; a
	// failed integration keeps its old timestamp so the next scheduled
	// run retries it naturally.
	TouchLastSynced(ctx context.Context, id uuid.UUID, syncedAt time.Time) error
}

type PostgresIntegrationRepository struct {
	db database.DB
}

func NewPostgresIntegrationRepository(db database.DB) *PostgresIntegrationRepository {
	return &PostgresIntegrationRepository{db: db}
}

const integrationColumns = `id, team_id, type, board_token, sync_frequency, sync_behavior, post_fetch_filters, last_synced_at`

func (r *PostgresIntegrationRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.Integration, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+integrationColumns+` FROM integrations WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	in, err := scanIntegration(rows)
	if err != nil {
		return nil, err
	}
	return &in, rows.Err()
}

func (r *PostgresIntegrationRepository) ListByFrequency(ctx context.Context, f integration.SyncFrequency) ([]integration.Integration, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+integrationColumns+` FROM integrations WHERE sync_frequency = $1 ORDER BY created_at`,
		string(f),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]integration.Integration, 0)
	for rows.Next() {
		in, err := scanIntegration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresIntegrationRepository) TouchLastSynced(ctx context.Context, id uuid.UUID, syncedAt time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE integrations SET last_synced_at = $2 WHERE id = $1`, id, syncedAt)
	return err
}

func scanIntegration(rows database.Rows) (integration.Integration, error) {
	var in integration.Integration
	var typ, freq, behavior string
	if err := rows.Scan(&in.ID, &in.TeamID, &typ, &in.BoardToken, &freq, &behavior, &in.RawFilters, &in.LastSyncedAt); err != nil {
		return integration.Integration{}, err
	}
	in.Type = integration.Type(typ)
	in.SyncFrequency = integration.SyncFrequency(freq)
	in.SyncBehavior = integration.SyncBehavior(behavior)
	return in, nil
}
