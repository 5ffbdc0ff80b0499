package repository

import (
	"context"

	"github.com/JonesEri07/reqcheck-sub002/internal/database"
	"github.com/JonesEri07/reqcheck-sub002/internal/domain/job"

	"github.com/google/uuid"
)

type AssociationRepository interface {
	ListByJobID(ctx context.Context, jobID uuid.UUID) ([]job.SkillAssociation, error)
	InsertMany(ctx context.Context, assocs []job.SkillAssociation) error
	// DeleteCascade removes associations and their question weights.
	// Weights go first, inside the same transaction, so a weight row can
	// never outlive its association even under partial failure.
	DeleteCascade(ctx context.Context, ids []uuid.UUID) error
}

type PostgresAssociationRepository struct {
	db database.DB
}

func NewPostgresAssociationRepository(db database.DB) *PostgresAssociationRepository {
	return &PostgresAssociationRepository{db: db}
}

func (r *PostgresAssociationRepository) ListByJobID(ctx context.Context, jobID uuid.UUID) ([]job.SkillAssociation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, job_id, skill_id, weight, required, manually_added
		 FROM job_skill_associations
		 WHERE job_id = $1
		 ORDER BY id`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.SkillAssociation, 0)
	for rows.Next() {
		var a job.SkillAssociation
		if err := rows.Scan(&a.ID, &a.JobID, &a.SkillID, &a.Weight, &a.Required, &a.ManuallyAdded); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresAssociationRepository) InsertMany(ctx context.Context, assocs []job.SkillAssociation) error {
	for _, a := range assocs {
		_, err := r.db.Exec(ctx,
			`INSERT INTO job_skill_associations (id, job_id, skill_id, weight, required, manually_added)
			 VALUES ($1,$2,$3,$4,$5,$6)`,
			a.ID, a.JobID, a.SkillID, a.Weight, a.Required, a.ManuallyAdded,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresAssociationRepository) DeleteCascade(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM question_weights WHERE association_id = ANY($1)`, ids); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM job_skill_associations WHERE id = ANY($1)`, ids); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
