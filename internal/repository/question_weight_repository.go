package repository

import (
	"context"

	"github.com/JonesEri07/reqcheck-sub002/internal/database"
	"github.com/JonesEri07/reqcheck-sub002/internal/domain/job"

	"github.com/google/uuid"
)

type QuestionWeightRepository interface {
	InsertMany(ctx context.Context, weights []job.QuestionWeight) error
	ListByAssociationIDs(ctx context.Context, associationIDs []uuid.UUID) ([]job.QuestionWeight, error)
}

type PostgresQuestionWeightRepository struct {
	db database.DB
}

func NewPostgresQuestionWeightRepository(db database.DB) *PostgresQuestionWeightRepository {
	return &PostgresQuestionWeightRepository{db: db}
}

func (r *PostgresQuestionWeightRepository) InsertMany(ctx context.Context, weights []job.QuestionWeight) error {
	for _, w := range weights {
		_, err := r.db.Exec(ctx,
			`INSERT INTO question_weights (id, association_id, question_id, weight, source)
			 VALUES ($1,$2,$3,$4,$5)`,
			w.ID, w.AssociationID, w.QuestionID, w.Weight, string(w.Source),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresQuestionWeightRepository) ListByAssociationIDs(ctx context.Context, associationIDs []uuid.UUID) ([]job.QuestionWeight, error) {
	if len(associationIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, association_id, question_id, weight, source
		 FROM question_weights
		 WHERE association_id = ANY($1)
		 ORDER BY id`,
		associationIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.QuestionWeight, 0)
	for rows.Next() {
		var w job.QuestionWeight
		var src string
		if err := rows.Scan(&w.ID, &w.AssociationID, &w.QuestionID, &w.Weight, &src); err != nil {
			return nil, err
		}
		w.Source = job.Source(src)
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
