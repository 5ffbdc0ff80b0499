package repository

import (
	"context"

	"github.com/JonesEri07/reqcheck-sub002/internal/database"
	"github.com/JonesEri07/reqcheck-sub002/internal/domain/skill"
	"github.com/JonesEri07/reqcheck-sub002/internal/textnorm"

	"github.com/google/uuid"
)

type SkillRepository interface {
	// LoadCatalog returns the team's skills with aliases and questions,
	// names normalized for matching.
	LoadCatalog(ctx context.Context, teamID uuid.UUID) ([]skill.CatalogEntry, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) LoadCatalog(ctx context.Context, teamID uuid.UUID) ([]skill.CatalogEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name FROM skills WHERE team_id = $1 ORDER BY name`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]skill.CatalogEntry, 0)
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		index[id] = len(entries)
		entries = append(entries, skill.CatalogEntry{SkillID: id, Name: textnorm.Normalize(name)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()
	if len(entries) == 0 {
		return entries, nil
	}

	aliasRows, err := r.db.Query(ctx,
		`SELECT a.skill_id, a.value
		 FROM skill_aliases a JOIN skills s ON s.id = a.skill_id
		 WHERE s.team_id = $1
		 ORDER BY a.value`,
		teamID,
	)
	if err != nil {
		return nil, err
	}
	defer aliasRows.Close()

	for aliasRows.Next() {
		var skillID uuid.UUID
		var value string
		if err := aliasRows.Scan(&skillID, &value); err != nil {
			return nil, err
		}
		if i, ok := index[skillID]; ok {
			entries[i].Aliases = append(entries[i].Aliases, textnorm.Normalize(value))
		}
	}
	if err := aliasRows.Err(); err != nil {
		return nil, err
	}

	questionRows, err := r.db.Query(ctx,
		`SELECT q.id, q.skill_id, q.prompt, q.tags
		 FROM questions q JOIN skills s ON s.id = q.skill_id
		 WHERE s.team_id = $1
		 ORDER BY q.id`,
		teamID,
	)
	if err != nil {
		return nil, err
	}
	defer questionRows.Close()

	for questionRows.Next() {
		var q skill.Question
		if err := questionRows.Scan(&q.ID, &q.SkillID, &q.Prompt, &q.Tags); err != nil {
			return nil, err
		}
		if i, ok := index[q.SkillID]; ok {
			entries[i].Questions = append(entries[i].Questions, q)
		}
	}
	if err := questionRows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
