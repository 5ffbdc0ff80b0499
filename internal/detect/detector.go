// Package detect matches a team's skill catalog against posting text and
// derives question weights. It is pure: same text, catalog and config in,
// same associations out.
package detect

import (
	"regexp"
	"sort"
	"strings"

	"github.com/JonesEri07/reqcheck-sub002/internal/domain/skill"
	"github.com/JonesEri07/reqcheck-sub002/internal/textnorm"

	"github.com/google/uuid"
)

// Config carries the team's question-weight tuning, passed through from
// team configuration without interpretation.
type Config struct {
	TagMatchWeight   float64
	TagNoMatchWeight float64
}

// Association is a detected job-skill link, ephemeral per sync run.
type Association struct {
	SkillID       uuid.UUID
	SkillName     string
	Weight        float64
	Required      bool
	ManuallyAdded bool
}

// QuestionWeight is keyed by skill so the sync engine can map it onto the
// association row inserted for that skill.
type QuestionWeight struct {
	SkillID    uuid.UUID
	QuestionID uuid.UUID
	Weight     float64
}

// Detect scans title+content for catalog skills. Weights scale with
// mention count; every question of a detected skill gets a weight from
// the team's match/no-match configuration depending on whether any of
// its tags appears in the text.
func Detect(title, content string, catalog []skill.CatalogEntry, cfg Config) ([]Association, []QuestionWeight) {
	text := textnorm.Normalize(title + " " + content)
	if text == "" || len(catalog) == 0 {
		return nil, nil
	}

	type hit struct {
		entry skill.CatalogEntry
		count int
	}

	hits := make([]hit, 0)
	for _, e := range catalog {
		if e.SkillID == uuid.Nil {
			continue
		}
		c := mentionCount(text, e)
		if c <= 0 {
			continue
		}
		hits = append(hits, hit{entry: e, count: c})
	}
	if len(hits) == 0 {
		return nil, nil
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].count == hits[j].count {
			return hits[i].entry.Name < hits[j].entry.Name
		}
		return hits[i].count > hits[j].count
	})

	assocs := make([]Association, 0, len(hits))
	weights := make([]QuestionWeight, 0)
	seen := map[uuid.UUID]struct{}{}
	for _, h := range hits {
		if _, ok := seen[h.entry.SkillID]; ok {
			continue
		}
		seen[h.entry.SkillID] = struct{}{}

		assocs = append(assocs, Association{
			SkillID:   h.entry.SkillID,
			SkillName: h.entry.Name,
			Weight:    weightFromCount(h.count),
		})

		for _, q := range h.entry.Questions {
			if q.ID == uuid.Nil {
				continue
			}
			w := cfg.TagNoMatchWeight
			if anyTagFound(text, q.Tags) {
				w = cfg.TagMatchWeight
			}
			weights = append(weights, QuestionWeight{
				SkillID:    h.entry.SkillID,
				QuestionID: q.ID,
				Weight:     w,
			})
		}
	}

	return assocs, weights
}

// HasAnySkill reports whether at least one catalog entry matches the
// text. Backs the has_detected_skill filter.
func HasAnySkill(text string, catalog []skill.CatalogEntry) bool {
	text = textnorm.Normalize(text)
	for _, e := range catalog {
		if mentionCount(text, e) > 0 {
			return true
		}
	}
	return false
}

func mentionCount(textLower string, e skill.CatalogEntry) int {
	total := termCount(textLower, e.Name)
	for _, a := range e.Aliases {
		total += termCount(textLower, a)
	}
	return total
}

// termCount counts occurrences of a term. Single-character terms require
// word boundaries so "r" never matches inside "for"; longer terms use
// plain substring containment.
func termCount(textLower, term string) int {
	term = textnorm.Normalize(term)
	if term == "" {
		return 0
	}
	if len([]rune(term)) > 1 {
		return strings.Count(textLower, term)
	}

	pat := `(^|[^a-z0-9])` + regexp.QuoteMeta(term) + `([^a-z0-9]|$)`
	re := regexp.MustCompile(pat)
	return len(re.FindAllStringIndex(textLower, -1))
}

func anyTagFound(textLower string, tags []string) bool {
	for _, tag := range tags {
		if termCount(textLower, tag) > 0 {
			return true
		}
	}
	return false
}

// weightFromCount maps mention counts onto (0,1]: repeated mentions mean
// a stronger association, flattening out at four.
func weightFromCount(count int) float64 {
	switch {
	case count >= 4:
		return 1.0
	case count == 3:
		return 0.8
	case count == 2:
		return 0.6
	default:
		return 0.4
	}
}
