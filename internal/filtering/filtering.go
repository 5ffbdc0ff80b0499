// Package filtering applies an integration's post-fetch filter chain to
// fetched postings. Filters combine with AND semantics in configured
// order; configuration problems fail closed, excluding the posting,
// never letting one through by accident.
package filtering

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/JonesEri07/reqcheck-sub002/internal/detect"
	"github.com/JonesEri07/reqcheck-sub002/internal/domain/skill"
	"github.com/JonesEri07/reqcheck-sub002/internal/greenhouse"
	"github.com/JonesEri07/reqcheck-sub002/internal/textnorm"
)

type Type string

const (
	TypeIgnoreIfContains Type = "ignore_if_contains"
	TypeOnlyIfContains   Type = "only_if_contains"
	TypeMetadataExists   Type = "metadata_exists"
	TypeMetadataMatches  Type = "metadata_matches"
	TypeHasDetectedSkill Type = "has_detected_skill"
)

var ErrUnknownFilterType = errors.New("unknown filter type")

// Filter is the closed configuration union. Key is used by the metadata
// filters, Value by the containment and metadata_matches filters.
type Filter struct {
	Type  Type   `json:"type"`
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`
}

// ParseFilters validates stored filter configuration. Unknown types are
// rejected here, at the configuration boundary, rather than silently
// passing postings through at evaluation time.
func ParseFilters(raw []byte) ([]Filter, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var filters []Filter
	if err := json.Unmarshal(raw, &filters); err != nil {
		return nil, fmt.Errorf("parse filters: %w", err)
	}

	for i, f := range filters {
		switch f.Type {
		case TypeIgnoreIfContains, TypeOnlyIfContains, TypeMetadataExists, TypeMetadataMatches, TypeHasDetectedSkill:
		default:
			return nil, fmt.Errorf("%w: %q (filter %d)", ErrUnknownFilterType, f.Type, i)
		}
	}
	return filters, nil
}

// Step reports a single filter's effect over the chain run.
type Step struct {
	Name    string
	Initial int
	Dropped int
	Left    int
}

// Apply runs the chain over the postings. A posting survives only if
// every filter accepts it; evaluation short-circuits at the first filter
// that drops it. An empty chain returns the postings unchanged.
func Apply(postings []greenhouse.Posting, filters []Filter, catalog []skill.CatalogEntry) ([]greenhouse.Posting, []Step) {
	steps := make([]Step, 0, len(filters))
	for _, f := range filters {
		initial := len(postings)
		kept := postings[:0:0]
		for _, p := range postings {
			if accepts(f, p, catalog) {
				kept = append(kept, p)
			}
		}
		postings = kept
		steps = append(steps, Step{
			Name:    string(f.Type),
			Initial: initial,
			Dropped: initial - len(postings),
			Left:    len(postings),
		})
	}
	return postings, steps
}

func accepts(f Filter, p greenhouse.Posting, catalog []skill.CatalogEntry) bool {
	switch f.Type {
	case TypeIgnoreIfContains:
		if strings.TrimSpace(f.Value) == "" {
			return false
		}
		return !strings.Contains(searchText(p), textnorm.Normalize(f.Value))

	case TypeOnlyIfContains:
		if strings.TrimSpace(f.Value) == "" {
			return false
		}
		return strings.Contains(searchText(p), textnorm.Normalize(f.Value))

	case TypeMetadataExists:
		if strings.TrimSpace(f.Key) == "" {
			return false
		}
		_, ok := p.Metadata[f.Key]
		return ok

	case TypeMetadataMatches:
		if strings.TrimSpace(f.Key) == "" {
			return false
		}
		v, ok := p.Metadata[f.Key]
		if !ok {
			return false
		}
		return greenhouse.MetadataString(v) == f.Value

	case TypeHasDetectedSkill:
		if len(catalog) == 0 {
			return false
		}
		return detect.HasAnySkill(p.Title+" "+textnorm.CleanDescription(p.RawContentHTML), catalog)

	default:
		// ParseFilters rejects unknown types; anything that slips
		// through is treated like every other malformed filter.
		return false
	}
}

// searchText is the haystack for the containment filters: normalized
// title plus cleaned content.
func searchText(p greenhouse.Posting) string {
	return textnorm.Normalize(p.Title + " " + textnorm.CleanDescription(p.RawContentHTML))
}
