package detect

import (
	"testing"

	"github.com/JonesEri07/reqcheck-sub002/internal/domain/skill"

	"github.com/google/uuid"
)

func entry(name string, aliases ...string) skill.CatalogEntry {
	return skill.CatalogEntry{SkillID: uuid.New(), Name: name, Aliases: aliases}
}

func TestDetect_BasicMatch(t *testing.T) {
	goSkill := entry("go", "golang")
	rust := entry("rust")

	assocs, _ := Detect("Backend Engineer", "Needs Go and SQL", []skill.CatalogEntry{goSkill, rust}, Config{})
	if len(assocs) != 1 {
		t.Fatalf("expected 1 association, got %d", len(assocs))
	}
	if assocs[0].SkillID != goSkill.SkillID {
		t.Errorf("wrong skill detected")
	}
	if assocs[0].ManuallyAdded || assocs[0].Required {
		t.Errorf("detected associations must not be manual or required")
	}
	if assocs[0].Weight <= 0 || assocs[0].Weight > 1 {
		t.Errorf("weight out of range: %v", assocs[0].Weight)
	}
}

func TestDetect_SingleCharWordBoundary(t *testing.T) {
	r := entry("r")

	// "r" inside "for" must not match.
	assocs, _ := Detect("Engineer", "looking for backends", []skill.CatalogEntry{r}, Config{})
	if len(assocs) != 0 {
		t.Fatalf("expected no match for embedded r, got %d", len(assocs))
	}

	assocs, _ = Detect("Data Scientist", "experience with R and Python", []skill.CatalogEntry{r}, Config{})
	if len(assocs) != 1 {
		t.Fatalf("expected standalone R to match, got %d", len(assocs))
	}
}

func TestDetect_AliasMatch(t *testing.T) {
	k8s := entry("kubernetes", "k8s")
	assocs, _ := Detect("Platform Engineer", "manage our k8s clusters", []skill.CatalogEntry{k8s}, Config{})
	if len(assocs) != 1 {
		t.Fatalf("expected alias match, got %d associations", len(assocs))
	}
}

func TestDetect_MentionCountRaisesWeight(t *testing.T) {
	goSkill := entry("go")
	one, _ := Detect("", "go", []skill.CatalogEntry{goSkill}, Config{})
	many, _ := Detect("", "go go go go", []skill.CatalogEntry{goSkill}, Config{})
	if len(one) != 1 || len(many) != 1 {
		t.Fatalf("expected single association in both runs")
	}
	if many[0].Weight <= one[0].Weight {
		t.Errorf("repeated mentions should raise weight: %v !> %v", many[0].Weight, one[0].Weight)
	}
}

func TestDetect_QuestionWeights(t *testing.T) {
	qMatched := skill.Question{ID: uuid.New(), Tags: []string{"sql"}}
	qUnmatched := skill.Question{ID: uuid.New(), Tags: []string{"terraform"}}
	goSkill := skill.CatalogEntry{
		SkillID:   uuid.New(),
		Name:      "go",
		Questions: []skill.Question{qMatched, qUnmatched},
	}
	cfg := Config{TagMatchWeight: 1.0, TagNoMatchWeight: 0.25}

	_, weights := Detect("Backend", "go services backed by sql", []skill.CatalogEntry{goSkill}, cfg)
	if len(weights) != 2 {
		t.Fatalf("expected weights for both questions, got %d", len(weights))
	}

	byQuestion := map[uuid.UUID]float64{}
	for _, w := range weights {
		if w.SkillID != goSkill.SkillID {
			t.Errorf("weight keyed to wrong skill")
		}
		byQuestion[w.QuestionID] = w.Weight
	}
	if byQuestion[qMatched.ID] != 1.0 {
		t.Errorf("matched tag weight = %v, want 1.0", byQuestion[qMatched.ID])
	}
	if byQuestion[qUnmatched.ID] != 0.25 {
		t.Errorf("unmatched tag weight = %v, want 0.25", byQuestion[qUnmatched.ID])
	}
}

func TestDetect_NoQuestionsForUndetectedSkill(t *testing.T) {
	rust := skill.CatalogEntry{
		SkillID:   uuid.New(),
		Name:      "rust",
		Questions: []skill.Question{{ID: uuid.New(), Tags: []string{"sql"}}},
	}
	assocs, weights := Detect("Backend", "go and sql only", []skill.CatalogEntry{rust}, Config{TagMatchWeight: 1})
	if len(assocs) != 0 || len(weights) != 0 {
		t.Fatalf("undetected skill must yield nothing, got %d assocs %d weights", len(assocs), len(weights))
	}
}

func TestHasAnySkill(t *testing.T) {
	goSkill := entry("go")
	if !HasAnySkill("Needs Go and SQL", []skill.CatalogEntry{goSkill}) {
		t.Error("expected go to be found")
	}
	if HasAnySkill("Needs Rust", []skill.CatalogEntry{goSkill}) {
		t.Error("did not expect a match")
	}
	if HasAnySkill("anything", nil) {
		t.Error("empty catalog must never match")
	}
}
