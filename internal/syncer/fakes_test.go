package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/JonesEri07/reqcheck-sub002/internal/domain/integration"
	"github.com/JonesEri07/reqcheck-sub002/internal/domain/job"
	"github.com/JonesEri07/reqcheck-sub002/internal/domain/skill"
	"github.com/JonesEri07/reqcheck-sub002/internal/domain/team"
	"github.com/JonesEri07/reqcheck-sub002/internal/greenhouse"

	"github.com/google/uuid"
)

// fakeStore backs all three repositories the engine writes through,
// mirroring the referential layout of the real schema.
type fakeStore struct {
	jobs    map[string]*job.Job
	assocs  map[uuid.UUID]job.SkillAssociation
	weights map[uuid.UUID]job.QuestionWeight

	failCreate bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		jobs:    map[string]*job.Job{},
		assocs:  map[uuid.UUID]job.SkillAssociation{},
		weights: map[uuid.UUID]job.QuestionWeight{},
	}
}

func jobKey(teamID uuid.UUID, externalID string, source job.Source) string {
	return teamID.String() + "|" + externalID + "|" + string(source)
}

func (s *fakeStore) FindByExternalID(_ context.Context, teamID uuid.UUID, externalID string, source job.Source) (*job.Job, error) {
	j, ok := s.jobs[jobKey(teamID, externalID, source)]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (s *fakeStore) Create(_ context.Context, j job.Job) error {
	if s.failCreate {
		return fmt.Errorf("store unavailable")
	}
	key := jobKey(j.TeamID, j.ExternalID, j.Source)
	if _, ok := s.jobs[key]; ok {
		return fmt.Errorf("duplicate job %s", key)
	}
	cp := j
	s.jobs[key] = &cp
	return nil
}

func (s *fakeStore) RefreshSynced(_ context.Context, id uuid.UUID, title, description string, status job.Status, syncedAt time.Time) error {
	for _, j := range s.jobs {
		if j.ID == id {
			j.Title = title
			j.Description = description
			j.Status = status
			j.SyncedAt = &syncedAt
			return nil
		}
	}
	return fmt.Errorf("job %s not found", id)
}

func (s *fakeStore) ListByJobID(_ context.Context, jobID uuid.UUID) ([]job.SkillAssociation, error) {
	out := make([]job.SkillAssociation, 0)
	for _, a := range s.assocs {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeStore) InsertMany(_ context.Context, assocs []job.SkillAssociation) error {
	for _, a := range assocs {
		s.assocs[a.ID] = a
	}
	return nil
}

func (s *fakeStore) DeleteCascade(_ context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		for wid, w := range s.weights {
			if w.AssociationID == id {
				delete(s.weights, wid)
			}
		}
		delete(s.assocs, id)
	}
	return nil
}

func (s *fakeStore) InsertWeights(_ context.Context, weights []job.QuestionWeight) error {
	for _, w := range weights {
		if _, ok := s.assocs[w.AssociationID]; !ok {
			return fmt.Errorf("weight %s references missing association %s", w.ID, w.AssociationID)
		}
		s.weights[w.ID] = w
	}
	return nil
}

func (s *fakeStore) ListWeightsByAssociationIDs(_ context.Context, ids []uuid.UUID) ([]job.QuestionWeight, error) {
	want := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]job.QuestionWeight, 0)
	for _, w := range s.weights {
		if _, ok := want[w.AssociationID]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}

// weightRepo adapts fakeStore to the QuestionWeightRepository method names.
type weightRepo struct{ s *fakeStore }

func (r weightRepo) InsertMany(ctx context.Context, weights []job.QuestionWeight) error {
	return r.s.InsertWeights(ctx, weights)
}

func (r weightRepo) ListByAssociationIDs(ctx context.Context, ids []uuid.UUID) ([]job.QuestionWeight, error) {
	return r.s.ListWeightsByAssociationIDs(ctx, ids)
}

// orphanWeights counts weight rows whose association no longer exists.
// Must stay zero under every policy.
func (s *fakeStore) orphanWeights() int {
	n := 0
	for _, w := range s.weights {
		if _, ok := s.assocs[w.AssociationID]; !ok {
			n++
		}
	}
	return n
}

func (s *fakeStore) associationsForJob(jobID uuid.UUID) []job.SkillAssociation {
	out, _ := s.ListByJobID(context.Background(), jobID)
	return out
}

func (s *fakeStore) seedJob(teamID uuid.UUID, externalID string) *job.Job {
	j := &job.Job{
		ID:         uuid.New(),
		TeamID:     teamID,
		ExternalID: externalID,
		Title:      "old title",
		Status:     job.StatusOpen,
		Source:     job.SourceGreenhouse,
	}
	s.jobs[jobKey(teamID, externalID, job.SourceGreenhouse)] = j
	return j
}

func (s *fakeStore) seedAssociation(jobID, skillID uuid.UUID, manual bool) job.SkillAssociation {
	a := job.SkillAssociation{
		ID:            uuid.New(),
		JobID:         jobID,
		SkillID:       skillID,
		Weight:        0.5,
		ManuallyAdded: manual,
	}
	s.assocs[a.ID] = a
	return a
}

func (s *fakeStore) seedWeight(associationID uuid.UUID) job.QuestionWeight {
	w := job.QuestionWeight{
		ID:            uuid.New(),
		AssociationID: associationID,
		QuestionID:    uuid.New(),
		Weight:        1,
		Source:        job.SourceGreenhouse,
	}
	s.weights[w.ID] = w
	return w
}

type fakeFetcher struct {
	postings []greenhouse.Posting
	err      error
	calls    int
}

func (f *fakeFetcher) FetchPostings(_ context.Context, _ string) ([]greenhouse.Posting, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.postings, nil
}

func testIntegration(teamID uuid.UUID, behavior integration.SyncBehavior, rawFilters []byte) integration.Integration {
	return integration.Integration{
		ID:            uuid.New(),
		TeamID:        teamID,
		Type:          integration.TypeGreenhouse,
		BoardToken:    "acme",
		SyncFrequency: integration.FrequencyDaily,
		SyncBehavior:  behavior,
		RawFilters:    rawFilters,
	}
}

func testInput(in integration.Integration, catalog []skill.CatalogEntry) Input {
	return Input{
		Integration: in,
		Catalog:     catalog,
		MatchConfig: team.DefaultMatchConfig(),
	}
}
