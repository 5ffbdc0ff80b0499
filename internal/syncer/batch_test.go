package syncer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/JonesEri07/reqcheck-sub002/internal/domain/integration"
	"github.com/JonesEri07/reqcheck-sub002/internal/domain/skill"
	"github.com/JonesEri07/reqcheck-sub002/internal/domain/team"

	"github.com/google/uuid"
)

type fakeIntegrationRepo struct {
	list    []integration.Integration
	touched map[uuid.UUID]time.Time
	listErr error
}

func (r *fakeIntegrationRepo) FindByID(_ context.Context, id uuid.UUID) (*integration.Integration, error) {
	for _, in := range r.list {
		if in.ID == id {
			cp := in
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeIntegrationRepo) ListByFrequency(_ context.Context, f integration.SyncFrequency) ([]integration.Integration, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]integration.Integration, 0)
	for _, in := range r.list {
		if in.SyncFrequency == f {
			out = append(out, in)
		}
	}
	return out, nil
}

func (r *fakeIntegrationRepo) TouchLastSynced(_ context.Context, id uuid.UUID, syncedAt time.Time) error {
	if r.touched == nil {
		r.touched = map[uuid.UUID]time.Time{}
	}
	r.touched[id] = syncedAt
	return nil
}

type fakeTeamRepo struct{}

func (fakeTeamRepo) MatchConfig(_ context.Context, _ uuid.UUID) (team.MatchConfig, error) {
	return team.DefaultMatchConfig(), nil
}

type fakeCatalogSource struct {
	err error
}

func (f fakeCatalogSource) CatalogForTeam(_ context.Context, _ uuid.UUID) ([]skill.CatalogEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []skill.CatalogEntry{{SkillID: uuid.New(), Name: "go"}}, nil
}

// scriptedSyncer returns a fixed result per integration id.
type scriptedSyncer struct {
	results map[uuid.UUID]Result
	synced  []uuid.UUID
}

func (s *scriptedSyncer) Sync(_ context.Context, in Input) Result {
	s.synced = append(s.synced, in.Integration.ID)
	if r, ok := s.results[in.Integration.ID]; ok {
		return r
	}
	return Result{Success: true}
}

func TestBatch_IsolatesFailures(t *testing.T) {
	teamID := uuid.New()
	ok1 := testIntegration(teamID, integration.BehaviorSmart, nil)
	bad := testIntegration(teamID, integration.BehaviorSmart, nil)
	ok2 := testIntegration(teamID, integration.BehaviorSmart, nil)

	repo := &fakeIntegrationRepo{list: []integration.Integration{ok1, bad, ok2}}
	engine := &scriptedSyncer{results: map[uuid.UUID]Result{
		ok1.ID: {Success: true, JobsCreated: 2, JobsUpdated: 1},
		bad.ID: {Success: false, Error: "greenhouse: bad status: 502 Bad Gateway"},
		ok2.ID: {Success: true, JobsUpdated: 3},
	}}

	b := NewBatch(repo, fakeTeamRepo{}, fakeCatalogSource{}, engine, quietLogger())
	summary, err := b.Run(context.Background(), integration.FrequencyDaily)
	if err != nil {
		t.Fatalf("batch error: %v", err)
	}

	if summary.IntegrationsProcessed != 3 {
		t.Errorf("processed = %d, want 3", summary.IntegrationsProcessed)
	}
	if summary.IntegrationsSucceeded != 2 || summary.IntegrationsFailed != 1 {
		t.Errorf("succeeded/failed = %d/%d", summary.IntegrationsSucceeded, summary.IntegrationsFailed)
	}
	if summary.JobsCreated != 2 || summary.JobsUpdated != 4 {
		t.Errorf("jobs created/updated = %d/%d", summary.JobsCreated, summary.JobsUpdated)
	}
	if len(summary.Errors) != 1 || summary.Errors[0].IntegrationID != bad.ID || summary.Errors[0].TeamID != teamID {
		t.Errorf("errors = %+v", summary.Errors)
	}
	if len(engine.synced) != 3 {
		t.Errorf("batch stopped early: synced %d integrations", len(engine.synced))
	}
}

func TestBatch_TimestampOnlyOnSuccess(t *testing.T) {
	teamID := uuid.New()
	ok := testIntegration(teamID, integration.BehaviorSmart, nil)
	bad := testIntegration(teamID, integration.BehaviorSmart, nil)

	repo := &fakeIntegrationRepo{list: []integration.Integration{ok, bad}}
	engine := &scriptedSyncer{results: map[uuid.UUID]Result{
		ok.ID:  {Success: true},
		bad.ID: {Success: false, Error: "boom"},
	}}

	b := NewBatch(repo, fakeTeamRepo{}, fakeCatalogSource{}, engine, quietLogger())
	if _, err := b.Run(context.Background(), integration.FrequencyDaily); err != nil {
		t.Fatalf("batch error: %v", err)
	}

	if _, touched := repo.touched[ok.ID]; !touched {
		t.Error("successful integration should advance last_synced_at")
	}
	if _, touched := repo.touched[bad.ID]; touched {
		t.Error("failed integration must keep its old last_synced_at")
	}
}

func TestBatch_SkipsUnsupportedTypes(t *testing.T) {
	teamID := uuid.New()
	gh := testIntegration(teamID, integration.BehaviorSmart, nil)
	lever := testIntegration(teamID, integration.BehaviorSmart, nil)
	lever.Type = "LEVER"

	repo := &fakeIntegrationRepo{list: []integration.Integration{gh, lever}}
	engine := &scriptedSyncer{}

	b := NewBatch(repo, fakeTeamRepo{}, fakeCatalogSource{}, engine, quietLogger())
	summary, err := b.Run(context.Background(), integration.FrequencyDaily)
	if err != nil {
		t.Fatalf("batch error: %v", err)
	}

	if summary.IntegrationsProcessed != 1 {
		t.Errorf("processed = %d, want 1 (unsupported type is not processed)", summary.IntegrationsProcessed)
	}
	if summary.IntegrationsFailed != 0 || len(summary.Errors) != 0 {
		t.Errorf("unsupported type must not count as failure: %+v", summary)
	}
	if len(engine.synced) != 1 || engine.synced[0] != gh.ID {
		t.Errorf("engine ran for the wrong integrations: %v", engine.synced)
	}
}

func TestBatch_CadenceSelection(t *testing.T) {
	teamID := uuid.New()
	daily := testIntegration(teamID, integration.BehaviorSmart, nil)
	weekly := testIntegration(teamID, integration.BehaviorSmart, nil)
	weekly.SyncFrequency = integration.FrequencyWeekly

	repo := &fakeIntegrationRepo{list: []integration.Integration{daily, weekly}}
	engine := &scriptedSyncer{}

	b := NewBatch(repo, fakeTeamRepo{}, fakeCatalogSource{}, engine, quietLogger())
	if _, err := b.Run(context.Background(), integration.FrequencyWeekly); err != nil {
		t.Fatalf("batch error: %v", err)
	}
	if len(engine.synced) != 1 || engine.synced[0] != weekly.ID {
		t.Errorf("expected only the weekly integration, got %v", engine.synced)
	}
}

func TestBatch_CatalogSourceFailureIsIsolated(t *testing.T) {
	teamID := uuid.New()
	in := testIntegration(teamID, integration.BehaviorSmart, nil)

	repo := &fakeIntegrationRepo{list: []integration.Integration{in}}
	engine := &scriptedSyncer{}

	b := NewBatch(repo, fakeTeamRepo{}, fakeCatalogSource{err: fmt.Errorf("redis and store both down")}, engine, quietLogger())
	summary, err := b.Run(context.Background(), integration.FrequencyDaily)
	if err != nil {
		t.Fatalf("batch error: %v", err)
	}
	if summary.IntegrationsFailed != 1 || len(summary.Errors) != 1 {
		t.Errorf("catalog failure should be a per-integration failure: %+v", summary)
	}
	if len(engine.synced) != 0 {
		t.Error("engine must not run without a catalog")
	}
}
