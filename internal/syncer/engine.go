// Package syncer reconciles fetched board postings against persisted
// jobs and their skill associations.
package syncer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/JonesEri07/reqcheck-sub002/internal/detect"
	"github.com/JonesEri07/reqcheck-sub002/internal/domain/integration"
	"github.com/JonesEri07/reqcheck-sub002/internal/domain/job"
	"github.com/JonesEri07/reqcheck-sub002/internal/domain/skill"
	"github.com/JonesEri07/reqcheck-sub002/internal/domain/team"
	"github.com/JonesEri07/reqcheck-sub002/internal/filtering"
	"github.com/JonesEri07/reqcheck-sub002/internal/greenhouse"
	"github.com/JonesEri07/reqcheck-sub002/internal/repository"
	"github.com/JonesEri07/reqcheck-sub002/internal/textnorm"

	"github.com/google/uuid"
)

// PostingFetcher is what the engine needs from the board client.
type PostingFetcher interface {
	FetchPostings(ctx context.Context, boardToken string) ([]greenhouse.Posting, error)
}

// Input carries everything one integration's sync needs. The catalog is
// injected by the caller; the engine never fetches it.
type Input struct {
	Integration integration.Integration
	Catalog     []skill.CatalogEntry
	MatchConfig team.MatchConfig
}

// Result is the per-integration outcome contract. When Success is false
// the counts are partial and must not be read as complete.
type Result struct {
	Success     bool
	JobsCreated int
	JobsUpdated int
	JobsSkipped int
	Error       string
}

type Engine struct {
	fetcher PostingFetcher
	jobs    repository.JobRepository
	assocs  repository.AssociationRepository
	weights repository.QuestionWeightRepository
	log     *log.Logger
}

func NewEngine(
	fetcher PostingFetcher,
	jobs repository.JobRepository,
	assocs repository.AssociationRepository,
	weights repository.QuestionWeightRepository,
	logger *log.Logger,
) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{fetcher: fetcher, jobs: jobs, assocs: assocs, weights: weights, log: logger}
}

// Sync runs one integration: fetch, filter, detect, reconcile. Postings
// are processed one at a time in upstream order; the first error aborts
// the run. No retries at this layer.
func (e *Engine) Sync(ctx context.Context, in Input) Result {
	filters, err := filtering.ParseFilters(in.Integration.RawFilters)
	if err != nil {
		return failure(Result{}, err)
	}

	postings, err := e.fetcher.FetchPostings(ctx, in.Integration.BoardToken)
	if err != nil {
		return failure(Result{}, err)
	}

	kept, steps := filtering.Apply(postings, filters, in.Catalog)
	for _, s := range steps {
		e.log.Printf("sync=greenhouse integration_id=%s filter=%s initial=%d dropped=%d left=%d",
			in.Integration.ID, s.Name, s.Initial, s.Dropped, s.Left)
	}

	res := Result{JobsSkipped: len(postings) - len(kept)}
	for _, p := range kept {
		created, err := e.syncPosting(ctx, in, p)
		if err != nil {
			return failure(res, fmt.Errorf("posting %s: %w", p.ExternalID, err))
		}
		if created {
			res.JobsCreated++
		} else {
			res.JobsUpdated++
		}
	}

	res.Success = true
	e.log.Printf("sync=greenhouse status=ok integration_id=%s created=%d updated=%d skipped=%d",
		in.Integration.ID, res.JobsCreated, res.JobsUpdated, res.JobsSkipped)
	return res
}

func (e *Engine) syncPosting(ctx context.Context, in Input, p greenhouse.Posting) (bool, error) {
	description := textnorm.CleanDescription(p.RawContentHTML)
	detected, questionWeights := detect.Detect(p.Title, description, in.Catalog, detect.Config{
		TagMatchWeight:   in.MatchConfig.TagMatchWeight,
		TagNoMatchWeight: in.MatchConfig.TagNoMatchWeight,
	})

	existing, err := e.jobs.FindByExternalID(ctx, in.Integration.TeamID, p.ExternalID, job.SourceGreenhouse)
	if err != nil {
		return false, err
	}

	if existing == nil {
		return true, e.createJob(ctx, in, p, description, detected, questionWeights)
	}
	return false, e.reconcileJob(ctx, in, *existing, p, description, detected, questionWeights)
}

func (e *Engine) createJob(
	ctx context.Context,
	in Input,
	p greenhouse.Posting,
	description string,
	detected []detect.Association,
	questionWeights []detect.QuestionWeight,
) error {
	now := time.Now().UTC()
	j := job.Job{
		ID:          uuid.New(),
		TeamID:      in.Integration.TeamID,
		ExternalID:  p.ExternalID,
		Title:       p.Title,
		Description: description,
		Status:      job.StatusOpen,
		Source:      job.SourceGreenhouse,
		SyncedAt:    &now,
	}
	if err := e.jobs.Create(ctx, j); err != nil {
		return err
	}
	return e.insertDetected(ctx, j.ID, detected, questionWeights)
}

func (e *Engine) reconcileJob(
	ctx context.Context,
	in Input,
	existing job.Job,
	p greenhouse.Posting,
	description string,
	detected []detect.Association,
	questionWeights []detect.QuestionWeight,
) error {
	// Title, description and status refresh on every sync regardless of
	// the association policy.
	if err := e.jobs.RefreshSynced(ctx, existing.ID, p.Title, description, job.StatusOpen, time.Now().UTC()); err != nil {
		return err
	}

	current, err := e.assocs.ListByJobID(ctx, existing.ID)
	if err != nil {
		return err
	}

	switch in.Integration.SyncBehavior {
	case integration.BehaviorReplaceAll:
		return e.replaceAll(ctx, existing.ID, current, detected, questionWeights)
	case integration.BehaviorKeepManual:
		return e.keepManual(ctx, existing.ID, current, detected, questionWeights)
	case integration.BehaviorSmart:
		return e.smart(ctx, existing.ID, current, detected, questionWeights)
	default:
		return fmt.Errorf("unsupported sync behavior %q", in.Integration.SyncBehavior)
	}
}

// replaceAll drops every association, manual rows included, and rebuilds
// from this run's detection results.
func (e *Engine) replaceAll(
	ctx context.Context,
	jobID uuid.UUID,
	current []job.SkillAssociation,
	detected []detect.Association,
	questionWeights []detect.QuestionWeight,
) error {
	if err := e.assocs.DeleteCascade(ctx, associationIDs(current)); err != nil {
		return err
	}
	return e.insertDetected(ctx, jobID, detected, questionWeights)
}

// keepManual drops only auto rows and inserts detected skills that had
// no association, manual or auto, before this run.
func (e *Engine) keepManual(
	ctx context.Context,
	jobID uuid.UUID,
	current []job.SkillAssociation,
	detected []detect.Association,
	questionWeights []detect.QuestionWeight,
) error {
	autoIDs := make([]uuid.UUID, 0, len(current))
	for _, a := range current {
		if !a.ManuallyAdded {
			autoIDs = append(autoIDs, a.ID)
		}
	}
	if err := e.assocs.DeleteCascade(ctx, autoIDs); err != nil {
		return err
	}

	present := skillSet(current)
	fresh := make([]detect.Association, 0, len(detected))
	for _, d := range detected {
		if _, ok := present[d.SkillID]; !ok {
			fresh = append(fresh, d)
		}
	}
	return e.insertDetected(ctx, jobID, fresh, questionWeights)
}

// smart converges auto rows on the detection results and never touches
// manual rows: undetected auto rows go, newly detected skills come in,
// everything else stays as-is.
func (e *Engine) smart(
	ctx context.Context,
	jobID uuid.UUID,
	current []job.SkillAssociation,
	detected []detect.Association,
	questionWeights []detect.QuestionWeight,
) error {
	detectedSkills := make(map[uuid.UUID]struct{}, len(detected))
	for _, d := range detected {
		detectedSkills[d.SkillID] = struct{}{}
	}

	stale := make([]uuid.UUID, 0)
	for _, a := range current {
		if a.ManuallyAdded {
			continue
		}
		if _, ok := detectedSkills[a.SkillID]; !ok {
			stale = append(stale, a.ID)
		}
	}
	if err := e.assocs.DeleteCascade(ctx, stale); err != nil {
		return err
	}

	present := skillSet(current)
	fresh := make([]detect.Association, 0, len(detected))
	for _, d := range detected {
		if _, ok := present[d.SkillID]; !ok {
			fresh = append(fresh, d)
		}
	}
	return e.insertDetected(ctx, jobID, fresh, questionWeights)
}

// insertDetected bulk-inserts associations and then the question weights
// that map onto a just-inserted association. Weights whose skill did not
// produce an association are dropped, never orphaned.
func (e *Engine) insertDetected(
	ctx context.Context,
	jobID uuid.UUID,
	detected []detect.Association,
	questionWeights []detect.QuestionWeight,
) error {
	if len(detected) == 0 {
		return nil
	}

	rows := make([]job.SkillAssociation, 0, len(detected))
	idBySkill := make(map[uuid.UUID]uuid.UUID, len(detected))
	for _, d := range detected {
		a := job.SkillAssociation{
			ID:            uuid.New(),
			JobID:         jobID,
			SkillID:       d.SkillID,
			Weight:        d.Weight,
			Required:      d.Required,
			ManuallyAdded: d.ManuallyAdded,
		}
		rows = append(rows, a)
		idBySkill[d.SkillID] = a.ID
	}
	if err := e.assocs.InsertMany(ctx, rows); err != nil {
		return err
	}

	weightRows := make([]job.QuestionWeight, 0, len(questionWeights))
	for _, w := range questionWeights {
		assocID, ok := idBySkill[w.SkillID]
		if !ok {
			continue
		}
		weightRows = append(weightRows, job.QuestionWeight{
			ID:            uuid.New(),
			AssociationID: assocID,
			QuestionID:    w.QuestionID,
			Weight:        w.Weight,
			Source:        job.SourceGreenhouse,
		})
	}
	if len(weightRows) == 0 {
		return nil
	}
	return e.weights.InsertMany(ctx, weightRows)
}

func associationIDs(assocs []job.SkillAssociation) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(assocs))
	for _, a := range assocs {
		ids = append(ids, a.ID)
	}
	return ids
}

func skillSet(assocs []job.SkillAssociation) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(assocs))
	for _, a := range assocs {
		set[a.SkillID] = struct{}{}
	}
	return set
}

func failure(partial Result, err error) Result {
	partial.Success = false
	partial.Error = err.Error()
	return partial
}
