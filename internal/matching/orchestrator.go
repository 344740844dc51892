package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-matcher/internal/intake"
	"github.com/spigell/resume-matcher/internal/jobs"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/store"
)

const (
	defaultConcurrency    = 4
	defaultJobTimeout     = 60 * time.Second
	defaultPersistTimeout = 10 * time.Second
)

// Config controls the fan-out of the orchestrator. JobTimeout bounds scoring
// of one job; PersistTimeout bounds storing its result and starts after
// scoring, so a slow judge cannot starve the store.
type Config struct {
	Concurrency    int
	JobTimeout     time.Duration
	PersistTimeout time.Duration
}

// Orchestrator matches one resume against many postings and upserts the results.
type Orchestrator struct {
	scorer         *Scorer
	store          store.Store
	steps          []intake.Step
	concurrency    int
	jobTimeout     time.Duration
	persistTimeout time.Duration
	logger         *zap.Logger
}

// NewOrchestrator creates an orchestrator. st may be nil, then nothing is persisted.
func NewOrchestrator(scorer *Scorer, st store.Store, cfg Config, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = defaultJobTimeout
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = defaultPersistTimeout
	}

	return &Orchestrator{
		scorer:         scorer,
		store:          st,
		steps:          intake.DefaultSteps(),
		concurrency:    cfg.Concurrency,
		jobTimeout:     cfg.JobTimeout,
		persistTimeout: cfg.PersistTimeout,
		logger:         log,
	}
}

// MatchResumeAgainstJobs returns one result per distinct posting, in input
// order. Only invalid input is reported as an error; judge and store problems
// are handled per job.
func (o *Orchestrator) MatchResumeAgainstJobs(ctx context.Context, resume jobs.Resume, postings []*jobs.Posting) ([]*MatchResult, error) {
	resume.ID = strings.TrimSpace(resume.ID)
	if resume.ID == "" {
		return nil, &InputError{Field: "resume.id", Reason: "must not be empty"}
	}
	if strings.TrimSpace(resume.Content) == "" {
		return nil, &InputError{Field: "resume.content", Reason: "must not be empty"}
	}
	if len(postings) == 0 {
		return nil, &InputError{Field: "jobs", Reason: "at least one job is required"}
	}

	prepared, err := intake.Run(ctx, o.logger, o.steps, postings)
	if errors.Is(err, intake.ErrInvalidPosting) {
		return nil, &InputError{Field: "jobs", Reason: err.Error(), Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("prepare jobs: %w", err)
	}

	o.logger.Info("matching resume against jobs",
		zap.String(logger.FieldResumeID, resume.ID),
		zap.Int("jobs", len(prepared)),
		zap.Int("concurrency", o.concurrency),
	)

	results := make([]*MatchResult, len(prepared))

	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for i, posting := range prepared {
		g.Go(func() error {
			jobCtx, cancel := context.WithTimeout(ctx, o.jobTimeout)
			result := o.scorer.score(jobCtx, resume, posting)
			cancel()

			// Computed results are stored even when the caller gave up waiting.
			persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.persistTimeout)
			defer cancel()

			result.Persisted = o.persist(persistCtx, result)
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

// persist upserts the result: update the stored record for the pair or
// create a new one. It reports whether the result was stored.
func (o *Orchestrator) persist(ctx context.Context, result *MatchResult) bool {
	if o.store == nil {
		return false
	}

	log := logger.WithFields(o.logger, logger.MatchFields(result.ResumeID, result.JobID)...)

	existing, err := o.store.Find(ctx, result.ResumeID, result.JobID)
	switch {
	case err == nil:
		existing.MatchScore = result.MatchScore
		existing.MatchedSkills = result.MatchedSkills
		existing.MissingSkills = result.MissingSkills
		existing.Source = string(result.Source)
		if _, err := o.store.Update(ctx, existing); err != nil {
			log.Warn("update match result failed", zap.Error(err))
			return false
		}
		log.Debug("match result updated")
	case errors.Is(err, store.ErrNotFound):
		if _, err := o.store.Create(ctx, toRecord(result)); err != nil {
			log.Warn("create match result failed", zap.Error(err))
			return false
		}
		log.Debug("match result created")
	default:
		log.Warn("find match result failed", zap.Error(err))
		return false
	}

	return true
}

func toRecord(result *MatchResult) *store.Record {
	return &store.Record{
		ResumeID:      result.ResumeID,
		JobID:         result.JobID,
		MatchScore:    result.MatchScore,
		MatchedSkills: result.MatchedSkills,
		MissingSkills: result.MissingSkills,
		Source:        string(result.Source),
	}
}
