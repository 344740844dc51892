package matching

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/jobs"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/skills"
	"github.com/spigell/resume-matcher/internal/utils"
)

// Scorer produces a MatchResult for a resume and a posting. It asks the judge
// first and falls back to skill overlap when the judge is missing or fails.
type Scorer struct {
	judge        ai.Judge
	judgeTimeout time.Duration
	extractor    *skills.Extractor
	logger       *zap.Logger
}

// NewScorer creates a scorer. judge may be nil; judgeTimeout <= 0 means the
// judge only stops with the caller's context.
func NewScorer(judge ai.Judge, judgeTimeout time.Duration, log *zap.Logger) *Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scorer{
		judge:        judge,
		judgeTimeout: judgeTimeout,
		extractor:    skills.Default(),
		logger:       log,
	}
}

// Score never fails: judge problems are logged and the heuristic is used.
func (s *Scorer) Score(ctx context.Context, resumeText string, posting *jobs.Posting) *MatchResult {
	return s.score(ctx, jobs.Resume{Content: resumeText}, posting)
}

// Heuristic scores by skill overlap only. Equal inputs give equal results.
func (s *Scorer) Heuristic(resumeText string, posting *jobs.Posting) *MatchResult {
	return s.heuristic(resumeText, s.jobSkills(posting), posting.ID)
}

func (s *Scorer) score(ctx context.Context, resume jobs.Resume, posting *jobs.Posting) *MatchResult {
	js := s.jobSkills(posting)

	var result *MatchResult
	if s.judge != nil {
		judgment, err := s.askJudge(ctx, resume.Content, posting)
		if err == nil {
			result = s.reconcile(judgment, js, resume.Content, posting)
			s.logger.Debug("ai judge scored job",
				append(logger.MatchFields(resume.ID, posting.ID), zap.Int("match_score", result.MatchScore))...,
			)
		} else {
			s.logger.Warn("ai judge failed, using heuristic score",
				append(logger.MatchFields(resume.ID, posting.ID), zap.Error(err))...,
			)
		}
	}
	if result == nil {
		result = s.heuristic(resume.Content, js, posting.ID)
	}

	result.ResumeID = resume.ID
	return result
}

func (s *Scorer) askJudge(ctx context.Context, resumeText string, posting *jobs.Posting) (*ai.Judgment, error) {
	if s.judgeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.judgeTimeout)
		defer cancel()
	}

	judgment, err := s.judge.Judge(ctx, resumeText, posting)
	if err != nil {
		return nil, ai.Unavailable(err)
	}
	if judgment == nil {
		return nil, ai.Unavailable(errors.New("empty judgment"))
	}
	if math.IsNaN(judgment.MatchScore) || math.IsInf(judgment.MatchScore, 0) {
		return nil, ai.Unavailable(errors.New("match score is not a finite number"))
	}
	return judgment, nil
}

// jobSkills holds the declared and inferred skills of a posting.
type jobSkills struct {
	declared *skills.SkillSet
	inferred *skills.SkillSet
}

func (j jobSkills) all() *skills.SkillSet {
	return j.declared.Union(j.inferred)
}

func (s *Scorer) jobSkills(posting *jobs.Posting) jobSkills {
	declared := skills.New(posting.Skills...)
	if declared.Len() == 0 {
		declared = s.extractor.Extract(posting.FullText())
	}
	inferred := s.extractor.WithTerms(declared.Values()...).Extract(posting.FreeText()).Difference(declared)
	return jobSkills{declared: declared, inferred: inferred}
}

func (s *Scorer) heuristic(resumeText string, js jobSkills, jobID string) *MatchResult {
	all := js.all()
	found := s.extractor.WithTerms(all.Values()...).Extract(resumeText)

	score := 0
	if n := js.declared.Len(); n > 0 {
		covered := js.declared.Intersect(found).Len()
		score = int(math.Round(100 * float64(covered) / float64(n)))
	}

	return &MatchResult{
		JobID:         jobID,
		MatchScore:    utils.ClampInt(score, 0, 100),
		MatchedSkills: all.Intersect(found).Values(),
		MissingSkills: js.declared.Difference(found).Values(),
		Source:        SourceHeuristic,
	}
}

// reconcile turns a judgment into a result that keeps the result invariants:
// the score is bounded, matched skills come from the posting, missing skills
// come from the declared set only and nothing is both matched and missing.
// Declared skills the judge left out are classified by the resume text.
func (s *Scorer) reconcile(judgment *ai.Judgment, js jobSkills, resumeText string, posting *jobs.Posting) *MatchResult {
	judgedMatched := skills.New(judgment.MatchedSkills...)
	judgedMissing := skills.New(judgment.MissingSkills...)

	mentioned := s.extractor.WithTerms(judgedMatched.Values()...).Extract(posting.FreeText())
	matched := js.all().Union(mentioned).Intersect(judgedMatched)

	unjudged := js.declared.Difference(matched).Difference(judgedMissing)
	found := s.extractor.WithTerms(unjudged.Values()...).Extract(resumeText)
	matched = matched.Union(unjudged.Intersect(found))

	missing := js.declared.Intersect(judgedMissing).Union(unjudged.Difference(found)).Difference(matched)

	return &MatchResult{
		JobID:         posting.ID,
		MatchScore:    int(math.Max(0, math.Min(100, math.Round(judgment.MatchScore)))),
		MatchedSkills: matched.Values(),
		MissingSkills: missing.Values(),
		Source:        SourceDelegate,
	}
}
