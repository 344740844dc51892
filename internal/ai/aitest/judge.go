// Package aitest provides a deterministic ai.Judge for tests.
package aitest

import (
	"context"
	"sync"
	"time"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/jobs"
	"github.com/spigell/resume-matcher/internal/utils"
)

// Judge returns canned answers. Respond takes precedence over Judgment/Err.
type Judge struct {
	Judgment *ai.Judgment
	Err      error
	Respond  func(posting *jobs.Posting) (*ai.Judgment, error)
	// Delay blocks each call until it passes or the context is done.
	Delay time.Duration

	mu    sync.Mutex
	calls []string
}

func (j *Judge) Judge(ctx context.Context, _ string, posting *jobs.Posting) (*ai.Judgment, error) {
	j.mu.Lock()
	j.calls = append(j.calls, posting.ID)
	j.mu.Unlock()

	if j.Delay > 0 {
		if err := utils.WaitFor(ctx, j.Delay); err != nil {
			return nil, ai.Unavailable(err)
		}
	}

	if j.Respond != nil {
		return j.Respond(posting)
	}
	if j.Err != nil {
		return nil, j.Err
	}
	if j.Judgment == nil {
		return nil, ai.ErrUnavailable
	}

	out := *j.Judgment
	out.MatchedSkills = append([]string(nil), j.Judgment.MatchedSkills...)
	out.MissingSkills = append([]string(nil), j.Judgment.MissingSkills...)
	return &out, nil
}

// Calls returns the job IDs the judge was asked about, in call order.
func (j *Judge) Calls() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.calls...)
}
