package intake

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/jobs"
)

type dedupeStep struct{}

// NewDedupe creates a step that keeps the first posting for every job ID.
func NewDedupe() Step {
	return &dedupeStep{}
}

func (s *dedupeStep) Name() string { return "dedupe" }

func (s *dedupeStep) Apply(_ context.Context, deps Deps, postings []*jobs.Posting) ([]*jobs.Posting, Report, error) {
	seen := make(map[string]struct{}, len(postings))
	kept := make([]*jobs.Posting, 0, len(postings))
	var dropped []string

	for _, posting := range postings {
		id := strings.TrimSpace(posting.ID)
		if _, ok := seen[id]; ok {
			dropped = append(dropped, id)
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, posting)
	}

	if len(dropped) > 0 && deps.Logger != nil {
		deps.Logger.Info("dropping duplicate job postings",
			zap.Strings("duplicate_jobs", dropped),
			zap.Int("jobs_left", len(kept)),
		)
	}

	return kept, Report{Initial: len(postings), Dropped: len(dropped), Left: len(kept)}, nil
}
