package intake

import (
	"context"
	"strings"

	"github.com/spigell/resume-matcher/internal/jobs"
	"github.com/spigell/resume-matcher/internal/skills"
)

type normalizeStep struct{}

// NewNormalize creates a step that trims posting fields and collapses
// declared skills by their normalized key. Postings are copied.
func NewNormalize() Step {
	return &normalizeStep{}
}

func (s *normalizeStep) Name() string { return "normalize" }

func (s *normalizeStep) Apply(_ context.Context, _ Deps, postings []*jobs.Posting) ([]*jobs.Posting, Report, error) {
	out := make([]*jobs.Posting, 0, len(postings))
	for _, p := range postings {
		out = append(out, &jobs.Posting{
			ID:           strings.TrimSpace(p.ID),
			Title:        strings.TrimSpace(p.Title),
			Company:      strings.TrimSpace(p.Company),
			Description:  jobs.NormalizeText(p.Description),
			Requirements: jobs.NormalizeText(p.Requirements),
			Skills:       skills.New(p.Skills...).Values(),
		})
	}
	return out, Report{Initial: len(postings), Left: len(out)}, nil
}
