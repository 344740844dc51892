// Package intake prepares job postings for matching through a sequence of steps.
package intake

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/jobs"
)

// ErrInvalidPosting is returned when a posting misses required fields.
var ErrInvalidPosting = errors.New("invalid job posting")

// Step is a single intake step applied to postings.
type Step interface {
	Name() string
	Apply(ctx context.Context, deps Deps, postings []*jobs.Posting) ([]*jobs.Posting, Report, error)
}

// Deps aggregates dependencies shared across all steps.
type Deps struct {
	Logger *zap.Logger
}

// Report describes the result of executing a step.
type Report struct {
	Initial int
	Dropped int
	Left    int
}

// DefaultSteps returns validate, dedupe and normalize in that order.
func DefaultSteps() []Step {
	return []Step{NewValidate(nil), NewDedupe(), NewNormalize()}
}

// Run executes the steps sequentially and returns the resulting postings.
// The input slice and its postings are not modified.
func Run(ctx context.Context, logger *zap.Logger, steps []Step, postings []*jobs.Posting) ([]*jobs.Posting, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	deps := Deps{Logger: logger}

	current := append([]*jobs.Posting(nil), postings...)
	for _, step := range steps {
		next, report, err := step.Apply(ctx, deps, current)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Debug("intake step",
			zap.String("name", step.Name()),
			zap.Int("initial", report.Initial),
			zap.Int("dropped", report.Dropped),
			zap.Int("left", report.Left),
		)

		current = next
	}

	return current, nil
}
