package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/resume-matcher/internal/jobs"
)

// ErrUnavailable marks any failure of a judge: transport errors, timeouts and
// responses that could not be understood.
var ErrUnavailable = errors.New("ai judge unavailable")

// Judgment is the structured answer of a judge for one (resume, job) pair.
// Values are returned as the provider sent them; callers reconcile them.
type Judgment struct {
	MatchScore    float64
	MatchedSkills []string
	MissingSkills []string
	Raw           string
}

type Judge interface {
	Judge(ctx context.Context, resumeText string, posting *jobs.Posting) (*Judgment, error)
}

// Unavailable wraps err with ErrUnavailable.
func Unavailable(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
