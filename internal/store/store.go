// Package store persists match results keyed by (resume, job) pair.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no record exists for the requested pair or ID.
var ErrNotFound = errors.New("match record not found")

// Record is the persisted form of a match result. Only the latest
// computation for a pair is kept.
type Record struct {
	ID            uuid.UUID `json:"id"`
	ResumeID      string    `json:"resumeId"`
	JobID         string    `json:"jobId"`
	MatchScore    int       `json:"matchScore"`
	MatchedSkills []string  `json:"matchedSkills"`
	MissingSkills []string  `json:"missingSkills"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Store is safe for concurrent use.
type Store interface {
	Find(ctx context.Context, resumeID, jobID string) (*Record, error)
	// Create inserts a record. When a record for the same pair appeared in
	// the meantime its values are overwritten and its ID is kept.
	Create(ctx context.Context, rec *Record) (*Record, error)
	// Update overwrites the values of the record with rec.ID.
	Update(ctx context.Context, rec *Record) (*Record, error)
}

func (r *Record) clone() *Record {
	out := *r
	out.MatchedSkills = append([]string{}, r.MatchedSkills...)
	out.MissingSkills = append([]string{}, r.MissingSkills...)
	return &out
}
