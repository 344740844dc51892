// Package matching scores resumes against job postings and persists the results.
package matching

// Source tells which path produced a score.
type Source string

const (
	SourceDelegate  Source = "delegate"
	SourceHeuristic Source = "heuristic"
)

// MatchResult is the outcome for one (resume, job) pair. MatchedSkills and
// MissingSkills are disjoint and sorted by normalized key.
type MatchResult struct {
	ResumeID      string   `json:"resumeId"`
	JobID         string   `json:"jobId"`
	MatchScore    int      `json:"matchScore"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
	Source        Source   `json:"source"`
	Persisted     bool     `json:"persisted"`
}
