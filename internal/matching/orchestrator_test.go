package matching

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/ai/aitest"
	"github.com/spigell/resume-matcher/internal/jobs"
	"github.com/spigell/resume-matcher/internal/store"
)

type countingStore struct {
	*store.Memory
	creates atomic.Int32
	updates atomic.Int32
}

func (c *countingStore) Create(ctx context.Context, rec *store.Record) (*store.Record, error) {
	c.creates.Add(1)
	return c.Memory.Create(ctx, rec)
}

func (c *countingStore) Update(ctx context.Context, rec *store.Record) (*store.Record, error) {
	c.updates.Add(1)
	return c.Memory.Update(ctx, rec)
}

type failingStore struct {
	findErr   error
	createErr error
}

func (f *failingStore) Find(context.Context, string, string) (*store.Record, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return nil, store.ErrNotFound
}

func (f *failingStore) Create(context.Context, *store.Record) (*store.Record, error) {
	return nil, f.createErr
}

func (f *failingStore) Update(context.Context, *store.Record) (*store.Record, error) {
	return nil, errors.New("unexpected update")
}

func batchInput() (jobs.Resume, []*jobs.Posting) {
	resume := jobs.Resume{ID: "R1", Content: "Built user interfaces with React."}
	postings := []*jobs.Posting{
		{ID: "J1", Title: "Frontend Engineer", Company: "Acme", Skills: []string{"React", "TypeScript"}},
		{ID: "J2", Title: "Cloud Engineer", Company: "Initech", Skills: []string{"AWS"}},
	}
	return resume, postings
}

func TestMatchResumeAgainstJobsBatch(t *testing.T) {
	t.Parallel()

	st := store.NewMemory()
	o := NewOrchestrator(NewScorer(nil, 0, nil), st, Config{Concurrency: 2}, zap.NewNop())

	resume, postings := batchInput()
	results, err := o.MatchResumeAgainstJobs(context.Background(), resume, postings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	j1, j2 := results[0], results[1]
	if j1.JobID != "J1" || j2.JobID != "J2" {
		t.Fatalf("unexpected order %s, %s", j1.JobID, j2.JobID)
	}
	if !reflect.DeepEqual(j1.MatchedSkills, []string{"React"}) || !reflect.DeepEqual(j1.MissingSkills, []string{"TypeScript"}) {
		t.Fatalf("unexpected J1 result %+v", j1)
	}
	if len(j2.MatchedSkills) != 0 || !reflect.DeepEqual(j2.MissingSkills, []string{"AWS"}) {
		t.Fatalf("unexpected J2 result %+v", j2)
	}
	for _, r := range results {
		if r.ResumeID != "R1" || !r.Persisted {
			t.Fatalf("expected persisted result for R1, got %+v", r)
		}
	}
	if st.Len() != 2 {
		t.Fatalf("expected 2 stored records, got %d", st.Len())
	}
}

func TestMatchResumeAgainstJobsInputErrors(t *testing.T) {
	t.Parallel()

	resume, postings := batchInput()

	tests := []struct {
		name     string
		resume   jobs.Resume
		postings []*jobs.Posting
		field    string
	}{
		{name: "no jobs", resume: resume, postings: nil, field: "jobs"},
		{name: "empty job list", resume: resume, postings: []*jobs.Posting{}, field: "jobs"},
		{name: "blank resume id", resume: jobs.Resume{ID: "  ", Content: "text"}, postings: postings, field: "resume.id"},
		{name: "empty resume", resume: jobs.Resume{ID: "R1", Content: "\n"}, postings: postings, field: "resume.content"},
		{name: "malformed job", resume: resume, postings: append([]*jobs.Posting{{ID: "J3", Title: "No company"}}, postings...), field: "jobs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			st := store.NewMemory()
			judge := &aitest.Judge{Judgment: &ai.Judgment{MatchScore: 50}}
			o := NewOrchestrator(NewScorer(judge, 0, nil), st, Config{}, nil)

			results, err := o.MatchResumeAgainstJobs(context.Background(), tt.resume, tt.postings)
			if results != nil {
				t.Fatalf("expected no results, got %v", results)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			var inputErr *InputError
			if !errors.As(err, &inputErr) || inputErr.Field != tt.field {
				t.Fatalf("expected InputError for %q, got %#v", tt.field, err)
			}
			if st.Len() != 0 || len(judge.Calls()) != 0 {
				t.Fatalf("no job may be processed on input errors")
			}
		})
	}
}

func TestMatchResumeAgainstJobsUpsert(t *testing.T) {
	t.Parallel()

	st := &countingStore{Memory: store.NewMemory()}
	o := NewOrchestrator(NewScorer(nil, 0, nil), st, Config{}, nil)

	resume, postings := batchInput()
	postings = postings[:1]

	for i := 0; i < 2; i++ {
		results, err := o.MatchResumeAgainstJobs(context.Background(), resume, postings)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
		if !results[0].Persisted {
			t.Fatalf("run %d: expected result to be persisted", i)
		}
	}

	if st.Len() != 1 {
		t.Fatalf("expected a single record, got %d", st.Len())
	}
	if st.creates.Load() != 1 || st.updates.Load() != 1 {
		t.Fatalf("expected one create and one update, got %d creates and %d updates", st.creates.Load(), st.updates.Load())
	}

	rec, err := st.Find(context.Background(), "R1", "J1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rec.MatchScore != 50 || !reflect.DeepEqual(rec.MissingSkills, []string{"TypeScript"}) {
		t.Fatalf("unexpected stored record %+v", rec)
	}
}

func TestMatchResumeAgainstJobsUpdatesStoredScore(t *testing.T) {
	t.Parallel()

	st := store.NewMemory()
	resume, postings := batchInput()
	postings = postings[:1]

	first := NewOrchestrator(NewScorer(nil, 0, nil), st, Config{}, nil)
	if _, err := first.MatchResumeAgainstJobs(context.Background(), resume, postings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before, _ := st.Find(context.Background(), "R1", "J1")

	judge := &aitest.Judge{Judgment: &ai.Judgment{MatchScore: 90, MatchedSkills: []string{"React", "TypeScript"}}}
	second := NewOrchestrator(NewScorer(judge, 0, nil), st, Config{}, nil)
	if _, err := second.MatchResumeAgainstJobs(context.Background(), resume, postings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after, _ := st.Find(context.Background(), "R1", "J1")

	if after.ID != before.ID {
		t.Fatalf("expected the same record to be updated")
	}
	if after.MatchScore != 90 || after.Source != string(SourceDelegate) || len(after.MissingSkills) != 0 {
		t.Fatalf("expected latest computation to win, got %+v", after)
	}
}

func TestMatchResumeAgainstJobsPersistenceFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		store   store.Store
		message string
	}{
		{name: "find fails", store: &failingStore{findErr: errors.New("connection refused")}, message: "find match result failed"},
		{name: "create fails", store: &failingStore{createErr: errors.New("disk full")}, message: "create match result failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, recorded := observer.New(zapcore.WarnLevel)
			o := NewOrchestrator(NewScorer(nil, 0, nil), tt.store, Config{}, zap.New(core))

			resume, postings := batchInput()
			results, err := o.MatchResumeAgainstJobs(context.Background(), resume, postings)
			if err != nil {
				t.Fatalf("persistence errors must not fail the batch: %v", err)
			}
			if len(results) != 2 {
				t.Fatalf("expected 2 results, got %d", len(results))
			}
			for _, r := range results {
				if r.Persisted {
					t.Fatalf("expected unpersisted result, got %+v", r)
				}
			}
			if recorded.FilterMessage(tt.message).Len() != 2 {
				t.Fatalf("expected a warning per job, got %v", recorded.All())
			}
		})
	}
}

func TestMatchResumeAgainstJobsWithoutStore(t *testing.T) {
	t.Parallel()

	o := NewOrchestrator(NewScorer(nil, 0, nil), nil, Config{}, nil)
	resume, postings := batchInput()

	results, err := o.MatchResumeAgainstJobs(context.Background(), resume, postings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range results {
		if r.Persisted {
			t.Fatalf("nothing can be persisted without a store")
		}
	}
}

func TestMatchResumeAgainstJobsKeepsInputOrder(t *testing.T) {
	t.Parallel()

	delays := map[string]time.Duration{"J1": 60 * time.Millisecond, "J2": 30 * time.Millisecond, "J3": 0}
	judge := &aitest.Judge{Respond: func(p *jobs.Posting) (*ai.Judgment, error) {
		time.Sleep(delays[p.ID])
		return &ai.Judgment{MatchScore: 10}, nil
	}}
	o := NewOrchestrator(NewScorer(judge, 0, nil), store.NewMemory(), Config{Concurrency: 3}, nil)

	postings := []*jobs.Posting{
		{ID: "J1", Title: "A", Company: "C"},
		{ID: "J2", Title: "B", Company: "C"},
		{ID: "J3", Title: "C", Company: "C"},
		{ID: "J2", Title: "B again", Company: "C"},
	}
	results, err := o.MatchResumeAgainstJobs(context.Background(), jobs.Resume{ID: "R1", Content: "text"}, postings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.JobID)
	}
	if !reflect.DeepEqual(ids, []string{"J1", "J2", "J3"}) {
		t.Fatalf("expected input order without duplicates, got %v", ids)
	}
}

func TestMatchResumeAgainstJobsIsolatesSlowJudge(t *testing.T) {
	t.Parallel()

	judge := &aitest.Judge{Respond: func(p *jobs.Posting) (*ai.Judgment, error) {
		return &ai.Judgment{MatchScore: 77}, nil
	}, Delay: time.Hour}
	o := NewOrchestrator(NewScorer(judge, 50*time.Millisecond, nil), store.NewMemory(), Config{JobTimeout: 5 * time.Second}, nil)

	resume, postings := batchInput()
	start := time.Now()
	results, err := o.MatchResumeAgainstJobs(context.Background(), resume, postings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("slow judge blocked the batch for %v", elapsed)
	}
	for _, r := range results {
		if r.Source != SourceHeuristic || !r.Persisted {
			t.Fatalf("expected persisted heuristic result, got %+v", r)
		}
	}
}

func TestMatchResumeAgainstJobsStoresAfterJobTimeout(t *testing.T) {
	t.Parallel()

	judge := &aitest.Judge{Judgment: &ai.Judgment{MatchScore: 77}, Delay: time.Hour}
	st := store.NewMemory()
	o := NewOrchestrator(NewScorer(judge, 0, nil), st, Config{JobTimeout: 50 * time.Millisecond}, nil)

	resume, postings := batchInput()
	results, err := o.MatchResumeAgainstJobs(context.Background(), resume, postings[:1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if results[0].Source != SourceHeuristic || !results[0].Persisted {
		t.Fatalf("expected stored heuristic result, got %+v", results[0])
	}
	if st.Len() != 1 {
		t.Fatalf("expected one stored record, got %d", st.Len())
	}
}

func TestMatchResumeAgainstJobsStoresWhenCallerCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := store.NewMemory()
	o := NewOrchestrator(NewScorer(nil, 0, nil), st, Config{}, nil)

	resume, postings := batchInput()
	results, err := o.MatchResumeAgainstJobs(ctx, resume, postings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range results {
		if !r.Persisted {
			t.Fatalf("expected result to be stored, got %+v", r)
		}
	}
	if st.Len() != 2 {
		t.Fatalf("expected two stored records, got %d", st.Len())
	}
}
