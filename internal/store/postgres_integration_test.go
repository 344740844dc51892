//go:build integration

package store

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func setupPostgres(t *testing.T) *Postgres {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	p, err := Connect(context.Background(), url, 5*time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(p.Close)
	return p
}

func TestPostgresUpsertFlow_Integration(t *testing.T) {
	p := setupPostgres(t)
	ctx := context.Background()

	resumeID := "it-resume-" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = p.pool.Exec(context.Background(), `DELETE FROM match_results WHERE resume_id = $1`, resumeID)
	})

	if _, err := p.Find(ctx, resumeID, "J1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	created, err := p.Create(ctx, &Record{ResumeID: resumeID, JobID: "J1", MatchScore: 50, MatchedSkills: []string{"React"}, MissingSkills: []string{"TypeScript"}, Source: "heuristic"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatalf("expected id")
	}

	found, err := p.Find(ctx, resumeID, "J1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != created.ID || !reflect.DeepEqual(found.MissingSkills, []string{"TypeScript"}) {
		t.Fatalf("unexpected record %+v", found)
	}

	found.MatchScore = 100
	found.MatchedSkills = []string{"React", "TypeScript"}
	found.MissingSkills = nil
	updated, err := p.Update(ctx, found)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID || updated.MatchScore != 100 || len(updated.MissingSkills) != 0 {
		t.Fatalf("unexpected updated record %+v", updated)
	}

	again, err := p.Create(ctx, &Record{ResumeID: resumeID, JobID: "J1", MatchScore: 70, Source: "delegate"})
	if err != nil {
		t.Fatalf("create existing pair: %v", err)
	}
	if again.ID != created.ID || again.MatchScore != 70 {
		t.Fatalf("expected conflicting create to update the same row, got %+v", again)
	}

	if _, err := p.Update(ctx, &Record{ID: uuid.New()}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}
