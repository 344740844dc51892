package gemini

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genai"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/jobs"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
	lastSchema *genai.Schema
}

func (s *stubGenerator) GenerateJSON(_ context.Context, system, prompt string, schema *genai.Schema) (string, error) {
	s.lastSystem = system
	s.lastPrompt = prompt
	s.lastSchema = schema
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func testPosting() *jobs.Posting {
	return &jobs.Posting{
		ID:           "J1",
		Title:        "Frontend Engineer",
		Company:      "Acme",
		Description:  "Build web apps",
		Requirements: "",
		Skills:       []string{"React", "TypeScript"},
	}
}

func TestJudgeParsesResponse(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: "```json\n{\"matchScore\": 72.5, \"matchedSkills\": [\"React\"], \"missingSkills\": [\"TypeScript\"], \"notes\": \"ignored\"}\n```"}
	judge := NewJudge(stub, zap.NewNop(), 0)

	judgment, err := judge.Judge(context.Background(), "React developer", testPosting())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if judgment.MatchScore != 72.5 {
		t.Fatalf("expected score 72.5, got %v", judgment.MatchScore)
	}
	if !reflect.DeepEqual(judgment.MatchedSkills, []string{"React"}) {
		t.Fatalf("unexpected matched skills %v", judgment.MatchedSkills)
	}
	if !reflect.DeepEqual(judgment.MissingSkills, []string{"TypeScript"}) {
		t.Fatalf("unexpected missing skills %v", judgment.MissingSkills)
	}
	if judgment.Raw != stub.response {
		t.Fatalf("expected raw response to be kept")
	}

	if stub.lastSystem != systemInstruction {
		t.Fatalf("unexpected system instruction %q", stub.lastSystem)
	}
	if stub.lastSchema != responseSchema {
		t.Fatalf("expected response schema to be requested")
	}
	for _, want := range []string{
		"React developer",
		"Job title: Frontend Engineer",
		"Company: Acme",
		"Declared skills: React, TypeScript",
		"Build web apps",
		"Requirements:\nnone",
	} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("expected prompt to contain %q, got:\n%s", want, stub.lastPrompt)
		}
	}
}

func TestJudgeUnavailable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		err      error
	}{
		{name: "generator error", err: errors.New("network down")},
		{name: "not json", response: "I think the candidate fits well."},
		{name: "missing score", response: `{"matchedSkills": ["React"]}`},
		{name: "score as text", response: `{"matchScore": "high"}`},
		{name: "skills not strings", response: `{"matchScore": 50, "matchedSkills": [1, 2]}`},
		{name: "empty", response: "``` ```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			judge := NewJudge(&stubGenerator{response: tt.response, err: tt.err}, zap.NewNop(), 0)
			judgment, err := judge.Judge(context.Background(), "resume", testPosting())
			if judgment != nil {
				t.Fatalf("expected no judgment, got %+v", judgment)
			}
			if !errors.Is(err, ai.ErrUnavailable) {
				t.Fatalf("expected ErrUnavailable, got %v", err)
			}
		})
	}
}

func TestJudgeDefaultsMissingArrays(t *testing.T) {
	t.Parallel()

	judge := NewJudge(&stubGenerator{response: `{"matchScore": 10}`}, zap.NewNop(), 0)
	judgment, err := judge.Judge(context.Background(), "resume", testPosting())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if judgment.MatchedSkills == nil || judgment.MissingSkills == nil {
		t.Fatalf("expected empty slices, got %+v", judgment)
	}
}

func TestJudgeRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: `{"matchScore": 10}`}
	judge := NewJudge(stub, zap.NewNop(), 0)

	if _, err := judge.Judge(context.Background(), "  ", testPosting()); !errors.Is(err, ai.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for empty resume, got %v", err)
	}
	if _, err := judge.Judge(context.Background(), "resume", nil); !errors.Is(err, ai.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for nil posting, got %v", err)
	}
	if stub.lastPrompt != "" {
		t.Fatalf("generator must not be called for invalid input")
	}
}

func TestJudgeLogsTruncatedPreview(t *testing.T) {
	t.Parallel()

	core, recorded := observer.New(zapcore.DebugLevel)
	stub := &stubGenerator{response: `{"matchScore": 10, "matchedSkills": [], "missingSkills": []}`}
	judge := NewJudge(stub, zap.New(core), 5)

	if _, err := judge.Judge(context.Background(), "resume", testPosting()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := recorded.FilterMessage("gemini generate content request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["job_id"] != "J1" {
		t.Fatalf("expected job_id field, got %v", fields)
	}
	if fields["ai_provider"] != Provider || fields["ai_model"] != "stub-model" {
		t.Fatalf("expected common ai fields, got %v", fields)
	}
	preview, _ := fields["prompt_preview"].(string)
	if len([]rune(preview)) != 8 || !strings.HasSuffix(preview, "...") {
		t.Fatalf("expected truncated preview, got %q", preview)
	}
	if recorded.FilterMessage("gemini generate content response").Len() != 1 {
		t.Fatalf("expected response log entry")
	}
}
