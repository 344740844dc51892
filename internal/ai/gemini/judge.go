package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/jobs"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/utils"
)

const (
	systemInstruction = "You are a professional job matcher. You compare resumes with job postings and answer only with JSON."

	defaultMaxLogLength = 200
	placeholderNone     = "none"
)

//go:embed prompt.md
var promptTemplate string

//go:embed schema.json
var schemaJSON string

var judgmentSchema = mustSchema(schemaJSON)

// responseSchema mirrors schema.json for the model side.
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"matchScore":    {Type: genai.TypeNumber},
		"matchedSkills": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"missingSkills": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required:         []string{"matchScore", "matchedSkills", "missingSkills"},
	PropertyOrdering: []string{"matchScore", "matchedSkills", "missingSkills"},
}

type jsonGenerator interface {
	GenerateJSON(ctx context.Context, system, prompt string, schema *genai.Schema) (string, error)
	Model() string
}

// Judge asks Gemini for a match judgment.
type Judge struct {
	generator jsonGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewJudge(generator jsonGenerator, log *zap.Logger, maxLogLength int) *Judge {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Judge{
		generator: generator,
		logger:    logger.WithCommonFields(log, Provider, generator.Model()),
		maxLogLen: maxLogLength,
	}
}

// Judge returns the parsed judgment. Every failure wraps ai.ErrUnavailable.
func (j *Judge) Judge(ctx context.Context, resumeText string, posting *jobs.Posting) (*ai.Judgment, error) {
	if posting == nil {
		return nil, ai.Unavailable(errors.New("job posting is required"))
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, ai.Unavailable(errors.New("resume text is required"))
	}

	prompt := buildPrompt(resumeText, posting)
	log := logger.WithFields(j.logger, logger.MatchFields("", posting.ID)...)

	log.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, j.maxLogLen)),
	)

	raw, err := j.generator.GenerateJSON(ctx, systemInstruction, prompt, responseSchema)
	if err != nil {
		return nil, ai.Unavailable(err)
	}

	log.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, j.maxLogLen)),
	)

	judgment, err := parseResponse(raw)
	if err != nil {
		return nil, ai.Unavailable(err)
	}
	judgment.Raw = raw
	return judgment, nil
}

func buildPrompt(resumeText string, posting *jobs.Posting) string {
	replacer := strings.NewReplacer(
		"{{RESUME}}", strings.TrimSpace(resumeText),
		"{{TITLE}}", orNone(posting.Title),
		"{{COMPANY}}", orNone(posting.Company),
		"{{SKILLS}}", orNone(strings.Join(posting.Skills, ", ")),
		"{{DESCRIPTION}}", orNone(posting.Description),
		"{{REQUIREMENTS}}", orNone(posting.Requirements),
	)
	return replacer.Replace(promptTemplate)
}

func orNone(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return placeholderNone
	}
	return s
}

type judgmentPayload struct {
	MatchScore    float64  `json:"matchScore"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
}

func parseResponse(raw string) (*ai.Judgment, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, errors.New("empty gemini response")
	}

	result, err := judgmentSchema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, fmt.Errorf("invalid gemini response: %s", strings.Join(problems, "; "))
	}

	var payload judgmentPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	judgment := &ai.Judgment{
		MatchScore:    payload.MatchScore,
		MatchedSkills: payload.MatchedSkills,
		MissingSkills: payload.MissingSkills,
	}
	if judgment.MatchedSkills == nil {
		judgment.MatchedSkills = []string{}
	}
	if judgment.MissingSkills == nil {
		judgment.MissingSkills = []string{}
	}
	return judgment, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func mustSchema(doc string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("compile judgment schema: %v", err))
	}
	return schema
}
