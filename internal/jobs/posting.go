// Package jobs holds the job posting and resume inputs and loads them from disk.
package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/resume-matcher/internal/utils"
)

type Posting struct {
	ID           string   `json:"id" mapstructure:"id" validate:"notblank"`
	Title        string   `json:"title" mapstructure:"title" validate:"notblank"`
	Company      string   `json:"company" mapstructure:"company" validate:"notblank"`
	Description  string   `json:"description,omitempty" mapstructure:"description"`
	Requirements string   `json:"requirements,omitempty" mapstructure:"requirements"`
	Skills       []string `json:"skills" mapstructure:"skills"`
}

// FreeText returns the description and requirements joined for skill inference.
func (p *Posting) FreeText() string {
	return joinNonEmpty(p.Description, p.Requirements)
}

// FullText returns title, description and requirements joined.
func (p *Posting) FullText() string {
	return joinNonEmpty(p.Title, p.Description, p.Requirements)
}

// Resume is the text of a single resume. The core never modifies it.
type Resume struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// LoadPostings reads a JSON file holding either an array of postings or an
// object with a "jobs" array.
func LoadPostings(path string) ([]*Posting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse jobs file: %w", err)
	}

	if wrapper, ok := raw.(map[string]any); ok {
		raw, ok = wrapper["jobs"]
		if !ok {
			return nil, fmt.Errorf("jobs file object has no \"jobs\" field")
		}
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("jobs file must contain an array of jobs")
	}

	items := make([]map[string]any, 0, len(list))
	for i, entry := range list {
		item, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("job #%d is not an object", i)
		}
		items = append(items, item)
	}

	return DecodePostings(items)
}

// DecodePostings converts generic maps into postings. "skills" may be a list
// of strings or one string separated by commas, semicolons or new lines.
func DecodePostings(items []map[string]any) ([]*Posting, error) {
	postings := make([]*Posting, 0, len(items))
	for i, item := range items {
		var posting Posting
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook:       skillsHook,
			WeaklyTypedInput: true,
			Result:           &posting,
		})
		if err != nil {
			return nil, fmt.Errorf("create decoder: %w", err)
		}
		if err := decoder.Decode(item); err != nil {
			return nil, fmt.Errorf("decode job #%d: %w", i, err)
		}
		postings = append(postings, &posting)
	}
	return postings, nil
}

// LoadResume reads a plain text resume.
func LoadResume(id, path string) (Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Resume{}, fmt.Errorf("read resume file: %w", err)
	}
	return Resume{ID: strings.TrimSpace(id), Content: NormalizeText(string(data))}, nil
}

// NormalizeText unifies line endings and trims surrounding whitespace.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(s)
}

func skillsHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf([]string{}) {
		return data, nil
	}
	return utils.SplitList(reflect.ValueOf(data).String()), nil
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
