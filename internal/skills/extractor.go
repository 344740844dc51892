package skills

import (
	"strings"
	"unicode"
)

// Extractor finds vocabulary terms in free text. It is immutable once built
// and safe for concurrent use.
type Extractor struct {
	terms    map[string]string
	maxWords int
}

var base = NewExtractor(Vocabulary()...)

// Default returns the extractor over the base vocabulary.
func Default() *Extractor {
	return base
}

// NewExtractor builds an extractor that recognises the given terms.
func NewExtractor(terms ...string) *Extractor {
	e := &Extractor{terms: make(map[string]string, len(terms))}
	e.add(terms)
	return e
}

// WithTerms returns a copy of e that also recognises terms. e is not modified.
func (e *Extractor) WithTerms(terms ...string) *Extractor {
	out := &Extractor{terms: make(map[string]string, len(e.terms)+len(terms)), maxWords: e.maxWords}
	for k, v := range e.terms {
		out.terms[k] = v
	}
	out.add(terms)
	return out
}

func (e *Extractor) add(terms []string) {
	for _, t := range terms {
		key := Normalize(t)
		if key == "" {
			continue
		}
		if _, ok := e.terms[key]; !ok {
			e.terms[key] = displayForm(t)
		}
		if n := len(strings.Fields(key)); n > e.maxWords {
			e.maxWords = n
		}
	}
	// Aliases can be longer than the term they resolve to.
	for alias, key := range aliases {
		if _, ok := e.terms[key]; !ok {
			continue
		}
		if n := len(strings.Fields(alias)); n > e.maxWords {
			e.maxWords = n
		}
	}
}

// Known reports whether text normalizes to a recognised term.
func (e *Extractor) Known(text string) bool {
	_, ok := e.terms[Normalize(text)]
	return ok
}

// Extract returns every recognised term found in text. Longer phrases win
// over their prefixes, so "react native" is one skill and not "react".
func (e *Extractor) Extract(text string) *SkillSet {
	out := New()
	if strings.TrimSpace(text) == "" {
		return out
	}

	for _, run := range e.runs(text) {
		for i := 0; i < len(run); {
			n := e.longestAt(run, i)
			if n == 0 {
				i++
				continue
			}
			key := canonical(strings.Join(run[i:i+n], " "))
			out.Add(e.terms[key])
			i += n
		}
	}

	return out
}

func (e *Extractor) longestAt(run []string, i int) int {
	limit := e.maxWords
	if rest := len(run) - i; rest < limit {
		limit = rest
	}
	for n := limit; n >= 1; n-- {
		if _, ok := e.terms[canonical(strings.Join(run[i:i+n], " "))]; ok {
			return n
		}
	}
	return 0
}

// runs splits text into sequences of cleaned words. A phrase never spans two
// runs, so separators and sentence ends break multi-word matches.
func (e *Extractor) runs(text string) [][]string {
	var runs [][]string
	for _, segment := range strings.FieldsFunc(strings.ToLower(text), isSeparator) {
		var run []string
		for _, raw := range strings.Fields(segment) {
			endsSentence := strings.HasSuffix(strings.TrimRight(raw, `'"’”*)`), ".")
			word := cleanWord(raw)
			if word != "" {
				run = append(run, e.splitPair(word)...)
			}
			if endsSentence && len(run) > 0 {
				runs = append(runs, run)
				run = nil
			}
		}
		if len(run) > 0 {
			runs = append(runs, run)
		}
	}
	return runs
}

// splitPair breaks "a/b" into its parts unless the whole token is a term.
func (e *Extractor) splitPair(word string) []string {
	if !strings.Contains(word, "/") {
		return []string{word}
	}
	if _, ok := e.terms[canonical(word)]; ok {
		return []string{word}
	}
	var parts []string
	for _, p := range strings.Split(word, "/") {
		if p = cleanWord(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func isSeparator(r rune) bool {
	switch r {
	case ',', ';', ':', '(', ')', '[', ']', '{', '}', '!', '?', '|', '•', '·', '\n', '\r', '\t':
		return true
	}
	return unicode.IsControl(r)
}
