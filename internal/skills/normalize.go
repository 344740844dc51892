package skills

import "strings"

// aliases maps common variants to the canonical key of a skill.
var aliases = map[string]string{
	"golang":                "go",
	"go lang":               "go",
	"js":                    "javascript",
	"ts":                    "typescript",
	"k8s":                   "kubernetes",
	"react.js":              "react",
	"reactjs":               "react",
	"vue.js":                "vue",
	"vuejs":                 "vue",
	"nodejs":                "node.js",
	"node":                  "node.js",
	"postgres":              "postgresql",
	"mongo":                 "mongodb",
	"amazon web services":   "aws",
	"google cloud platform": "google cloud",
	"ml":                    "machine learning",
	"c sharp":               "c#",
	"cpp":                   "c++",
	"cicd":                  "ci/cd",
	"restful api":           "rest api",
	"restful apis":          "rest api",
	"rest apis":             "rest api",
	"micro-services":        "microservices",
	"team work":             "teamwork",
	"problem-solving":       "problem solving",
}

// Normalize returns the comparison key for a skill: case-folded, with
// whitespace collapsed, edge punctuation trimmed and aliases resolved.
func Normalize(s string) string {
	words := strings.Fields(strings.ToLower(s))
	cleaned := words[:0]
	for _, w := range words {
		if w = cleanWord(w); w != "" {
			cleaned = append(cleaned, w)
		}
	}
	return canonical(strings.Join(cleaned, " "))
}

func canonical(key string) string {
	if c, ok := aliases[key]; ok {
		return c
	}
	return key
}

// cleanWord trims punctuation that cannot be part of a skill name. Characters
// used inside names (c++, c#, .net, node.js, ci/cd) survive.
func cleanWord(w string) string {
	w = strings.TrimLeft(w, `'"‘“*-–—•·>`)
	w = strings.TrimRight(w, `'"’”*.`)
	return w
}
