// Package recommend turns a match result and a section analysis into a
// ranked list of resume changes.
package recommend

import "sort"

type Section string

const (
	SectionSummary    Section = "summary"
	SectionExperience Section = "experience"
	SectionSkills     Section = "skills"
	SectionEducation  Section = "education"
	SectionFormat     Section = "format"
	SectionOther      Section = "other"
)

// priority breaks impact ties; lower goes first.
var priority = map[Section]int{
	SectionSkills:     0,
	SectionExperience: 1,
	SectionSummary:    2,
	SectionEducation:  3,
	SectionFormat:     4,
	SectionOther:      5,
}

// weights is the share of the overall score attributed to each section.
var weights = map[Section]float64{
	SectionExperience: 0.30,
	SectionSkills:     0.25,
	SectionSummary:    0.15,
	SectionEducation:  0.10,
	SectionFormat:     0.10,
	SectionOther:      0.10,
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Recommendation is a single suggested change. Impact is the fraction of the
// 100 point scale the change is expected to be worth.
type Recommendation struct {
	Section                  Section    `json:"section"`
	Recommendation           string     `json:"recommendation"`
	ImplementationDifficulty Difficulty `json:"implementationDifficulty"`
	Impact                   float64    `json:"impact"`
	BeforeExample            string     `json:"beforeExample,omitempty"`
	AfterExample             string     `json:"afterExample,omitempty"`
}

// Set is the ranked output of Build.
type Set struct {
	PotentialScoreIncrease float64          `json:"potentialScoreIncrease"`
	Recommendations        []Recommendation `json:"recommendations"`
}

// SectionScore is the analysis of one resume section. Finding names the main
// problem found and selects the recommendation text; Excerpt is used as the
// "before" example when set.
type SectionScore struct {
	Section  Section `json:"section"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"maxScore"`
	Feedback string  `json:"feedback"`
	Finding  Finding `json:"finding,omitempty"`
	Excerpt  string  `json:"excerpt,omitempty"`
}

// Sort orders recommendations by impact, highest first. Equal impacts are
// ordered skills, experience, summary, education, format, other; anything
// still equal keeps its order.
func Sort(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Impact != recs[j].Impact {
			return recs[i].Impact > recs[j].Impact
		}
		return rank(recs[i].Section) < rank(recs[j].Section)
	})
}

func rank(s Section) int {
	if p, ok := priority[s]; ok {
		return p
	}
	return priority[SectionOther]
}

func weight(s Section) float64 {
	if w, ok := weights[s]; ok {
		return w
	}
	return weights[SectionOther]
}
