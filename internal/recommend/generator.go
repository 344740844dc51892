package recommend

import (
	"fmt"
	"math"
	"strings"

	"github.com/spigell/resume-matcher/internal/matching"
)

// DefaultThreshold is the share of a section's maximum below which the
// section gets a recommendation.
const DefaultThreshold = 0.8

type template struct {
	text       string
	difficulty Difficulty
	before     string
	after      string
}

var templates = map[Section]map[Finding]template{
	SectionSummary: {
		FindingMissing: {
			text:       "Add a professional summary that highlights your qualifications for the role.",
			difficulty: DifficultyMedium,
		},
		FindingTooShort: {
			text:       "Expand your summary to better highlight your qualifications and include more relevant keywords.",
			difficulty: DifficultyMedium,
		},
	},
	SectionExperience: {
		FindingMissing: {
			text:       "Add detailed work experience with bullet points highlighting achievements and responsibilities.",
			difficulty: DifficultyHard,
		},
		FindingNoActionVerbs: {
			text:       "Use strong action verbs to start your bullet points (e.g., Achieved, Implemented, Developed, Led).",
			difficulty: DifficultyEasy,
			before:     "Responsible for project management and team coordination.",
			after:      "Led cross-functional teams to deliver projects 15% ahead of schedule and under budget.",
		},
		FindingNotQuantified: {
			text:       "Add quantifiable achievements with metrics and percentages to demonstrate impact.",
			difficulty: DifficultyMedium,
			before:     "Improved team productivity and reduced costs.",
			after:      "Improved team productivity by 30% and reduced operational costs by $50,000 annually.",
		},
	},
	SectionSkills: {
		FindingMissing: {
			text:       "Add a dedicated skills section that lists your technical and soft skills.",
			difficulty: DifficultyEasy,
		},
		FindingSkillGaps: {
			text:       "Format your skills section as a clear, scannable list that names the skills the job asks for.",
			difficulty: DifficultyEasy,
			before:     "Proficient in Python, Java, and SQL with experience in data analysis and project management.",
			after:      "Technical Skills: Python, Java, SQL\nData Skills: Data Analysis, Visualization\nOther: Project Management, Agile Methodology",
		},
	},
	SectionEducation: {
		FindingMissing: {
			text:       "Add your educational background, including degrees, institutions, and graduation dates.",
			difficulty: DifficultyEasy,
		},
	},
	SectionFormat: {
		FindingNoHeadings: {
			text:       "Use standard section headings (e.g., 'Experience' instead of 'Career Journey').",
			difficulty: DifficultyEasy,
			before:     "Career Journey",
			after:      "Professional Experience",
		},
		FindingNeedsAttention: {
			text:       "Use a clean, ATS-friendly resume template with standard section headings.",
			difficulty: DifficultyMedium,
		},
	},
}

var fallbackTemplate = template{
	text:       "Review this section and align its wording with the job description.",
	difficulty: DifficultyMedium,
}

// Build creates the recommendation set for a match result: one entry per
// missing skill and one per section scoring below threshold of its maximum.
// A threshold outside (0, 1] selects DefaultThreshold.
func Build(result *matching.MatchResult, sections []SectionScore, threshold float64) *Set {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}

	var recs []Recommendation
	score := 0
	if result != nil {
		score = result.MatchScore
		recs = append(recs, skillRecommendations(result)...)
	}

	for _, section := range sections {
		if section.MaxScore <= 0 || section.Score >= threshold*section.MaxScore {
			continue
		}
		recs = append(recs, sectionRecommendation(section, result))
	}

	Sort(recs)

	if recs == nil {
		recs = []Recommendation{}
	}
	return &Set{
		PotentialScoreIncrease: potentialIncrease(recs, score),
		Recommendations:        recs,
	}
}

func skillRecommendations(result *matching.MatchResult) []Recommendation {
	total := len(result.MatchedSkills) + len(result.MissingSkills)
	if total == 0 {
		return nil
	}
	impact := 1 / float64(total)

	recs := make([]Recommendation, 0, len(result.MissingSkills))
	for _, skill := range result.MissingSkills {
		recs = append(recs, Recommendation{
			Section:                  SectionSkills,
			Recommendation:           fmt.Sprintf("Add %s to your resume if you have it; the job lists it as a required skill.", skill),
			ImplementationDifficulty: DifficultyMedium,
			Impact:                   impact,
		})
	}
	return recs
}

func sectionRecommendation(section SectionScore, result *matching.MatchResult) Recommendation {
	finding := section.Finding
	if finding == "" {
		finding = FindingNeedsAttention
	}

	tpl, ok := templates[section.Section][finding]
	if !ok {
		tpl = fallbackTemplate
	}

	rec := Recommendation{
		Section:                  section.Section,
		Recommendation:           tpl.text,
		ImplementationDifficulty: tpl.difficulty,
		Impact:                   clamp01((1 - section.Score/section.MaxScore) * weight(section.Section)),
		BeforeExample:            tpl.before,
		AfterExample:             tpl.after,
	}
	if section.Excerpt != "" {
		rec.BeforeExample = section.Excerpt
	}
	if section.Section == SectionSummary && rec.AfterExample == "" {
		rec.AfterExample = summaryExample(result)
	}
	return rec
}

// summaryExample suggests a summary built from the job's skills.
func summaryExample(result *matching.MatchResult) string {
	if result == nil {
		return ""
	}
	jobSkills := append(append([]string{}, result.MatchedSkills...), result.MissingSkills...)
	if len(jobSkills) == 0 {
		return ""
	}
	if len(jobSkills) > 3 {
		jobSkills = jobSkills[:3]
	}
	return fmt.Sprintf("Experienced professional with expertise in %s seeking a role where I can leverage these skills to drive results.", strings.Join(jobSkills, ", "))
}

func potentialIncrease(recs []Recommendation, score int) float64 {
	total := 0.0
	for _, r := range recs {
		total += r.Impact * 100
	}

	headroom := math.Max(0, float64(100-score))
	return math.Round(math.Min(total, headroom)*10) / 10
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
