package recommend

import (
	"strings"
	"unicode"

	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/utils"
)

type Finding string

const (
	FindingMissing        Finding = "missing"
	FindingTooShort       Finding = "too_short"
	FindingNoActionVerbs  Finding = "no_action_verbs"
	FindingNotQuantified  Finding = "not_quantified"
	FindingSkillGaps      Finding = "skill_gaps"
	FindingNoHeadings     Finding = "no_standard_headings"
	FindingNeedsAttention Finding = "needs_attention"
)

const (
	summaryMinWords = 30
	excerptLength   = 100

	summaryMax    = 5.0
	experienceMax = 15.0
	skillsMax     = 10.0
	educationMax  = 5.0
	formatMax     = 25.0
)

var headings = map[string]Section{
	"summary":              SectionSummary,
	"professional summary": SectionSummary,
	"profile":              SectionSummary,
	"professional profile": SectionSummary,
	"about":                SectionSummary,
	"about me":             SectionSummary,
	"objective":            SectionSummary,
	"career objective":     SectionSummary,

	"experience":              SectionExperience,
	"work experience":         SectionExperience,
	"professional experience": SectionExperience,
	"employment":              SectionExperience,
	"employment history":      SectionExperience,
	"work history":            SectionExperience,

	"skills":               SectionSkills,
	"technical skills":     SectionSkills,
	"key skills":           SectionSkills,
	"core skills":          SectionSkills,
	"competencies":         SectionSkills,
	"core competencies":    SectionSkills,
	"skills and expertise": SectionSkills,

	"education":              SectionEducation,
	"education and training": SectionEducation,
	"academic background":    SectionEducation,
	"qualifications":         SectionEducation,

	"projects":       SectionOther,
	"certifications": SectionOther,
	"awards":         SectionOther,
	"languages":      SectionOther,
	"interests":      SectionOther,
	"publications":   SectionOther,
	"volunteering":   SectionOther,
	"references":     SectionOther,
}

var actionVerbs = map[string]struct{}{
	"achieved": {}, "implemented": {}, "developed": {}, "led": {}, "managed": {},
	"created": {}, "improved": {}, "reduced": {}, "increased": {}, "delivered": {},
	"built": {}, "designed": {}, "launched": {}, "optimized": {}, "automated": {},
}

// AnalyzeSections scores the summary, experience, skills, education and
// format of a plain text resume. Sections are recognised by heading lines
// such as "Experience" or "Technical Skills:".
func AnalyzeSections(resumeText string, result *matching.MatchResult) []SectionScore {
	sections := splitSections(resumeText)

	return []SectionScore{
		analyzeSummary(sections),
		analyzeExperience(sections),
		analyzeSkills(sections, result),
		analyzeEducation(sections),
		analyzeFormat(sections),
	}
}

func analyzeSummary(sections map[Section]string) SectionScore {
	s := SectionScore{Section: SectionSummary, MaxScore: summaryMax}
	body, ok := sections[SectionSummary]
	if !ok || body == "" {
		s.Finding = FindingMissing
		s.Feedback = "No professional summary found."
		return s
	}

	s.Score = summaryMax / 2
	if len(strings.Fields(body)) >= summaryMinWords {
		s.Score = summaryMax
		s.Feedback = "Your summary is present and detailed."
		return s
	}

	s.Finding = FindingTooShort
	s.Excerpt = utils.TruncateForLog(body, excerptLength)
	s.Feedback = "Your summary is short and may miss relevant keywords."
	return s
}

func analyzeExperience(sections map[Section]string) SectionScore {
	s := SectionScore{Section: SectionExperience, MaxScore: experienceMax}
	body, ok := sections[SectionExperience]
	if !ok || body == "" {
		s.Finding = FindingMissing
		s.Feedback = "No work experience section found."
		return s
	}

	s.Score = experienceMax / 3
	verbs := hasActionVerbs(body)
	numbers := strings.IndexFunc(body, unicode.IsDigit) >= 0
	if verbs {
		s.Score += experienceMax / 3
	}
	if numbers {
		s.Score += experienceMax / 3
	}

	switch {
	case !numbers:
		s.Finding = FindingNotQuantified
		s.Feedback = "Your experience descriptions do not quantify achievements."
	case !verbs:
		s.Finding = FindingNoActionVerbs
		s.Feedback = "Your experience descriptions could start with stronger action verbs."
	default:
		s.Score = experienceMax
		s.Feedback = "Your experience descriptions effectively demonstrate relevant skills and achievements."
	}
	return s
}

func analyzeSkills(sections map[Section]string, result *matching.MatchResult) SectionScore {
	s := SectionScore{Section: SectionSkills, MaxScore: skillsMax, Score: skillsMax}

	if result != nil {
		if total := len(result.MatchedSkills) + len(result.MissingSkills); total > 0 {
			s.Score = skillsMax * float64(len(result.MatchedSkills)) / float64(total)
		}
	}

	if _, ok := sections[SectionSkills]; !ok {
		s.Finding = FindingMissing
		s.Feedback = "No dedicated skills section found."
		return s
	}
	if s.Score < skillsMax {
		s.Finding = FindingSkillGaps
		s.Feedback = "Some skills required by the job are not shown in your resume."
		return s
	}
	s.Feedback = "Your skills cover what the job asks for."
	return s
}

func analyzeEducation(sections map[Section]string) SectionScore {
	s := SectionScore{Section: SectionEducation, MaxScore: educationMax}
	if body, ok := sections[SectionEducation]; !ok || body == "" {
		s.Finding = FindingMissing
		s.Feedback = "No education section found."
		return s
	}
	s.Score = educationMax
	s.Feedback = "Your education section is present."
	return s
}

func analyzeFormat(sections map[Section]string) SectionScore {
	s := SectionScore{Section: SectionFormat, MaxScore: formatMax}
	standard := []Section{SectionSummary, SectionExperience, SectionSkills, SectionEducation}

	found := 0
	for _, section := range standard {
		if _, ok := sections[section]; ok {
			found++
		}
	}

	s.Score = formatMax * float64(found) / float64(len(standard))
	if found < len(standard) {
		s.Finding = FindingNoHeadings
		s.Feedback = "Some standard section headings are missing."
		return s
	}
	s.Feedback = "Your resume uses standard section headings."
	return s
}

// splitSections maps every recognised heading to the text below it. Text
// before the first heading is ignored. Repeated headings are concatenated.
func splitSections(text string) map[Section]string {
	bodies := make(map[Section][]string)
	var current Section
	inSection := false

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if section, ok := headingOf(line); ok {
			current = section
			inSection = true
			if _, seen := bodies[current]; !seen {
				bodies[current] = []string{}
			}
			continue
		}
		if inSection {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				bodies[current] = append(bodies[current], trimmed)
			}
		}
	}

	out := make(map[Section]string, len(bodies))
	for section, lines := range bodies {
		out[section] = strings.Join(lines, "\n")
	}
	return out
}

func headingOf(line string) (Section, bool) {
	key := strings.ToLower(strings.TrimSpace(line))
	key = strings.TrimLeft(key, "#* ")
	key = strings.TrimRight(key, ":* ")
	key = strings.Join(strings.Fields(key), " ")
	section, ok := headings[key]
	return section, ok
}

func hasActionVerbs(text string) bool {
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if _, ok := actionVerbs[word]; ok {
			return true
		}
	}
	return false
}
