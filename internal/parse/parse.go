// Package parse derives structured resume data from extracted plain text.
// The heuristics are intentionally shallow: they exist so uploads land in
// the store with a usable structured payload, not to compete with a real
// parsing pipeline.
package parse

import (
	"regexp"
	"strings"

	"resume-store/internal/resumes"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?[0-9][0-9 ()\-]{7,}[0-9]`)
	// "2020 - 2022 Software Engineer at Acme Corp"
	experienceRe = regexp.MustCompile(`(?i)^(\d{4})\s*[-–]\s*(\d{4}|present|now)\s+(.{2,80}?)\s+at\s+(.+)$`)
	educationRe  = regexp.MustCompile(`(?i)university|college|institute|bachelor|master|b\.sc|m\.sc|phd`)
)

// Common skill keywords scanned for in resume text. Lowercase.
var knownSkills = []string{
	"python", "go", "golang", "java", "javascript", "typescript", "c++",
	"sql", "postgresql", "mysql", "mongodb", "redis",
	"aws", "gcp", "azure", "docker", "kubernetes", "terraform",
	"etl", "spark", "kafka", "airflow",
	"react", "vue", "angular", "node",
	"git", "linux", "ci/cd",
}

// Result is the structured output of a parse run, shaped as the store's
// attach operations expect it.
type Result struct {
	Person          resumes.PersonInfoRecord
	WorkExperiences []resumes.WorkExperienceRecord
	Education       []resumes.EducationRecord
	Skills          []resumes.SkillRecord
	Structured      map[string]any
}

// Document parses extracted resume text into structured records.
func Document(text string) Result {
	var res Result

	lines := splitLines(text)

	res.Person = parsePerson(lines)
	res.WorkExperiences = parseExperiences(lines)
	res.Education = parseEducation(lines)
	res.Skills = parseSkills(text)

	skillNames := make([]string, 0, len(res.Skills))
	for _, sk := range res.Skills {
		skillNames = append(skillNames, sk.SkillName)
	}
	res.Structured = map[string]any{
		"full_name":        res.Person.FullName,
		"email":            res.Person.Email,
		"phone":            res.Person.Phone,
		"skills":           skillNames,
		"experience_count": len(res.WorkExperiences),
		"education_count":  len(res.Education),
	}
	return res
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parsePerson(lines []string) resumes.PersonInfoRecord {
	var person resumes.PersonInfoRecord

	for _, line := range lines {
		if person.Email == "" {
			if m := emailRe.FindString(line); m != "" {
				person.Email = m
				continue
			}
		}
		if person.Phone == "" {
			if m := phoneRe.FindString(line); m != "" {
				person.Phone = strings.TrimSpace(m)
			}
		}
	}

	// Treat the first short, digit-free line as the candidate's name.
	for _, line := range lines {
		if strings.ContainsAny(line, "0123456789@") {
			continue
		}
		words := strings.Fields(line)
		if len(words) == 0 || len(words) > 5 {
			continue
		}
		person.FullName = line
		person.FirstName = words[0]
		if len(words) > 1 {
			person.LastName = words[len(words)-1]
		}
		break
	}
	return person
}

func parseExperiences(lines []string) []resumes.WorkExperienceRecord {
	var out []resumes.WorkExperienceRecord
	for _, line := range lines {
		m := experienceRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		exp := resumes.WorkExperienceRecord{
			Title:       strings.TrimSpace(m[3]),
			Company:     strings.TrimSpace(m[4]),
			StartDate:   m[1] + "-01-01",
			Description: line,
		}
		switch strings.ToLower(m[2]) {
		case "present", "now":
			exp.IsCurrent = true
		default:
			exp.EndDate = m[2] + "-12-31"
		}
		out = append(out, exp)
	}
	return out
}

func parseEducation(lines []string) []resumes.EducationRecord {
	var out []resumes.EducationRecord
	for _, line := range lines {
		if !educationRe.MatchString(line) {
			continue
		}
		out = append(out, resumes.EducationRecord{Institution: line})
	}
	return out
}

func parseSkills(text string) []resumes.SkillRecord {
	lowered := " " + nonWordToSpace(strings.ToLower(text)) + " "
	var out []resumes.SkillRecord
	seen := make(map[string]struct{})
	for _, skill := range knownSkills {
		if _, ok := seen[skill]; ok {
			continue
		}
		needle := " " + nonWordToSpace(skill) + " "
		if strings.Contains(lowered, needle) {
			seen[skill] = struct{}{}
			out = append(out, resumes.SkillRecord{SkillName: skill, SkillCategory: "technical"})
		}
	}
	return out
}

var nonWordRe = regexp.MustCompile(`[^a-z0-9+/.]+`)

func nonWordToSpace(s string) string {
	return strings.TrimSpace(nonWordRe.ReplaceAllString(s, " "))
}
