package resumes

import (
	"strings"
	"time"
)

// Processing status lifecycle for a resume.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
	StatusFailed     = "failed"
)

// UnknownLabel is the placeholder stored when a work experience record
// arrives without a usable job title or company name.
const UnknownLabel = "Unknown"

// Resume is the root record for an uploaded resume file. Child records
// (person info, work experience, education, skills, analysis, matches)
// reference it by ID and are removed with it via cascade.
type Resume struct {
	ID               string
	FileName         string
	FileSize         int64
	FileType         string
	FileHash         string
	UploadedAt       time.Time
	ProcessedAt      *time.Time
	ProcessingStatus string
	RawText          string
	StructuredData   map[string]any
	AIEnhancements   map[string]any
	Metadata         map[string]any
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ResumeSummary is the lightweight shape returned by keyword search.
type ResumeSummary struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
}

// NewResume carries caller-supplied fields for resume creation. Timestamps
// and the identifier are always server-assigned.
type NewResume struct {
	FileName       string
	FileSize       int64
	FileType       string
	FileHash       string
	RawText        string
	StructuredData map[string]any
	Metadata       map[string]any
}

// PersonInfoRecord is the structured contact block attached to a resume.
// The schema allows several per resume; typical use is one.
type PersonInfoRecord struct {
	FullName    string         `json:"full_name"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Address     map[string]any `json:"address,omitempty"`
	SocialLinks map[string]any `json:"social_links,omitempty"`
}

// WorkExperienceRecord accepts the permissive shape produced by upstream
// parsers. Title/Company are legacy aliases for JobTitle/CompanyName; date
// strings are coerced, not validated.
type WorkExperienceRecord struct {
	JobTitle     string   `json:"job_title"`
	Title        string   `json:"title"`
	CompanyName  string   `json:"company_name"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	IsCurrent    bool     `json:"is_current"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// ResolvedJobTitle applies the placeholder fallback over both title keys.
func (w WorkExperienceRecord) ResolvedJobTitle() string {
	if t := strings.TrimSpace(w.JobTitle); t != "" {
		return t
	}
	if t := strings.TrimSpace(w.Title); t != "" {
		return t
	}
	return UnknownLabel
}

// ResolvedCompanyName applies the placeholder fallback over both company keys.
func (w WorkExperienceRecord) ResolvedCompanyName() string {
	if n := strings.TrimSpace(w.CompanyName); n != "" {
		return n
	}
	if n := strings.TrimSpace(w.Company); n != "" {
		return n
	}
	return UnknownLabel
}

// EducationRecord is one education entry.
type EducationRecord struct {
	Degree         string   `json:"degree"`
	FieldOfStudy   string   `json:"field_of_study"`
	Institution    string   `json:"institution"`
	Location       string   `json:"location"`
	GraduationDate string   `json:"graduation_date"`
	GPA            *float64 `json:"gpa,omitempty"`
	Honors         []string `json:"honors,omitempty"`
}

// SkillRecord is one skill entry.
type SkillRecord struct {
	SkillName         string `json:"skill_name"`
	SkillCategory     string `json:"skill_category"`
	ProficiencyLevel  string `json:"proficiency_level"`
	YearsOfExperience *int   `json:"years_of_experience,omitempty"`
	IsPrimary         bool   `json:"is_primary"`
}

// AIAnalysisRecord is one AI analysis run over a resume. Blob fields are
// opaque documents with no enforced inner schema.
type AIAnalysisRecord struct {
	QualityScore            *int           `json:"quality_score,omitempty"`
	CompletenessScore       *int           `json:"completeness_score,omitempty"`
	IndustryClassifications map[string]any `json:"industry_classifications,omitempty"`
	CareerLevel             string         `json:"career_level"`
	SalaryEstimate          map[string]any `json:"salary_estimate,omitempty"`
	Suggestions             []string       `json:"suggestions,omitempty"`
	ConfidenceScores        map[string]any `json:"confidence_scores,omitempty"`
}

// JobMatchRecord is one match of a resume against one job posting.
// JobTitle and JobDescription are required; everything else is optional.
type JobMatchRecord struct {
	JobTitle              string         `json:"job_title"`
	CompanyName           string         `json:"company_name"`
	JobDescription        string         `json:"job_description"`
	JobRequirements       map[string]any `json:"job_requirements,omitempty"`
	OverallScore          *int           `json:"overall_score,omitempty"`
	ConfidenceScore       *float64       `json:"confidence_score,omitempty"`
	Recommendation        string         `json:"recommendation"`
	CategoryScores        map[string]any `json:"category_scores,omitempty"`
	StrengthAreas         []string       `json:"strength_areas,omitempty"`
	GapAnalysis           map[string]any `json:"gap_analysis,omitempty"`
	SalaryAlignment       map[string]any `json:"salary_alignment,omitempty"`
	CompetitiveAdvantages []string       `json:"competitive_advantages,omitempty"`
	Explanation           map[string]any `json:"explanation,omitempty"`
	ProcessingMetadata    map[string]any `json:"processing_metadata,omitempty"`
}
