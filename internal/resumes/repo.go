package resumes

import "context"

// Repo defines persistence operations for resumes and their child records.
// Every method is one unit of work: it commits or rolls back before
// returning, and attach operations for different child types are never
// bundled into a shared transaction.
type Repo interface {
	// CreateResume inserts the root record and returns its generated ID.
	// A duplicate file hash fails with ErrDuplicateHash after rollback.
	CreateResume(ctx context.Context, in NewResume) (string, error)

	AttachPersonInfo(ctx context.Context, resumeID string, person PersonInfoRecord) (string, error)

	// AttachWorkExperiences inserts the batch in input order within one
	// transaction and returns the generated IDs in the same order. Any
	// failure rolls back the whole batch.
	AttachWorkExperiences(ctx context.Context, resumeID string, experiences []WorkExperienceRecord) ([]string, error)
	AttachEducation(ctx context.Context, resumeID string, items []EducationRecord) ([]string, error)
	AttachSkills(ctx context.Context, resumeID string, skills []SkillRecord) ([]string, error)

	AddAIAnalysis(ctx context.Context, resumeID string, analysis AIAnalysisRecord) (string, error)
	AddResumeJobMatch(ctx context.Context, resumeID string, match JobMatchRecord) (string, error)

	// GetResumeByID returns the root record only; children are not joined.
	// Absence is ErrNotFound, never a panic or empty struct.
	GetResumeByID(ctx context.Context, resumeID string) (Resume, error)

	// SearchResumesByKeyword matches the keyword case-insensitively against
	// raw text and returns up to limit summaries, newest upload first.
	SearchResumesByKeyword(ctx context.Context, keyword string, limit int) ([]ResumeSummary, error)

	// DeleteResume removes the root record; child rows go with it.
	DeleteResume(ctx context.Context, resumeID string) error
}
