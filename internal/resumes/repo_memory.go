package resumes

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory Repo used for tests and for running the API
// without a database. It mirrors the Postgres repo's semantics: duplicate
// hash rejection, placeholder fallbacks, permissive dates, cascade delete.
type MemoryRepo struct {
	mu sync.RWMutex

	resumes map[string]Resume
	hashes  map[string]string // file_hash -> resume id

	personInfo      map[string][]personInfoRow
	workExperiences map[string][]workExperienceRow
	education       map[string][]educationRow
	skills          map[string][]skillRow
	analyses        map[string][]analysisRow
	jobMatches      map[string][]jobMatchRow
}

type personInfoRow struct {
	ID     string
	Record PersonInfoRecord
}

type workExperienceRow struct {
	ID          string
	JobTitle    string
	CompanyName string
	StartDate   *time.Time
	EndDate     *time.Time
	Record      WorkExperienceRecord
}

type educationRow struct {
	ID             string
	GraduationDate *time.Time
	Record         EducationRecord
}

type skillRow struct {
	ID     string
	Record SkillRecord
}

type analysisRow struct {
	ID     string
	Record AIAnalysisRecord
}

type jobMatchRow struct {
	ID     string
	Record JobMatchRecord
}

// NewMemoryRepo constructs an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		resumes:         make(map[string]Resume),
		hashes:          make(map[string]string),
		personInfo:      make(map[string][]personInfoRow),
		workExperiences: make(map[string][]workExperienceRow),
		education:       make(map[string][]educationRow),
		skills:          make(map[string][]skillRow),
		analyses:        make(map[string][]analysisRow),
		jobMatches:      make(map[string][]jobMatchRow),
	}
}

// CreateResume inserts the root record, rejecting duplicate hashes.
func (m *MemoryRepo) CreateResume(ctx context.Context, in NewResume) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.hashes[in.FileHash]; exists {
		return "", fmt.Errorf("%w: file_hash %s", ErrDuplicateHash, in.FileHash)
	}

	now := time.Now().UTC()
	res := Resume{
		ID:               uuid.NewString(),
		FileName:         in.FileName,
		FileSize:         in.FileSize,
		FileType:         in.FileType,
		FileHash:         in.FileHash,
		UploadedAt:       now,
		ProcessingStatus: StatusPending,
		RawText:          in.RawText,
		StructuredData:   emptyIfNil(in.StructuredData),
		Metadata:         emptyIfNil(in.Metadata),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if len(in.StructuredData) > 0 {
		res.ProcessingStatus = StatusProcessed
		processed := now
		res.ProcessedAt = &processed
	}

	m.resumes[res.ID] = res
	m.hashes[in.FileHash] = res.ID
	return res.ID, nil
}

// AttachPersonInfo inserts one contact block.
func (m *MemoryRepo) AttachPersonInfo(ctx context.Context, resumeID string, person PersonInfoRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.resumes[resumeID]; !ok {
		return "", ErrNotFound
	}
	id := uuid.NewString()
	m.personInfo[resumeID] = append(m.personInfo[resumeID], personInfoRow{ID: id, Record: person})
	return id, nil
}

// AttachWorkExperiences inserts the batch, applying the same placeholder and
// date coercion rules as the Postgres repo.
func (m *MemoryRepo) AttachWorkExperiences(ctx context.Context, resumeID string, experiences []WorkExperienceRecord) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.resumes[resumeID]; !ok {
		return nil, ErrNotFound
	}
	ids := make([]string, 0, len(experiences))
	rows := make([]workExperienceRow, 0, len(experiences))
	for _, exp := range experiences {
		id := uuid.NewString()
		rows = append(rows, workExperienceRow{
			ID:          id,
			JobTitle:    exp.ResolvedJobTitle(),
			CompanyName: exp.ResolvedCompanyName(),
			StartDate:   ParseDate(exp.StartDate),
			EndDate:     ParseDate(exp.EndDate),
			Record:      exp,
		})
		ids = append(ids, id)
	}
	m.workExperiences[resumeID] = append(m.workExperiences[resumeID], rows...)
	return ids, nil
}

// AttachEducation inserts education entries.
func (m *MemoryRepo) AttachEducation(ctx context.Context, resumeID string, items []EducationRecord) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.resumes[resumeID]; !ok {
		return nil, ErrNotFound
	}
	ids := make([]string, 0, len(items))
	rows := make([]educationRow, 0, len(items))
	for _, ed := range items {
		id := uuid.NewString()
		rows = append(rows, educationRow{
			ID:             id,
			GraduationDate: ParseDate(ed.GraduationDate),
			Record:         ed,
		})
		ids = append(ids, id)
	}
	m.education[resumeID] = append(m.education[resumeID], rows...)
	return ids, nil
}

// AttachSkills inserts skill entries.
func (m *MemoryRepo) AttachSkills(ctx context.Context, resumeID string, skills []SkillRecord) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.resumes[resumeID]; !ok {
		return nil, ErrNotFound
	}
	ids := make([]string, 0, len(skills))
	rows := make([]skillRow, 0, len(skills))
	for _, sk := range skills {
		id := uuid.NewString()
		rows = append(rows, skillRow{ID: id, Record: sk})
		ids = append(ids, id)
	}
	m.skills[resumeID] = append(m.skills[resumeID], rows...)
	return ids, nil
}

// AddAIAnalysis inserts one analysis run.
func (m *MemoryRepo) AddAIAnalysis(ctx context.Context, resumeID string, analysis AIAnalysisRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.resumes[resumeID]; !ok {
		return "", ErrNotFound
	}
	id := uuid.NewString()
	m.analyses[resumeID] = append(m.analyses[resumeID], analysisRow{ID: id, Record: analysis})
	return id, nil
}

// AddResumeJobMatch inserts one match result.
func (m *MemoryRepo) AddResumeJobMatch(ctx context.Context, resumeID string, match JobMatchRecord) (string, error) {
	if match.JobTitle == "" {
		return "", fmt.Errorf("%w: job_title is required", ErrInvalidInput)
	}
	if match.JobDescription == "" {
		return "", fmt.Errorf("%w: job_description is required", ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.resumes[resumeID]; !ok {
		return "", ErrNotFound
	}
	id := uuid.NewString()
	m.jobMatches[resumeID] = append(m.jobMatches[resumeID], jobMatchRow{ID: id, Record: match})
	return id, nil
}

// GetResumeByID returns the root record or ErrNotFound.
func (m *MemoryRepo) GetResumeByID(ctx context.Context, resumeID string) (Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res, ok := m.resumes[resumeID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return res, nil
}

// SearchResumesByKeyword performs a case-insensitive substring match over
// raw text, newest upload first.
func (m *MemoryRepo) SearchResumesByKeyword(ctx context.Context, keyword string, limit int) ([]ResumeSummary, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(keyword)
	var matched []Resume
	for _, res := range m.resumes {
		if strings.Contains(strings.ToLower(res.RawText), needle) {
			matched = append(matched, res)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].UploadedAt.Equal(matched[j].UploadedAt) {
			return matched[i].UploadedAt.After(matched[j].UploadedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]ResumeSummary, 0, len(matched))
	for _, res := range matched {
		out = append(out, ResumeSummary{ID: res.ID, FileName: res.FileName})
	}
	return out, nil
}

// DeleteResume removes the root record and cascades to every child row.
func (m *MemoryRepo) DeleteResume(ctx context.Context, resumeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.resumes[resumeID]
	if !ok {
		return ErrNotFound
	}
	delete(m.resumes, resumeID)
	delete(m.hashes, res.FileHash)
	delete(m.personInfo, resumeID)
	delete(m.workExperiences, resumeID)
	delete(m.education, resumeID)
	delete(m.skills, resumeID)
	delete(m.analyses, resumeID)
	delete(m.jobMatches, resumeID)
	return nil
}

// ChildCounts reports how many child rows exist per table for a resume.
// Used by tests to verify cascade deletion.
func (m *MemoryRepo) ChildCounts(resumeID string) map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]int{
		"person_info":        len(m.personInfo[resumeID]),
		"work_experience":    len(m.workExperiences[resumeID]),
		"education":          len(m.education[resumeID]),
		"skills":             len(m.skills[resumeID]),
		"ai_analysis":        len(m.analyses[resumeID]),
		"resume_job_matches": len(m.jobMatches[resumeID]),
	}
}

var _ Repo = (*MemoryRepo)(nil)
