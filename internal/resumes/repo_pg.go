package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	defaultSearchLimit = 25
	maxSearchLimit     = 100
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// CreateResume inserts the root record. Status and processed_at follow the
// structured-data rule: a resume created with structured data is already
// processed; otherwise it starts pending.
func (r *PGRepo) CreateResume(ctx context.Context, in NewResume) (string, error) {
	const query = `
INSERT INTO resumes (
    file_name,
    file_size,
    file_type,
    file_hash,
    processing_status,
    processed_at,
    raw_text,
    structured_data,
    ai_enhancements,
    metadata
) VALUES ($1, $2, $3, $4, $5, CASE WHEN $5 = 'processed' THEN now() END, $6, $7, NULL, $8)
RETURNING id`

	status := StatusPending
	if len(in.StructuredData) > 0 {
		status = StatusProcessed
	}

	structured, err := marshalJSONB(emptyIfNil(in.StructuredData))
	if err != nil {
		return "", err
	}
	metadata, err := marshalJSONB(emptyIfNil(in.Metadata))
	if err != nil {
		return "", err
	}

	var id string
	err = r.DB.QueryRowContext(ctx, query,
		in.FileName,
		in.FileSize,
		in.FileType,
		in.FileHash,
		status,
		nullString(in.RawText),
		structured,
		metadata,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w: file_hash %s", ErrDuplicateHash, in.FileHash)
		}
		return "", err
	}
	return id, nil
}

// AttachPersonInfo inserts one contact block for a resume.
func (r *PGRepo) AttachPersonInfo(ctx context.Context, resumeID string, person PersonInfoRecord) (string, error) {
	const query = `
INSERT INTO person_info (
    resume_id, full_name, first_name, last_name, email, phone, address, social_links
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`

	address, err := marshalJSONB(person.Address)
	if err != nil {
		return "", err
	}
	socialLinks, err := marshalJSONB(person.SocialLinks)
	if err != nil {
		return "", err
	}

	var id string
	err = r.DB.QueryRowContext(ctx, query,
		resumeID,
		nullString(person.FullName),
		nullString(person.FirstName),
		nullString(person.LastName),
		nullString(person.Email),
		nullString(person.Phone),
		address,
		socialLinks,
	).Scan(&id)
	if err != nil {
		return "", childInsertErr(err, resumeID)
	}
	return id, nil
}

// AttachWorkExperiences inserts the batch in input order within one
// transaction. Each row's ID is read back as it is inserted; any failure
// rolls back every row of the batch.
func (r *PGRepo) AttachWorkExperiences(ctx context.Context, resumeID string, experiences []WorkExperienceRecord) ([]string, error) {
	const query = `
INSERT INTO work_experience (
    resume_id, job_title, company_name, location, start_date, end_date,
    is_current, description, achievements, technologies
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id`

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ids := make([]string, 0, len(experiences))
	for _, exp := range experiences {
		var id string
		err := tx.QueryRowContext(ctx, query,
			resumeID,
			exp.ResolvedJobTitle(),
			exp.ResolvedCompanyName(),
			nullString(exp.Location),
			ParseDate(exp.StartDate),
			ParseDate(exp.EndDate),
			exp.IsCurrent,
			nullString(exp.Description),
			textArray(exp.Achievements),
			textArray(exp.Technologies),
		).Scan(&id)
		if err != nil {
			return nil, childInsertErr(err, resumeID)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// AttachEducation inserts education entries with the same batch contract as
// AttachWorkExperiences.
func (r *PGRepo) AttachEducation(ctx context.Context, resumeID string, items []EducationRecord) ([]string, error) {
	const query = `
INSERT INTO education (
    resume_id, degree, field_of_study, institution, location, graduation_date, gpa, honors
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ids := make([]string, 0, len(items))
	for _, ed := range items {
		var id string
		err := tx.QueryRowContext(ctx, query,
			resumeID,
			nullString(ed.Degree),
			nullString(ed.FieldOfStudy),
			nullString(ed.Institution),
			nullString(ed.Location),
			ParseDate(ed.GraduationDate),
			ed.GPA,
			textArray(ed.Honors),
		).Scan(&id)
		if err != nil {
			return nil, childInsertErr(err, resumeID)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// AttachSkills inserts skill entries with the same batch contract as
// AttachWorkExperiences.
func (r *PGRepo) AttachSkills(ctx context.Context, resumeID string, skills []SkillRecord) ([]string, error) {
	const query = `
INSERT INTO skills (
    resume_id, skill_name, skill_category, proficiency_level, years_of_experience, is_primary
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ids := make([]string, 0, len(skills))
	for _, sk := range skills {
		var id string
		err := tx.QueryRowContext(ctx, query,
			resumeID,
			sk.SkillName,
			nullString(sk.SkillCategory),
			nullString(sk.ProficiencyLevel),
			sk.YearsOfExperience,
			sk.IsPrimary,
		).Scan(&id)
		if err != nil {
			return nil, childInsertErr(err, resumeID)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// AddAIAnalysis inserts one analysis run.
func (r *PGRepo) AddAIAnalysis(ctx context.Context, resumeID string, analysis AIAnalysisRecord) (string, error) {
	const query = `
INSERT INTO ai_analysis (
    resume_id, quality_score, completeness_score, industry_classifications,
    career_level, salary_estimate, suggestions, confidence_scores
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`

	industries, err := marshalJSONB(analysis.IndustryClassifications)
	if err != nil {
		return "", err
	}
	salary, err := marshalJSONB(analysis.SalaryEstimate)
	if err != nil {
		return "", err
	}
	confidence, err := marshalJSONB(analysis.ConfidenceScores)
	if err != nil {
		return "", err
	}

	var id string
	err = r.DB.QueryRowContext(ctx, query,
		resumeID,
		analysis.QualityScore,
		analysis.CompletenessScore,
		industries,
		nullString(analysis.CareerLevel),
		salary,
		textArray(analysis.Suggestions),
		confidence,
	).Scan(&id)
	if err != nil {
		return "", childInsertErr(err, resumeID)
	}
	return id, nil
}

// AddResumeJobMatch inserts one match result. Job title and description are
// required; the rest of the record is optional.
func (r *PGRepo) AddResumeJobMatch(ctx context.Context, resumeID string, match JobMatchRecord) (string, error) {
	if match.JobTitle == "" {
		return "", fmt.Errorf("%w: job_title is required", ErrInvalidInput)
	}
	if match.JobDescription == "" {
		return "", fmt.Errorf("%w: job_description is required", ErrInvalidInput)
	}

	const query = `
INSERT INTO resume_job_matches (
    resume_id, job_title, company_name, job_description, job_requirements,
    overall_score, confidence_score, recommendation, category_scores,
    strength_areas, gap_analysis, salary_alignment, competitive_advantages,
    explanation, processing_metadata
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING id`

	requirements, err := marshalJSONB(match.JobRequirements)
	if err != nil {
		return "", err
	}
	categoryScores, err := marshalJSONB(match.CategoryScores)
	if err != nil {
		return "", err
	}
	gapAnalysis, err := marshalJSONB(match.GapAnalysis)
	if err != nil {
		return "", err
	}
	salaryAlignment, err := marshalJSONB(match.SalaryAlignment)
	if err != nil {
		return "", err
	}
	explanation, err := marshalJSONB(match.Explanation)
	if err != nil {
		return "", err
	}
	processingMeta, err := marshalJSONB(match.ProcessingMetadata)
	if err != nil {
		return "", err
	}

	var id string
	err = r.DB.QueryRowContext(ctx, query,
		resumeID,
		match.JobTitle,
		nullString(match.CompanyName),
		match.JobDescription,
		requirements,
		match.OverallScore,
		match.ConfidenceScore,
		nullString(match.Recommendation),
		categoryScores,
		textArray(match.StrengthAreas),
		gapAnalysis,
		salaryAlignment,
		textArray(match.CompetitiveAdvantages),
		explanation,
		processingMeta,
	).Scan(&id)
	if err != nil {
		return "", childInsertErr(err, resumeID)
	}
	return id, nil
}

// GetResumeByID returns the root record only. Children are never joined in.
func (r *PGRepo) GetResumeByID(ctx context.Context, resumeID string) (Resume, error) {
	const query = `
SELECT id, file_name, file_size, file_type, file_hash, uploaded_at, processed_at,
       processing_status, raw_text, structured_data, ai_enhancements, metadata,
       created_at, updated_at
FROM resumes
WHERE id = $1
LIMIT 1`

	var res Resume
	var processedAt sql.NullTime
	var rawText sql.NullString
	var structured, enhancements, metadata sql.NullString
	err := r.DB.QueryRowContext(ctx, query, resumeID).Scan(
		&res.ID,
		&res.FileName,
		&res.FileSize,
		&res.FileType,
		&res.FileHash,
		&res.UploadedAt,
		&processedAt,
		&res.ProcessingStatus,
		&rawText,
		&structured,
		&enhancements,
		&metadata,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	if processedAt.Valid {
		res.ProcessedAt = &processedAt.Time
	}
	if rawText.Valid {
		res.RawText = rawText.String
	}
	if res.StructuredData, err = unmarshalJSONB(structured); err != nil {
		return Resume{}, err
	}
	if res.AIEnhancements, err = unmarshalJSONB(enhancements); err != nil {
		return Resume{}, err
	}
	if res.Metadata, err = unmarshalJSONB(metadata); err != nil {
		return Resume{}, err
	}
	return res, nil
}

// SearchResumesByKeyword matches case-insensitively against raw text.
// Results are ordered newest upload first with ID as tiebreaker so the
// ordering is stable across engines.
func (r *PGRepo) SearchResumesByKeyword(ctx context.Context, keyword string, limit int) ([]ResumeSummary, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	const query = `
SELECT id, file_name
FROM resumes
WHERE raw_text ILIKE '%' || $1 || '%'
ORDER BY uploaded_at DESC, id
LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, keyword, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResumeSummary
	for rows.Next() {
		var s ResumeSummary
		if err := rows.Scan(&s.ID, &s.FileName); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteResume removes the root record; every child row referencing it is
// removed by the schema's cascade.
func (r *PGRepo) DeleteResume(ctx context.Context, resumeID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, resumeID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalJSONB(m map[string]any) (any, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func unmarshalJSONB(raw sql.NullString) (map[string]any, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw.String), &m); err != nil {
		return nil, err
	}
	return m, nil
}

func emptyIfNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func textArray(ss []string) any {
	if ss == nil {
		return nil
	}
	return pq.Array(ss)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" // unique_violation
}

// childInsertErr maps a foreign-key violation on a child insert to
// ErrNotFound: the only FK on child tables points at the parent resume.
func childInsertErr(err error, resumeID string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
		return fmt.Errorf("%w: resume %s", ErrNotFound, resumeID)
	}
	return err
}

var _ Repo = (*PGRepo)(nil)
