package api

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"resume-store/internal/extract"
	"resume-store/internal/match"
	"resume-store/internal/parse"
	"resume-store/internal/resumes"
	"resume-store/internal/shared/metrics"
	"resume-store/internal/shared/storage/object"
	"resume-store/internal/shared/telemetry"
	"resume-store/internal/shared/util"
)

// Service orchestrates upload, retrieval, matching, and analysis flows on
// top of the resume store. Each store call remains its own unit of work, so
// an interrupted upload can leave a resume with only some child types
// attached; that is a valid intermediate state.
type Service struct {
	Store   resumes.Repo
	Matcher match.Matcher

	// Archive keeps the original uploaded bytes alongside the parsed
	// records. Optional; nil disables archiving.
	Archive object.ObjectStore
}

// NewService constructs a Service.
func NewService(store resumes.Repo, matcher match.Matcher) *Service {
	return &Service{Store: store, Matcher: matcher}
}

// UploadOutcome reports the persisted resume.
type UploadOutcome struct {
	ResumeID string
	FileName string
	Status   string
}

// MatchOutcome reports one persisted match run.
type MatchOutcome struct {
	MatchID        string
	Score          int
	Confidence     float64
	Recommendation string
	CategoryScores map[string]any
	StrengthAreas  []string
	GapAnalysis    map[string]any
}

// Upload extracts text from the payload, parses structured data, creates
// the resume, and attaches the parsed child records.
func (s *Service) Upload(ctx context.Context, fileName, declaredType string, data []byte) (out UploadOutcome, err error) {
	start := time.Now()
	metrics.IncUploadStarted()
	defer func() {
		if err != nil {
			metrics.IncUploadFailed()
			return
		}
		metrics.IncUploadCompleted()
		metrics.ObserveUploadDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if strings.TrimSpace(fileName) == "" || len(data) == 0 {
		return UploadOutcome{}, fmt.Errorf("%w: file is required", resumes.ErrInvalidInput)
	}

	text, err := extract.TextFromBytes(data, declaredType, fileName)
	if err != nil {
		return UploadOutcome{}, err
	}

	parsed := parse.Document(text)
	fileHash := util.HashContent(data)

	metadata := map[string]any{"parser": "heuristic_v1"}
	if s.Archive != nil {
		key, _, _, archiveErr := s.Archive.Save(ctx, fileHash, fileName, bytes.NewReader(data))
		if archiveErr != nil {
			telemetry.Warn("resume.archive_failed", map[string]any{
				"file_name": fileName,
				"error":     archiveErr.Error(),
			})
		} else {
			metadata["storage_key"] = key
		}
	}

	resumeID, err := s.Store.CreateResume(ctx, resumes.NewResume{
		FileName:       fileName,
		FileSize:       int64(len(data)),
		FileType:       extract.NormalizeMimeType(declaredType, fileName, data),
		FileHash:       fileHash,
		RawText:        text,
		StructuredData: parsed.Structured,
		Metadata:       metadata,
	})
	if err != nil {
		return UploadOutcome{}, err
	}

	if hasPersonInfo(parsed.Person) {
		if _, err := s.Store.AttachPersonInfo(ctx, resumeID, parsed.Person); err != nil {
			return UploadOutcome{}, err
		}
	}
	if len(parsed.WorkExperiences) > 0 {
		if _, err := s.Store.AttachWorkExperiences(ctx, resumeID, parsed.WorkExperiences); err != nil {
			return UploadOutcome{}, err
		}
	}
	if len(parsed.Education) > 0 {
		if _, err := s.Store.AttachEducation(ctx, resumeID, parsed.Education); err != nil {
			return UploadOutcome{}, err
		}
	}
	if len(parsed.Skills) > 0 {
		if _, err := s.Store.AttachSkills(ctx, resumeID, parsed.Skills); err != nil {
			return UploadOutcome{}, err
		}
	}

	telemetry.Info("resume.uploaded", map[string]any{
		"resume_id":   resumeID,
		"file_name":   fileName,
		"size_bytes":  len(data),
		"skills":      len(parsed.Skills),
		"experiences": len(parsed.WorkExperiences),
	})

	return UploadOutcome{ResumeID: resumeID, FileName: fileName, Status: resumes.StatusProcessed}, nil
}

// Get returns the root resume record.
func (s *Service) Get(ctx context.Context, resumeID string) (resumes.Resume, error) {
	return s.Store.GetResumeByID(ctx, resumeID)
}

// Match scores the stored resume against a job description and persists the
// outcome as one match record.
func (s *Service) Match(ctx context.Context, resumeID, jobTitle, companyName, jobDescription string) (MatchOutcome, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return MatchOutcome{}, fmt.Errorf("%w: job_description is required", resumes.ErrInvalidInput)
	}

	res, err := s.Store.GetResumeByID(ctx, resumeID)
	if err != nil {
		return MatchOutcome{}, err
	}

	scored, err := s.Matcher.Match(ctx, res.RawText, jobDescription)
	if err != nil {
		return MatchOutcome{}, err
	}

	if strings.TrimSpace(jobTitle) == "" {
		jobTitle = resumes.UnknownLabel
	}

	score := scored.OverallScore
	confidence := scored.Confidence
	matchID, err := s.Store.AddResumeJobMatch(ctx, resumeID, resumes.JobMatchRecord{
		JobTitle:           jobTitle,
		CompanyName:        companyName,
		JobDescription:     jobDescription,
		OverallScore:       &score,
		ConfidenceScore:    &confidence,
		Recommendation:     scored.Recommendation,
		CategoryScores:     scored.CategoryScores,
		StrengthAreas:      scored.StrengthAreas,
		GapAnalysis:        scored.GapAnalysis,
		Explanation:        scored.Explanation,
		ProcessingMetadata: map[string]any{"matcher": "keyword_v1"},
	})
	if err != nil {
		return MatchOutcome{}, err
	}

	metrics.IncMatchCompleted()
	telemetry.Info("resume.matched", map[string]any{
		"resume_id":      resumeID,
		"match_id":       matchID,
		"score":          score,
		"recommendation": scored.Recommendation,
	})

	return MatchOutcome{
		MatchID:        matchID,
		Score:          score,
		Confidence:     confidence,
		Recommendation: scored.Recommendation,
		CategoryScores: scored.CategoryScores,
		StrengthAreas:  scored.StrengthAreas,
		GapAnalysis:    scored.GapAnalysis,
	}, nil
}

// AddAnalysis persists an externally computed AI analysis run.
func (s *Service) AddAnalysis(ctx context.Context, resumeID string, analysis resumes.AIAnalysisRecord) (string, error) {
	return s.Store.AddAIAnalysis(ctx, resumeID, analysis)
}

// Search runs the keyword search.
func (s *Service) Search(ctx context.Context, keyword string, limit int) ([]resumes.ResumeSummary, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, fmt.Errorf("%w: keyword is required", resumes.ErrInvalidInput)
	}
	return s.Store.SearchResumesByKeyword(ctx, keyword, limit)
}

// Delete removes a resume and, by cascade, all its child records.
func (s *Service) Delete(ctx context.Context, resumeID string) error {
	return s.Store.DeleteResume(ctx, resumeID)
}

func hasPersonInfo(p resumes.PersonInfoRecord) bool {
	return p.FullName != "" || p.Email != "" || p.Phone != ""
}
