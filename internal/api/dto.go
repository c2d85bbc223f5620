package api

import (
	"time"

	"resume-store/internal/resumes"
)

type uploadResponse struct {
	ResumeID string `json:"resume_id"`
	FileName string `json:"file_name"`
	Status   string `json:"processing_status"`
}

// resumeResponse is the outward-facing shape of a stored resume. The
// structured payload is exposed as extracted_data.
type resumeResponse struct {
	ResumeID         string         `json:"resume_id"`
	FileName         string         `json:"file_name"`
	FileSize         int64          `json:"file_size"`
	FileType         string         `json:"file_type"`
	FileHash         string         `json:"file_hash"`
	UploadedAt       time.Time      `json:"uploaded_at"`
	ProcessedAt      *time.Time     `json:"processed_at,omitempty"`
	ProcessingStatus string         `json:"processing_status"`
	RawText          string         `json:"raw_text,omitempty"`
	ExtractedData    map[string]any `json:"extracted_data"`
	AIEnhancements   map[string]any `json:"ai_enhancements,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func toResumeResponse(res resumes.Resume) resumeResponse {
	extracted := res.StructuredData
	if extracted == nil {
		extracted = map[string]any{}
	}
	return resumeResponse{
		ResumeID:         res.ID,
		FileName:         res.FileName,
		FileSize:         res.FileSize,
		FileType:         res.FileType,
		FileHash:         res.FileHash,
		UploadedAt:       res.UploadedAt,
		ProcessedAt:      res.ProcessedAt,
		ProcessingStatus: res.ProcessingStatus,
		RawText:          res.RawText,
		ExtractedData:    extracted,
		AIEnhancements:   res.AIEnhancements,
		Metadata:         res.Metadata,
		CreatedAt:        res.CreatedAt,
		UpdatedAt:        res.UpdatedAt,
	}
}

type matchRequest struct {
	JobTitle       string `json:"job_title"`
	CompanyName    string `json:"company_name"`
	JobDescription string `json:"job_description"`
}

type matchResponse struct {
	MatchID        string         `json:"match_id"`
	Score          int            `json:"score"`
	Confidence     float64        `json:"confidence"`
	Recommendation string         `json:"recommendation"`
	CategoryScores map[string]any `json:"category_scores,omitempty"`
	StrengthAreas  []string       `json:"strength_areas,omitempty"`
	GapAnalysis    map[string]any `json:"gap_analysis,omitempty"`
}

func toMatchResponse(out MatchOutcome) matchResponse {
	return matchResponse{
		MatchID:        out.MatchID,
		Score:          out.Score,
		Confidence:     out.Confidence,
		Recommendation: out.Recommendation,
		CategoryScores: out.CategoryScores,
		StrengthAreas:  out.StrengthAreas,
		GapAnalysis:    out.GapAnalysis,
	}
}

type analysisResponse struct {
	AnalysisID string `json:"analysis_id"`
	ResumeID   string `json:"resume_id"`
}

type searchResponse struct {
	Results []resumes.ResumeSummary `json:"results"`
	Count   int                     `json:"count"`
}
