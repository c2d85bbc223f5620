package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-store/internal/match"
	"resume-store/internal/resumes"
)

const sampleResumeText = `John Doe
john@example.com
+1 (555) 123-4567

Skills: Python, Go, AWS, Docker

Experience
2020 - 2022 Software Engineer at Acme Corp
2018 - 2020 Backend Developer at Initech

Education
2014 - 2018 Bachelor of Science in Computer Science, State University
`

func setupResumeRouter(t *testing.T) (*gin.Engine, *resumes.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := resumes.NewMemoryRepo()
	handler := NewHandler(NewService(repo, match.KeywordMatcher{}))
	router := gin.New()
	handler.RegisterRoutes(router)
	return router, repo
}

func uploadFile(t *testing.T, router *gin.Engine, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeJSON(t *testing.T, resp *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestUploadAndFetchResume(t *testing.T) {
	router, _ := setupResumeRouter(t)

	resp := uploadFile(t, router, "resume.txt", []byte(sampleResumeText))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		ResumeID string `json:"resume_id"`
		FileName string `json:"file_name"`
		Status   string `json:"processing_status"`
	}
	decodeJSON(t, resp, &created)
	if created.ResumeID == "" {
		t.Fatalf("expected resume_id, got empty")
	}
	if created.Status != resumes.StatusProcessed {
		t.Fatalf("expected status processed, got %q", created.Status)
	}

	req := httptest.NewRequest(http.MethodGet, "/resume/"+created.ResumeID, nil)
	fetch := httptest.NewRecorder()
	router.ServeHTTP(fetch, req)
	if fetch.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", fetch.Code)
	}

	var fetched struct {
		ResumeID      string         `json:"resume_id"`
		FileName      string         `json:"file_name"`
		ExtractedData map[string]any `json:"extracted_data"`
	}
	decodeJSON(t, fetch, &fetched)
	if fetched.ResumeID != created.ResumeID {
		t.Fatalf("expected resume_id %q, got %q", created.ResumeID, fetched.ResumeID)
	}
	if fetched.FileName != "resume.txt" {
		t.Fatalf("expected file_name resume.txt, got %q", fetched.FileName)
	}
	if fetched.ExtractedData == nil {
		t.Fatalf("expected extracted_data, got nil")
	}
	if got := fetched.ExtractedData["email"]; got != "john@example.com" {
		t.Fatalf("expected email john@example.com, got %v", got)
	}
}

func TestUploadDuplicateContentConflicts(t *testing.T) {
	router, _ := setupResumeRouter(t)

	if resp := uploadFile(t, router, "resume.txt", []byte(sampleResumeText)); resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	resp := uploadFile(t, router, "renamed.txt", []byte(sampleResumeText))
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeJSON(t, resp, &body)
	if body.Error.Code != "duplicate_resume" {
		t.Fatalf("expected code duplicate_resume, got %q", body.Error.Code)
	}
}

func TestUploadUnsupportedFileType(t *testing.T) {
	router, _ := setupResumeRouter(t)

	png := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, []byte("not a resume")...)
	resp := uploadFile(t, router, "photo.png", png)
	if resp.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected status 415, got %d", resp.Code)
	}
}

func TestUploadMissingFile(t *testing.T) {
	router, _ := setupResumeRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestGetResumeNotFound(t *testing.T) {
	router, _ := setupResumeRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/resume/4f9f1f9e-0000-0000-0000-000000000000", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestMatchResume(t *testing.T) {
	router, _ := setupResumeRouter(t)

	created := uploadFile(t, router, "resume.txt", []byte(sampleResumeText))
	var up struct {
		ResumeID string `json:"resume_id"`
	}
	decodeJSON(t, created, &up)

	payload := map[string]string{
		"job_title":       "Software Engineer",
		"job_description": "Looking for a software engineer with Python, AWS and Docker experience.",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/match/"+up.ResumeID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var matched struct {
		MatchID        string  `json:"match_id"`
		Score          int     `json:"score"`
		Confidence     float64 `json:"confidence"`
		Recommendation string  `json:"recommendation"`
	}
	decodeJSON(t, resp, &matched)
	if matched.MatchID == "" {
		t.Fatalf("expected match_id, got empty")
	}
	if matched.Score <= 0 || matched.Score > 100 {
		t.Fatalf("expected score in (0,100], got %d", matched.Score)
	}
	if matched.Recommendation == "" {
		t.Fatalf("expected recommendation, got empty")
	}
}

func TestMatchRequiresJobDescription(t *testing.T) {
	router, _ := setupResumeRouter(t)

	created := uploadFile(t, router, "resume.txt", []byte(sampleResumeText))
	var up struct {
		ResumeID string `json:"resume_id"`
	}
	decodeJSON(t, created, &up)

	req := httptest.NewRequest(http.MethodPost, "/match/"+up.ResumeID, bytes.NewReader([]byte(`{"job_title":"Engineer"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestMatchResumeNotFound(t *testing.T) {
	router, _ := setupResumeRouter(t)

	body := []byte(`{"job_description":"Looking for a Go engineer."}`)
	req := httptest.NewRequest(http.MethodPost, "/match/4f9f1f9e-0000-0000-0000-000000000000", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestAddAnalysis(t *testing.T) {
	router, _ := setupResumeRouter(t)

	created := uploadFile(t, router, "resume.txt", []byte(sampleResumeText))
	var up struct {
		ResumeID string `json:"resume_id"`
	}
	decodeJSON(t, created, &up)

	body := []byte(`{"quality_score":82,"career_level":"senior","suggestions":["add metrics"]}`)
	req := httptest.NewRequest(http.MethodPost, "/resume/"+up.ResumeID+"/analysis", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var out struct {
		AnalysisID string `json:"analysis_id"`
		ResumeID   string `json:"resume_id"`
	}
	decodeJSON(t, resp, &out)
	if out.AnalysisID == "" {
		t.Fatalf("expected analysis_id, got empty")
	}
	if out.ResumeID != up.ResumeID {
		t.Fatalf("expected resume_id %q, got %q", up.ResumeID, out.ResumeID)
	}
}

func TestSearchResumes(t *testing.T) {
	router, _ := setupResumeRouter(t)

	created := uploadFile(t, router, "resume.txt", []byte(sampleResumeText))
	var up struct {
		ResumeID string `json:"resume_id"`
	}
	decodeJSON(t, created, &up)

	req := httptest.NewRequest(http.MethodGet, "/resumes/search?q=john", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var out struct {
		Results []struct {
			ID       string `json:"id"`
			FileName string `json:"file_name"`
		} `json:"results"`
		Count int `json:"count"`
	}
	decodeJSON(t, resp, &out)
	if out.Count != 1 || len(out.Results) != 1 {
		t.Fatalf("expected 1 result, got count=%d len=%d", out.Count, len(out.Results))
	}
	if out.Results[0].ID != up.ResumeID {
		t.Fatalf("expected result id %q, got %q", up.ResumeID, out.Results[0].ID)
	}
}

func TestSearchRequiresKeyword(t *testing.T) {
	router, _ := setupResumeRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/resumes/search", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestDeleteResumeCascades(t *testing.T) {
	router, repo := setupResumeRouter(t)

	created := uploadFile(t, router, "resume.txt", []byte(sampleResumeText))
	var up struct {
		ResumeID string `json:"resume_id"`
	}
	decodeJSON(t, created, &up)

	if counts := repo.ChildCounts(up.ResumeID); counts["skills"] == 0 {
		t.Fatalf("expected skills to be attached before delete, got %v", counts)
	}

	req := httptest.NewRequest(http.MethodDelete, "/resume/"+up.ResumeID, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}

	for table, count := range repo.ChildCounts(up.ResumeID) {
		if count != 0 {
			t.Fatalf("expected %s rows to cascade, got %d", table, count)
		}
	}

	fetch := httptest.NewRecorder()
	router.ServeHTTP(fetch, httptest.NewRequest(http.MethodGet, "/resume/"+up.ResumeID, nil))
	if fetch.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 after delete, got %d", fetch.Code)
	}

	again := httptest.NewRecorder()
	router.ServeHTTP(again, httptest.NewRequest(http.MethodDelete, "/resume/"+up.ResumeID, nil))
	if again.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 on repeat delete, got %d", again.Code)
	}
}
