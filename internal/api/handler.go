package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-store/internal/extract"
	"resume-store/internal/resumes"
	"resume-store/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/upload", h.upload)
	r.GET("/resume/:id", h.get)
	r.DELETE("/resume/:id", h.delete)
	r.POST("/resume/:id/analysis", h.addAnalysis)
	r.POST("/match/:id", h.match)
	r.GET("/resumes/search", h.search)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	declaredType := fileHeader.Header.Get("Content-Type")
	out, err := h.Svc.Upload(c.Request.Context(), fileHeader.Filename, declaredType, data)
	if err != nil {
		h.respondError(c, err, "failed to upload resume")
		return
	}

	c.Set("resumeId", out.ResumeID)
	respond.Created(c, uploadResponse{
		ResumeID: out.ResumeID,
		FileName: out.FileName,
		Status:   out.Status,
	})
}

func (h *Handler) get(c *gin.Context) {
	res, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to fetch resume")
		return
	}
	respond.OK(c, toResumeResponse(res))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete resume")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) addAnalysis(c *gin.Context) {
	var record resumes.AIAnalysisRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	resumeID := c.Param("id")
	analysisID, err := h.Svc.AddAnalysis(c.Request.Context(), resumeID, record)
	if err != nil {
		h.respondError(c, err, "failed to store analysis")
		return
	}

	respond.Created(c, analysisResponse{AnalysisID: analysisID, ResumeID: resumeID})
}

func (h *Handler) match(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	out, err := h.Svc.Match(c.Request.Context(), c.Param("id"), req.JobTitle, req.CompanyName, req.JobDescription)
	if err != nil {
		h.respondError(c, err, "failed to match resume")
		return
	}

	c.Set("matchId", out.MatchID)
	respond.OK(c, toMatchResponse(out))
}

func (h *Handler) search(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be an integer", nil)
			return
		}
		limit = parsed
	}

	results, err := h.Svc.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.respondError(c, err, "failed to search resumes")
		return
	}
	if results == nil {
		results = []resumes.ResumeSummary{}
	}

	respond.OK(c, searchResponse{Results: results, Count: len(results)})
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, resumes.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, resumes.ErrDuplicateHash):
		respond.Error(c, http.StatusConflict, "duplicate_resume", "a resume with identical content already exists", nil)
	case errors.Is(err, resumes.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, extract.ErrUnsupported):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_media_type", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
