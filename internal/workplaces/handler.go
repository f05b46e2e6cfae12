package workplaces

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"careergap/internal/export"
	"careergap/internal/records"
	"careergap/internal/shared/server/middleware"
	"careergap/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the workplaces service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the stored-workplace routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/workplaces", h.list)
	rg.GET("/workplaces/:id", h.get)
	rg.GET("/workplaces/:id/export.xlsx", h.export)
}

// RegisterAnalysisRoutes attaches the routes that call the completion
// service; the router puts them behind the stricter rate limit.
func (h *Handler) RegisterAnalysisRoutes(rg *gin.RouterGroup) {
	rg.POST("/analysis/generate", h.generate)
	rg.POST("/workplaces/:id/reanalyze", h.reanalyze)
	rg.POST("/ai/skill-gap", h.skillGap)
}

type generateRequest struct {
	Name             string `json:"name" validate:"max=200"`
	ResumeID         string `json:"resumeId"`
	JobDescriptionID string `json:"jobDescriptionId"`
}

func (h *Handler) generate(c *gin.Context) {
	var req generateRequest
	if c.Request.ContentLength != 0 {
		if !respond.BindJSON(c, &req) {
			return
		}
	}
	result, err := h.Svc.Generate(c.Request.Context(), GenerateInput{
		UserID:           middleware.UserIDFromContext(c),
		Name:             req.Name,
		ResumeID:         req.ResumeID,
		JobDescriptionID: req.JobDescriptionID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Created(c, resultBody(result))
}

func (h *Handler) reanalyze(c *gin.Context) {
	result, err := h.Svc.Reanalyze(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, resultBody(result))
}

func resultBody(r Result) gin.H {
	return gin.H{
		"workplace":            r.Workplace,
		"resume_data":          r.Resume,
		"job_description_data": r.Job,
		"gap_analysis":         r.Outcome.Document,
		"outcome":              r.Outcome,
	}
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), DefaultListLimit)
	if err != nil {
		respond.Internal(c, err)
		return
	}
	out := make([]Summary, 0, len(list))
	for _, w := range list {
		out = append(out, w.Summary())
	}
	respond.OK(c, gin.H{"workplaces": out})
}

func (h *Handler) get(c *gin.Context) {
	w, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, gin.H{"workplace": w})
}

func (h *Handler) export(c *gin.Context) {
	var buf bytes.Buffer
	id := c.Param("id")
	if err := h.Svc.Export(c.Request.Context(), middleware.UserIDFromContext(c), id, &buf); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="workplace-%s.xlsx"`, id))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

type skillGapRequest struct {
	Resume records.Record `json:"resume"`
	Job    records.Record `json:"job"`
}

func (h *Handler) skillGap(c *gin.Context) {
	var req skillGapRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	if len(req.Resume) == 0 || len(req.Job) == 0 {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "Missing resume or job data", nil)
		return
	}
	outcome := h.Svc.AnalyzeInline(c.Request.Context(), req.Resume, req.Job)
	respond.OK(c, gin.H{
		"analysis": outcome.Document,
		"outcome":  outcome,
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "Workplace not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, respond.CodeForbidden, "Access denied", nil)
	case errors.Is(err, ErrNoResume):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "No resume found. Please upload a resume first.", nil)
	case errors.Is(err, ErrNoJob):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "No job description found. Please add a job description first.", nil)
	case errors.Is(err, ErrNoAnalysis):
		respond.Error(c, http.StatusConflict, respond.CodeConflict, "Workplace has no analysis yet", nil)
	default:
		respond.Internal(c, err)
	}
}
