package jobs

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"careergap/internal/shared/server/middleware"
	"careergap/internal/shared/server/respond"
)

const maxTextLength = 50000

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs", h.create)
	rg.POST("/job-description/parse", h.create)
	rg.GET("/jobs", h.list)
	rg.GET("/job-descriptions", h.list)
	rg.GET("/jobs/:id", h.get)
	rg.DELETE("/jobs/:id", h.delete)
}

type createRequest struct {
	Title   string `json:"title" validate:"max=200"`
	Company string `json:"company" validate:"max=200"`
	Text    string `json:"text"`
	// JobDescription is accepted as an alias of Text.
	JobDescription string `json:"job_description"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	text := req.Text
	if strings.TrimSpace(text) == "" {
		text = req.JobDescription
	}
	if len(text) > maxTextLength {
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeTooLarge, "job description is too long", nil)
		return
	}

	j, err := h.Svc.Create(c.Request.Context(), CreateInput{
		UserID:  middleware.UserIDFromContext(c),
		Title:   req.Title,
		Company: req.Company,
		Text:    text,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
			return
		}
		respond.Internal(c, err)
		return
	}
	respond.Created(c, gin.H{
		"jobDescriptionId": j.ID,
		"text_length":      len(j.OriginalText),
		"parsed_data":      j.ParsedData,
	})
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), 50)
	if err != nil {
		respond.Internal(c, err)
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, j := range list {
		out = append(out, gin.H{
			"id":          j.ID,
			"title":       j.Title,
			"company":     j.Company,
			"skillsCount": len(j.ParsedData.TechnicalSkills),
			"createdAt":   j.CreatedAt,
		})
	}
	respond.OK(c, gin.H{"jobDescriptions": out})
}

func (h *Handler) get(c *gin.Context) {
	j, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "job description not found", nil)
			return
		}
		respond.Internal(c, err)
		return
	}
	respond.OK(c, j)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "job description not found", nil)
			return
		}
		respond.Internal(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
