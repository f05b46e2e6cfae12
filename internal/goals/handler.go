package goals

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"careergap/internal/shared/server/middleware"
	"careergap/internal/shared/server/respond"
	"careergap/internal/workplaces"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/workplaces/:id/goal", h.get)
	rg.DELETE("/workplaces/:id/goal", h.deactivate)
	rg.PUT("/workplaces/:id/goal/tasks/:taskId", h.setTask)
	rg.GET("/workplaces/:id/goal/tasks", h.completions)
	rg.GET("/workplaces/:id/goal/stats", h.stats)
}

// RegisterPlanRoutes attaches the route that may call the completion service.
func (h *Handler) RegisterPlanRoutes(rg *gin.RouterGroup) {
	rg.POST("/workplaces/:id/goal", h.create)
}

type createRequest struct {
	DurationDays int    `json:"duration_days" validate:"omitempty,min=1,max=90"`
	StartDate    string `json:"start_date"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if c.Request.ContentLength != 0 {
		if !respond.BindJSON(c, &req) {
			return
		}
	}
	g, err := h.Svc.Create(c.Request.Context(), CreateInput{
		UserID:       middleware.UserIDFromContext(c),
		WorkplaceID:  c.Param("id"),
		DurationDays: req.DurationDays,
		StartDate:    req.StartDate,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond.Created(c, gin.H{"goal": g})
}

func (h *Handler) get(c *gin.Context) {
	g, err := h.Svc.Active(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond.OK(c, gin.H{"goal": g})
}

func (h *Handler) deactivate(c *gin.Context) {
	if err := h.Svc.Deactivate(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type taskRequest struct {
	Date      string `json:"date" validate:"required"`
	Completed *bool  `json:"completed" validate:"required"`
}

func (h *Handler) setTask(c *gin.Context) {
	var req taskRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	done, err := h.Svc.SetTask(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Param("taskId"), req.Date, *req.Completed)
	if err != nil {
		fail(c, err)
		return
	}
	respond.OK(c, gin.H{"task": done})
}

func (h *Handler) completions(c *gin.Context) {
	list, err := h.Svc.Completions(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Query("start"), c.Query("end"))
	if err != nil {
		fail(c, err)
		return
	}
	respond.OK(c, gin.H{"completions": ByDate(list)})
}

func (h *Handler) stats(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond.OK(c, st)
}

func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidDuration), errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidTask):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "no active goal for this workplace", nil)
	case errors.Is(err, workplaces.ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "Workplace not found", nil)
	case errors.Is(err, workplaces.ErrForbidden):
		respond.Error(c, http.StatusForbidden, respond.CodeForbidden, "Access denied", nil)
	default:
		respond.Internal(c, err)
	}
}
