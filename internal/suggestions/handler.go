package suggestions

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"careergap/internal/shared/server/middleware"
	"careergap/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ai-suggestions", h.list)
	rg.POST("/ai-suggestions", h.create)
	rg.GET("/ai-suggestions/stats", h.stats)
	rg.PUT("/ai-suggestions/:id/read", h.markRead)
	rg.POST("/ai-suggestions/read-all", h.markAllRead)
	rg.DELETE("/ai-suggestions/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	var f Filter
	if t := c.Query("type"); t != "" {
		f.Type = Type(t)
		if !f.Type.Valid() {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "unknown suggestion type", nil)
			return
		}
	}
	if raw := c.Query("isRead"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "isRead must be a boolean", nil)
			return
		}
		f.IsRead = &v
	}

	ctx := c.Request.Context()
	userID := middleware.UserIDFromContext(c)
	items, err := h.Svc.List(ctx, userID, f)
	if err != nil {
		respond.Internal(c, err)
		return
	}
	st, err := h.Svc.Stats(ctx, userID)
	if err != nil {
		respond.Internal(c, err)
		return
	}
	respond.OK(c, gin.H{"suggestions": items, "stats": st})
}

type createRequest struct {
	SuggestionType string `json:"suggestionType" validate:"required,oneof=skill_gap recommendation suggestion"`
	Title          string `json:"title" validate:"required,max=255"`
	Content        string `json:"content" validate:"required"`
	Priority       string `json:"priority" validate:"omitempty,oneof=high medium low"`
	WorkplaceID    string `json:"workplaceId"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	item, err := h.Svc.Create(c.Request.Context(), CreateInput{
		UserID:      middleware.UserIDFromContext(c),
		WorkplaceID: req.WorkplaceID,
		Type:        Type(req.SuggestionType),
		Title:       req.Title,
		Content:     req.Content,
		Priority:    Priority(req.Priority),
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
			return
		}
		respond.Internal(c, err)
		return
	}
	respond.Created(c, gin.H{"suggestion": item})
}

func (h *Handler) stats(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Internal(c, err)
		return
	}
	respond.OK(c, st)
}

func (h *Handler) markRead(c *gin.Context) {
	err := h.Svc.MarkRead(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "suggestion not found", nil)
			return
		}
		respond.Internal(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "suggestion marked as read"})
}

func (h *Handler) markAllRead(c *gin.Context) {
	t := Type(c.Query("type"))
	if t != "" && !t.Valid() {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "unknown suggestion type", nil)
		return
	}
	n, err := h.Svc.MarkAllRead(c.Request.Context(), middleware.UserIDFromContext(c), t)
	if err != nil {
		respond.Internal(c, err)
		return
	}
	respond.OK(c, gin.H{"updated": n})
}

func (h *Handler) delete(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "suggestion not found", nil)
			return
		}
		respond.Internal(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
