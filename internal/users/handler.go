package users

import (
	"errors"
	"net/http"
	"time"

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

// RegisterPublicRoutes attaches the unauthenticated auth routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
}

// RegisterRoutes attaches routes that require a session.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.logout)
	rg.GET("/auth/me", h.me)
	rg.GET("/me", h.me)
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type sessionResponse struct {
	User         userResponse `json:"user"`
	SessionToken string       `json:"sessionToken"`
	ExpiresAt    time.Time    `json:"expiresAt"`
}

func toUserResponse(u User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	user, session, err := h.Svc.Register(c.Request.Context(), RegisterInput(req))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "email, password (min 6), firstName and lastName are required", nil)
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusConflict, respond.CodeConflict, err.Error(), nil)
		default:
			respond.Internal(c, err)
		}
		return
	}
	respond.Created(c, sessionResponse{User: toUserResponse(user), SessionToken: session.Token, ExpiresAt: session.ExpiresAt})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	user, session, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInactive):
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "invalid email or password", nil)
		default:
			respond.Internal(c, err)
		}
		return
	}
	respond.OK(c, sessionResponse{User: toUserResponse(user), SessionToken: session.Token, ExpiresAt: session.ExpiresAt})
}

func (h *Handler) logout(c *gin.Context) {
	err := h.Svc.Logout(c.Request.Context(), middleware.SessionTokenFromContext(c))
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		respond.Internal(c, err)
		return
	}
	respond.OK(c, gin.H{"status": "success", "message": "Logout successful"})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Svc.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "user not found", nil)
			return
		}
		respond.Internal(c, err)
		return
	}
	respond.OK(c, gin.H{"user": toUserResponse(user)})
}
