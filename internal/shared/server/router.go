package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "careergap/internal/auth"
	"careergap/internal/goals"
	"careergap/internal/jobs"
	"careergap/internal/resumes"
	"careergap/internal/services/health"
	"careergap/internal/shared/config"
	"careergap/internal/shared/metrics"
	"careergap/internal/shared/server/middleware"
	"careergap/internal/shared/server/respond"
	"careergap/internal/suggestions"
	"careergap/internal/users"
	"careergap/internal/workplaces"
)

const apiPrefix = "/api/v1"

// RouterDeps carries the handlers mounted by NewRouter. Nil handlers are skipped.
type RouterDeps struct {
	Config      config.Config
	Sessions    middleware.SessionValidator
	Limiter     *middleware.RateLimiter
	Health      *health.Service
	Users       *users.Handler
	GoogleAuth  *googleauth.GoogleService
	Resumes     *resumes.Handler
	Jobs        *jobs.Handler
	Suggestions *suggestions.Handler
	Workplaces  *workplaces.Handler
	Goals       *goals.Handler
}

// llmRoutes are throttled with the tighter LLM rule.
var llmRoutes = map[string]string{
	"POST " + apiPrefix + "/resumes":                  middleware.LLMRateLimitGroup,
	"POST " + apiPrefix + "/resume/upload":            middleware.LLMRateLimitGroup,
	"POST " + apiPrefix + "/jobs":                     middleware.LLMRateLimitGroup,
	"POST " + apiPrefix + "/job-description/parse":    middleware.LLMRateLimitGroup,
	"POST " + apiPrefix + "/analysis/generate":        middleware.LLMRateLimitGroup,
	"POST " + apiPrefix + "/ai/skill-gap":             middleware.LLMRateLimitGroup,
	"POST " + apiPrefix + "/workplaces/:id/reanalyze": middleware.LLMRateLimitGroup,
	"POST " + apiPrefix + "/workplaces/:id/goal":      middleware.LLMRateLimitGroup,
}

// DefaultRateLimits are the per-user buckets for ordinary and LLM-backed routes.
var DefaultRateLimits = map[string]middleware.RateLimitRule{
	"DEFAULT":                    {Rate: 10, Burst: 40},
	middleware.LLMRateLimitGroup: {Rate: 0.2, Burst: 5},
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	healthHandler := healthCheck(deps.Health)
	r.GET("/health", healthHandler)
	r.GET("/metrics", metrics.Handler())

	api := r.Group(apiPrefix)
	api.GET("/health", healthHandler)
	if deps.Users != nil {
		deps.Users.RegisterPublicRoutes(api)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}

	if deps.Sessions == nil {
		return r
	}

	protected := api.Group("")
	protected.Use(
		middleware.Auth(deps.Sessions),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    DefaultRateLimits,
			GroupFor: middleware.GroupByRoutes(llmRoutes),
			Limiter:  deps.Limiter,
		}),
	)
	if deps.Users != nil {
		deps.Users.RegisterRoutes(protected)
	}
	if deps.Resumes != nil {
		deps.Resumes.RegisterRoutes(protected)
	}
	if deps.Jobs != nil {
		deps.Jobs.RegisterRoutes(protected)
	}
	if deps.Suggestions != nil {
		deps.Suggestions.RegisterRoutes(protected)
	}
	if deps.Workplaces != nil {
		deps.Workplaces.RegisterRoutes(protected)
		deps.Workplaces.RegisterAnalysisRoutes(protected)
	}
	if deps.Goals != nil {
		deps.Goals.RegisterRoutes(protected)
		deps.Goals.RegisterPlanRoutes(protected)
	}

	return r
}

func healthCheck(svc *health.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := svc.Check(c.Request.Context())
		status := http.StatusOK
		if st.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, st)
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
