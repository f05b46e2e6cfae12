package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	googleauth "careergap/internal/auth"
	"careergap/internal/gapanalysis"
	"careergap/internal/goals"
	"careergap/internal/jobs"
	"careergap/internal/llm"
	openai "careergap/internal/llm/openai"
	"careergap/internal/parsing"
	"careergap/internal/resumes"
	"careergap/internal/roadmap"
	"careergap/internal/services/health"
	"careergap/internal/shared/auth"
	"careergap/internal/shared/config"
	"careergap/internal/shared/server"
	"careergap/internal/shared/server/middleware"
	"careergap/internal/shared/storage/db"
	"careergap/internal/shared/storage/object"
	localstore "careergap/internal/shared/storage/object/local"
	s3store "careergap/internal/shared/storage/object/s3"
	"careergap/internal/shared/telemetry"
	"careergap/internal/suggestions"
	"careergap/internal/users"
	"careergap/internal/workplaces"
)

// App holds shared dependencies and the mounted router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.Store

	// Limiter backs the per-user rate limits; cmd/api sweeps it periodically.
	Limiter *middleware.RateLimiter

	Completer llm.Completer
	Templates *llm.Templates
	Analyzer  *gapanalysis.Analyzer
	Parser    *parsing.Parser
	Planner   *roadmap.Generator

	UsersService       *users.Service
	ResumesService     *resumes.Service
	JobsService        *jobs.Service
	SuggestionsService *suggestions.Service
	WorkplacesService  *workplaces.Service
	GoalsService       *goals.Service
	GoogleAuth         *googleauth.GoogleService
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	completer, err := NewCompleter(cfg.LLM)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		Completer: completer,
		Limiter:   middleware.NewRateLimiter(nil),
	}
	buildPipeline(app)
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:      cfg,
		Sessions:    app.UsersService,
		Limiter:     app.Limiter,
		Health:      app.health(),
		Users:       users.NewHandler(app.UsersService),
		GoogleAuth:  app.GoogleAuth,
		Resumes:     resumes.NewHandler(app.ResumesService),
		Jobs:        jobs.NewHandler(app.JobsService),
		Suggestions: suggestions.NewHandler(app.SuggestionsService),
		Workplaces:  workplaces.NewHandler(app.WorkplacesService),
		Goals:       goals.NewHandler(app.GoalsService),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":           cfg.Env,
		"database":      sqlDB != nil,
		"object_store":  cfg.ObjectStoreType,
		"llm_available": llm.IsAvailable(completer),
	})
	return app, nil
}

func (a *App) health() *health.Service {
	if a.DB == nil {
		return health.NewService(nil, llm.IsAvailable(a.Completer))
	}
	return health.NewService(a.DB, llm.IsAvailable(a.Completer))
}

// Close releases the database pool.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Region:   cfg.AWSRegion,
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			Endpoint: cfg.S3Endpoint,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// NewCompleter returns llm.Unavailable when no API key or model is configured.
func NewCompleter(cfg config.LLMConfig) (llm.Completer, error) {
	if !cfg.Enabled() {
		telemetry.Warn("bootstrap.llm_disabled", map[string]any{"reason": "LLM_API_KEY not set"})
		return llm.Unavailable{}, nil
	}
	client, err := openai.NewClient(openai.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Models:  cfg.Models,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}
	return client, nil
}

func buildPipeline(app *App) {
	cfg := app.Config.LLM
	app.Templates = llm.NewTemplates(cfg.PromptDir)
	app.Analyzer = gapanalysis.NewAnalyzer(app.Completer,
		gapanalysis.WithTemplates(app.Templates),
		gapanalysis.WithMaxTokens(cfg.MaxTokens),
		gapanalysis.WithCache(cfg.CacheTTL, time.Now),
	)
	app.Parser = parsing.NewParser(app.Completer, app.Templates, cfg.ParserModel)
	app.Planner = roadmap.NewGenerator(app.Completer, app.Templates, cfg.ParserModel)
}

func buildServices(app *App) {
	var (
		userRepo       users.Repo
		resumeRepo     resumes.Repo
		jobRepo        jobs.Repo
		suggestionRepo suggestions.Repo
		workplaceRepo  workplaces.Repo
		goalRepo       goals.Repo
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		jobRepo = &jobs.PGRepo{DB: app.DB}
		suggestionRepo = &suggestions.PGRepo{DB: app.DB}
		workplaceRepo = &workplaces.PGRepo{DB: app.DB}
		goalRepo = &goals.PGRepo{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		resumeRepo = resumes.NewMemoryRepo()
		jobRepo = jobs.NewMemoryRepo()
		suggestionRepo = suggestions.NewMemoryRepo()
		workplaceRepo = workplaces.NewMemoryRepo()
		goalRepo = goals.NewMemoryRepo()
	}

	app.UsersService = users.NewService(userRepo, auth.NewHasher(app.Config.BcryptCost), app.Config.SessionTTL)
	app.GoogleAuth = googleauth.NewGoogleService(googleauth.GoogleConfig{
		ClientID:     app.Config.GoogleClientID,
		ClientSecret: app.Config.GoogleClientSecret,
		RedirectURL:  app.Config.GoogleRedirectURL,
		UIRedirect:   app.Config.UIRedirectURL,
	}, app.UsersService)

	app.ResumesService = &resumes.Service{
		Repo:   resumeRepo,
		Store:  app.Store,
		Parser: app.Parser,
	}
	app.JobsService = &jobs.Service{
		Repo:   jobRepo,
		Parser: app.Parser,
	}
	app.SuggestionsService = suggestions.NewService(suggestionRepo)
	app.WorkplacesService = &workplaces.Service{
		Repo:        workplaceRepo,
		Resumes:     app.ResumesService,
		Jobs:        app.JobsService,
		Analyzer:    app.Analyzer,
		Suggestions: app.SuggestionsService,
	}
	app.GoalsService = &goals.Service{
		Repo:        goalRepo,
		Workplaces:  app.WorkplacesService,
		Suggestions: app.SuggestionsService,
		Planner:     app.Planner,
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
