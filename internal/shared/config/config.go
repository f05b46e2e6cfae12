package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"careergap/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port               string
	CORSAllowOrigin    []string
	ObjectStoreType    string
	LocalStoreDir      string
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	S3Endpoint         string
	DatabaseURL        string
	Env                string
	LogLevel           string
	SessionTTL         time.Duration
	BcryptCost         int
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
	LLM                LLMConfig
}

// LLMConfig configures the remote completion service and the analysis pipeline.
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Models      []string
	ParserModel string
	Timeout     time.Duration
	MaxTokens   int
	PromptDir   string
	CacheTTL    time.Duration
}

// Enabled reports whether a completion client can be constructed.
func (c LLMConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != "" && len(c.Models) > 0
}

const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModels      = "llama-3.1-70b-versatile,llama3-70b-8192,llama-3.1-8b-instant,mixtral-8x7b-32768"
	DefaultParserModel = "llama-3.1-8b-instant"
)

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		telemetry.Error("config.missing", map[string]any{"key": "DATABASE_URL", "env": env})
	}

	apiKey := getEnv("LLM_API_KEY", os.Getenv("GROQ_API_KEY"))

	return Config{
		Port:               getEnv("PORT", "8080"),
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType:    normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:      getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:          getEnv("AWS_REGION", ""),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Prefix:           getEnv("S3_PREFIX", ""),
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		DatabaseURL:        dbURL,
		Env:                env,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SessionTTL:         getDuration("SESSION_TTL", 7*24*time.Hour),
		BcryptCost:         clampInt(getInt("BCRYPT_COST", 12), 10, 14),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		UIRedirectURL:      getEnv("UI_REDIRECT_URL", ""),
		LLM: LLMConfig{
			APIKey:      apiKey,
			BaseURL:     strings.TrimRight(getEnv("LLM_BASE_URL", DefaultBaseURL), "/"),
			Models:      splitAndTrim(getEnv("LLM_MODELS", DefaultModels)),
			ParserModel: getEnv("PARSER_MODEL", DefaultParserModel),
			Timeout:     time.Duration(getInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second,
			MaxTokens:   getInt("LLM_MAX_TOKENS", 2000),
			PromptDir:   getEnv("PROMPT_DIR", ""),
			CacheTTL:    getDuration("GAP_CACHE_TTL", 0),
		},
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return def
	}
	return d
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
