package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"LLM_API_KEY", "GROQ_API_KEY", "LLM_MODELS", "LLM_TIMEOUT_SECONDS", "GAP_CACHE_TTL", "BCRYPT_COST", "ENV"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
	if len(cfg.LLM.Models) != 4 || cfg.LLM.Models[0] != "llama-3.1-70b-versatile" {
		t.Fatalf("unexpected model chain: %v", cfg.LLM.Models)
	}
	if cfg.LLM.Timeout != 60*time.Second {
		t.Fatalf("expected 60s timeout, got %s", cfg.LLM.Timeout)
	}
	if cfg.LLM.CacheTTL != 0 {
		t.Fatalf("cache should be disabled by default, got %s", cfg.LLM.CacheTTL)
	}
	if cfg.LLM.Enabled() {
		t.Fatalf("llm must not be enabled without an api key")
	}
	if cfg.BcryptCost != 12 {
		t.Fatalf("expected bcrypt cost 12, got %d", cfg.BcryptCost)
	}
}

func TestLoadGroqKeyFallback(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("LLM_MODELS", "a, b ,,c")

	cfg := Load()
	if cfg.LLM.APIKey != "gsk-test" {
		t.Fatalf("expected GROQ_API_KEY fallback, got %q", cfg.LLM.APIKey)
	}
	if got := cfg.LLM.Models; len(got) != 3 || got[1] != "b" {
		t.Fatalf("unexpected models: %v", got)
	}
	if !cfg.LLM.Enabled() {
		t.Fatalf("expected llm enabled")
	}
}

func TestLoadClampsBcryptCost(t *testing.T) {
	t.Setenv("BCRYPT_COST", "31")
	if got := Load().BcryptCost; got != 14 {
		t.Fatalf("expected clamp to 14, got %d", got)
	}
}

func TestLoadEnvFilesDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CAREERGAP_TEST_A=file\nCAREERGAP_TEST_B=file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("CAREERGAP_TEST_A", "process")
	t.Cleanup(func() { os.Unsetenv("CAREERGAP_TEST_B") })

	loadEnvFiles(path, filepath.Join(dir, "missing.env"))

	if got := os.Getenv("CAREERGAP_TEST_A"); got != "process" {
		t.Fatalf("process env overridden: %q", got)
	}
	if got := os.Getenv("CAREERGAP_TEST_B"); got != "file" {
		t.Fatalf("expected value from file, got %q", got)
	}
}
