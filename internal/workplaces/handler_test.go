package workplaces

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"careergap/internal/gapanalysis"
	"careergap/internal/jobs"
	"careergap/internal/parsing"
	"careergap/internal/records"
	"careergap/internal/resumes"
	"careergap/internal/shared/server/middleware"
	"careergap/internal/suggestions"
)

type fakeAnalyzer struct {
	mu        sync.Mutex
	available bool
	calls     int
	jobs      []records.Record
}

func (f *fakeAnalyzer) Available() bool { return f.available }

func (f *fakeAnalyzer) Analyze(ctx context.Context, resume, job records.Record) gapanalysis.Outcome {
	f.mu.Lock()
	f.calls++
	f.jobs = append(f.jobs, job)
	f.mu.Unlock()
	return gapanalysis.Outcome{
		Kind:  gapanalysis.KindSuccess,
		Model: "test-model",
		Document: gapanalysis.Document{
			Summary: "Good fit.",
			SkillsToImprove: []gapanalysis.SkillGapItem{
				{Name: "Rust", Current: 25, Target: 80, Urgency: gapanalysis.UrgencyHigh, Suggestion: "Ship a crate."},
			},
			Strengths:       []string{"Python"},
			Recommendations: []string{"Pair program."},
			Suggestions:     []string{"Read the book."},
			Conclusion:      "Go for it.",
		},
	}
}

type fixture struct {
	router      *gin.Engine
	svc         *Service
	analyzer    *fakeAnalyzer
	resumes     *resumes.MemoryRepo
	jobs        *jobs.MemoryRepo
	suggestions *suggestions.Service
}

func setupWorkplaces(t *testing.T, available bool) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fx := &fixture{
		analyzer:    &fakeAnalyzer{available: available},
		resumes:     resumes.NewMemoryRepo(),
		jobs:        jobs.NewMemoryRepo(),
		suggestions: suggestions.NewService(suggestions.NewMemoryRepo()),
	}
	fx.svc = &Service{
		Repo:        NewMemoryRepo(),
		Resumes:     &resumes.Service{Repo: fx.resumes},
		Jobs:        &jobs.Service{Repo: fx.jobs},
		Analyzer:    fx.analyzer,
		Suggestions: fx.suggestions,
		Now:         func() time.Time { return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC) },
	}
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.Auth(middleware.SessionValidatorFunc(func(ctx context.Context, token string) (middleware.Identity, error) {
		return middleware.Identity{UserID: token}, nil
	})))
	h := NewHandler(fx.svc)
	h.RegisterRoutes(api)
	h.RegisterAnalysisRoutes(api)
	fx.router = r
	return fx
}

func (fx *fixture) seed(t *testing.T, userID string) {
	t.Helper()
	ctx := context.Background()
	err := fx.resumes.Create(ctx, resumes.Resume{
		ID:         "r-" + userID,
		UserID:     userID,
		Title:      "CV",
		ParsedData: parsing.Resume{Skills: []string{"Python", "Go"}},
		CreatedAt:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed resume: %v", err)
	}
	err = fx.jobs.Create(ctx, jobs.JobDescription{
		ID:         "j-" + userID,
		UserID:     userID,
		Title:      "Backend Engineer",
		Company:    "Acme",
		ParsedData: parsing.JobDescription{TechnicalSkills: []string{"Rust", "Kafka", "Go", "SQL", "Docker"}},
		CreatedAt:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed job: %v", err)
	}
}

func call(r *gin.Engine, method, path, body, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+user)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type generateResponse struct {
	Workplace   Workplace              `json:"workplace"`
	GapAnalysis gapanalysis.Document   `json:"gap_analysis"`
	Outcome     map[string]any         `json:"outcome"`
	Job         parsing.JobDescription `json:"job_description_data"`
}

func decodeGenerate(t *testing.T, rec *httptest.ResponseRecorder) generateResponse {
	t.Helper()
	var out generateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body.String())
	}
	return out
}

func TestGenerateRequiresResumeThenJob(t *testing.T) {
	fx := setupWorkplaces(t, true)

	rec := call(fx.router, http.MethodPost, "/api/v1/analysis/generate", "", "u1")
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "No resume found") {
		t.Fatalf("expected missing resume, got %d %s", rec.Code, rec.Body.String())
	}

	_ = fx.resumes.Create(context.Background(), resumes.Resume{ID: "r1", UserID: "u1", CreatedAt: time.Now()})
	rec = call(fx.router, http.MethodPost, "/api/v1/analysis/generate", "", "u1")
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "No job description found") {
		t.Fatalf("expected missing job, got %d %s", rec.Code, rec.Body.String())
	}
	if fx.analyzer.calls != 0 {
		t.Fatalf("analyzer should not run without inputs")
	}
}

func TestGenerateStoresAnalysisAndSuggestions(t *testing.T) {
	fx := setupWorkplaces(t, true)
	fx.seed(t, "u1")

	rec := call(fx.router, http.MethodPost, "/api/v1/analysis/generate", "", "u1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	out := decodeGenerate(t, rec)
	if out.Workplace.Name != "Backend Engineer @ Acme" || out.Workplace.ResumeID != "r-u1" || out.Workplace.JobDescriptionID != "j-u1" {
		t.Fatalf("unexpected workplace: %+v", out.Workplace)
	}
	if out.Outcome["kind"] != "success" || out.GapAnalysis.Summary != "Good fit." {
		t.Fatalf("unexpected outcome: %+v", out.Outcome)
	}
	if len(fx.analyzer.jobs) != 1 || len(fx.analyzer.jobs[0].Strings(records.KeyTechnicalSkills)) != 5 {
		t.Fatalf("analyzer got unexpected job record: %+v", fx.analyzer.jobs)
	}

	st, err := fx.suggestions.Stats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Total != 3 || st.HighPriorityUnread != 1 {
		t.Fatalf("unexpected suggestion stats: %+v", st)
	}

	rec = call(fx.router, http.MethodGet, "/api/v1/workplaces/"+out.Workplace.ID, "", "u1")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"outcomeKind":"success"`) {
		t.Fatalf("get: %d %s", rec.Code, rec.Body.String())
	}
	rec = call(fx.router, http.MethodGet, "/api/v1/workplaces", "", "u1")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), out.Workplace.ID) {
		t.Fatalf("list: %d %s", rec.Code, rec.Body.String())
	}
}

func TestGenerateWithoutCompletionServiceUsesEmergencyProfile(t *testing.T) {
	fx := setupWorkplaces(t, false)
	fx.seed(t, "u1")

	rec := call(fx.router, http.MethodPost, "/api/v1/analysis/generate", `{"name":"Plan B"}`, "u1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	out := decodeGenerate(t, rec)
	if fx.analyzer.calls != 0 {
		t.Fatalf("unavailable analyzer must not be called")
	}
	if out.Workplace.Name != "Plan B" {
		t.Fatalf("expected explicit name, got %q", out.Workplace.Name)
	}
	if out.Outcome["kind"] != "degraded" || out.Outcome["fallbackProfile"] != "emergency" || out.Outcome["reason"] != "llm_unavailable" {
		t.Fatalf("unexpected outcome: %+v", out.Outcome)
	}
	if got := len(out.GapAnalysis.SkillsToImprove) + len(out.GapAnalysis.Strengths); got == 0 {
		t.Fatalf("expected a populated fallback document")
	}
	for _, item := range out.GapAnalysis.SkillsToImprove {
		if item.Current < 10 || item.Current > 75 {
			t.Fatalf("fallback score out of range: %+v", item)
		}
	}
}

func TestWorkplaceOwnership(t *testing.T) {
	fx := setupWorkplaces(t, true)
	fx.seed(t, "u1")
	out := decodeGenerate(t, call(fx.router, http.MethodPost, "/api/v1/analysis/generate", "", "u1"))

	if rec := call(fx.router, http.MethodGet, "/api/v1/workplaces/"+out.Workplace.ID, "", "u2"); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if rec := call(fx.router, http.MethodGet, "/api/v1/workplaces/missing", "", "u1"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := call(fx.router, http.MethodPost, "/api/v1/workplaces/"+out.Workplace.ID+"/reanalyze", "", "u2"); rec.Code != http.StatusForbidden {
		t.Fatalf("reanalyze as other user: expected 403, got %d", rec.Code)
	}
	if rec := call(fx.router, http.MethodGet, "/api/v1/workplaces/"+out.Workplace.ID+"/export.xlsx", "", "u2"); rec.Code != http.StatusForbidden {
		t.Fatalf("export as other user: expected 403, got %d", rec.Code)
	}
}

func TestReanalyzeReplacesSuggestions(t *testing.T) {
	fx := setupWorkplaces(t, true)
	fx.seed(t, "u1")
	out := decodeGenerate(t, call(fx.router, http.MethodPost, "/api/v1/analysis/generate", "", "u1"))

	rec := call(fx.router, http.MethodPost, "/api/v1/workplaces/"+out.Workplace.ID+"/reanalyze", "", "u1")
	if rec.Code != http.StatusOK {
		t.Fatalf("reanalyze: %d %s", rec.Code, rec.Body.String())
	}
	if fx.analyzer.calls != 2 {
		t.Fatalf("expected 2 analyzer calls, got %d", fx.analyzer.calls)
	}
	st, _ := fx.suggestions.Stats(context.Background(), "u1")
	if st.Total != 3 {
		t.Fatalf("expected suggestions replaced, got %+v", st)
	}
}

func TestExportWorkbook(t *testing.T) {
	fx := setupWorkplaces(t, true)
	fx.seed(t, "u1")
	out := decodeGenerate(t, call(fx.router, http.MethodPost, "/api/v1/analysis/generate", "", "u1"))

	rec := call(fx.router, http.MethodGet, "/api/v1/workplaces/"+out.Workplace.ID+"/export.xlsx", "", "u1")
	if rec.Code != http.StatusOK {
		t.Fatalf("export: %d %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/vnd.openxmlformats") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatalf("expected a zip container")
	}
}

func TestExportWithoutAnalysisConflicts(t *testing.T) {
	fx := setupWorkplaces(t, true)
	_ = fx.svc.Repo.Create(context.Background(), Workplace{ID: "w1", UserID: "u1", Name: "empty"})
	if rec := call(fx.router, http.MethodGet, "/api/v1/workplaces/w1/export.xlsx", "", "u1"); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestInlineSkillGap(t *testing.T) {
	fx := setupWorkplaces(t, true)

	rec := call(fx.router, http.MethodPost, "/api/v1/ai/skill-gap", `{"resume":{"skills":["Go"]}}`, "u1")
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Missing resume or job data") {
		t.Fatalf("expected 400, got %d %s", rec.Code, rec.Body.String())
	}

	rec = call(fx.router, http.MethodPost, "/api/v1/ai/skill-gap", `{"resume":{"skills":["Go"]},"job":{"technical_skills":["Rust"]}}`, "u1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Analysis gapanalysis.Document `json:"analysis"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Analysis.Conclusion != "Go for it." || fx.analyzer.calls != 1 {
		t.Fatalf("unexpected inline analysis: %+v", body.Analysis)
	}
}
