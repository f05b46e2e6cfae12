package workplaces

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"careergap/internal/export"
	"careergap/internal/gapanalysis"
	"careergap/internal/jobs"
	"careergap/internal/parsing"
	"careergap/internal/records"
	"careergap/internal/resumes"
	"careergap/internal/shared/telemetry"
)

var (
	ErrForbidden  = errors.New("access denied")
	ErrNoResume   = errors.New("no resume found")
	ErrNoJob      = errors.New("no job description found")
	ErrNoAnalysis = errors.New("workplace has no analysis yet")
)

// DefaultListLimit caps GET /workplaces.
const DefaultListLimit = 50

type ResumeSource interface {
	Get(ctx context.Context, userID, id string) (resumes.Resume, error)
	Latest(ctx context.Context, userID string) (resumes.Resume, error)
}

type JobSource interface {
	Get(ctx context.Context, userID, id string) (jobs.JobDescription, error)
	Latest(ctx context.Context, userID string) (jobs.JobDescription, error)
}

// Analyzer is satisfied by *gapanalysis.Analyzer.
type Analyzer interface {
	Analyze(ctx context.Context, resume, job records.Record) gapanalysis.Outcome
	Available() bool
}

// SuggestionRecorder stores the suggestions derived from an analysis.
type SuggestionRecorder interface {
	RecordAnalysis(ctx context.Context, userID, workplaceID string, doc gapanalysis.Document) (int, error)
}

type Service struct {
	Repo        Repo
	Resumes     ResumeSource
	Jobs        JobSource
	Analyzer    Analyzer
	Suggestions SuggestionRecorder
	Now         func() time.Time
}

type GenerateInput struct {
	UserID           string
	Name             string
	ResumeID         string
	JobDescriptionID string
}

// Result is a stored workplace together with the inputs it was built from.
type Result struct {
	Workplace Workplace
	Resume    parsing.Resume
	Job       parsing.JobDescription
	Outcome   gapanalysis.Outcome
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Generate creates a workplace from the chosen (or latest) résumé and job
// description and stores its gap analysis.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (Result, error) {
	res, job, err := s.loadInputs(ctx, in.UserID, in.ResumeID, in.JobDescriptionID)
	if err != nil {
		return Result{}, err
	}

	now := s.now()
	w := Workplace{
		ID:               uuid.NewString(),
		UserID:           in.UserID,
		Name:             workplaceName(in.Name, job, now),
		ResumeID:         res.ID,
		JobDescriptionID: job.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Repo.Create(ctx, w); err != nil {
		return Result{}, fmt.Errorf("create workplace: %w", err)
	}
	return s.analyzeAndStore(ctx, w, res, job)
}

// Reanalyze runs the analysis again for an existing workplace.
func (s *Service) Reanalyze(ctx context.Context, userID, id string) (Result, error) {
	w, err := s.Get(ctx, userID, id)
	if err != nil {
		return Result{}, err
	}
	res, job, err := s.loadInputs(ctx, userID, w.ResumeID, w.JobDescriptionID)
	if err != nil {
		return Result{}, err
	}
	return s.analyzeAndStore(ctx, w, res, job)
}

func (s *Service) analyzeAndStore(ctx context.Context, w Workplace, res resumes.Resume, job jobs.JobDescription) (Result, error) {
	outcome := s.AnalyzeInline(ctx, res.ParsedData.Record(), job.ParsedData.Record())

	at := s.now()
	if err := s.Repo.SaveAnalysis(ctx, w.ID, outcome, at); err != nil {
		return Result{}, fmt.Errorf("store analysis: %w", err)
	}
	doc := outcome.Document
	w.Analysis = &doc
	w.OutcomeKind = outcome.Kind
	w.OutcomeReason = outcome.Reason
	w.UpdatedAt = at

	if s.Suggestions != nil {
		if _, err := s.Suggestions.RecordAnalysis(ctx, w.UserID, w.ID, doc); err != nil {
			telemetry.Warn("workplace.suggestions_failed", map[string]any{
				"workplace_id": w.ID,
				"error":        err,
			})
		}
	}
	telemetry.Info("workplace.analyzed", map[string]any{
		"user_id":      w.UserID,
		"workplace_id": w.ID,
		"kind":         string(outcome.Kind),
		"reason":       string(outcome.Reason),
		"cached":       outcome.Cached,
	})
	return Result{Workplace: w, Resume: res.ParsedData, Job: job.ParsedData, Outcome: outcome}, nil
}

// AnalyzeInline runs the gap analysis without persistence. Without a
// completion service it answers with the emergency profile directly.
func (s *Service) AnalyzeInline(ctx context.Context, resume, job records.Record) gapanalysis.Outcome {
	if s.Analyzer == nil || !s.Analyzer.Available() {
		return gapanalysis.Emergency(resume, job)
	}
	return s.Analyzer.Analyze(ctx, resume, job)
}

// Get returns a workplace owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (Workplace, error) {
	w, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Workplace{}, err
	}
	if w.UserID != userID {
		return Workplace{}, ErrForbidden
	}
	return w, nil
}

func (s *Service) List(ctx context.Context, userID string, limit int) ([]Workplace, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	return s.Repo.ListByUser(ctx, userID, limit)
}

// Export writes the workplace analysis as an xlsx workbook.
func (s *Service) Export(ctx context.Context, userID, id string, out io.Writer) error {
	w, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if w.Analysis == nil {
		return ErrNoAnalysis
	}
	return export.Write(out, *w.Analysis, export.Report{
		Title:       w.Name,
		GeneratedAt: s.now(),
		Outcome:     w.OutcomeKind,
		Reason:      w.OutcomeReason,
	})
}

func (s *Service) loadInputs(ctx context.Context, userID, resumeID, jobID string) (resumes.Resume, jobs.JobDescription, error) {
	var res resumes.Resume
	var job jobs.JobDescription
	var resErr, jobErr error

	var g errgroup.Group
	g.Go(func() error {
		if resumeID != "" {
			res, resErr = s.Resumes.Get(ctx, userID, resumeID)
		} else {
			res, resErr = s.Resumes.Latest(ctx, userID)
		}
		if errors.Is(resErr, resumes.ErrNotFound) {
			resErr = ErrNoResume
		}
		return resErr
	})
	g.Go(func() error {
		if jobID != "" {
			job, jobErr = s.Jobs.Get(ctx, userID, jobID)
		} else {
			job, jobErr = s.Jobs.Latest(ctx, userID)
		}
		if errors.Is(jobErr, jobs.ErrNotFound) {
			jobErr = ErrNoJob
		}
		return jobErr
	})
	_ = g.Wait()
	// The résumé error wins so a user missing both is told to upload first.
	switch {
	case resErr != nil:
		return resumes.Resume{}, jobs.JobDescription{}, resErr
	case jobErr != nil:
		return resumes.Resume{}, jobs.JobDescription{}, jobErr
	}
	return res, job, nil
}

func workplaceName(name string, job jobs.JobDescription, at time.Time) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	switch {
	case job.Title != "" && job.Company != "":
		return job.Title + " @ " + job.Company
	case job.Title != "":
		return job.Title
	default:
		return "Analysis " + at.Format("2006-01-02")
	}
}
