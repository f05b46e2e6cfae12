package gapanalysis

import (
	"context"
	"time"

	"careergap/internal/llm"
	"careergap/internal/records"
	"careergap/internal/shared/metrics"
	"careergap/internal/shared/telemetry"
)

const (
	DefaultMaxTokens   = 2000
	DefaultTemperature = 0.1
)

// Analyzer runs PromptBuilder, Completer, Normalizer and Validate in order and
// substitutes the fallback document on any failure.
type Analyzer struct {
	Completer   llm.Completer
	Prompts     PromptBuilder
	Normalizer  llm.Normalizer
	Profile     FallbackProfile
	MaxTokens   int
	Temperature float64

	cache *outcomeCache
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTemplates sets the prompt template source.
func WithTemplates(t *llm.Templates) Option {
	return func(a *Analyzer) { a.Prompts.Templates = t }
}

// WithMaxTokens sets the completion budget.
func WithMaxTokens(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.MaxTokens = n
		}
	}
}

// WithCache enables an in-memory cache of successful outcomes for ttl.
// A zero ttl leaves caching off.
func WithCache(ttl time.Duration, now func() time.Time) Option {
	return func(a *Analyzer) {
		if ttl > 0 {
			a.cache = newOutcomeCache(ttl, now)
		}
	}
}

// NewAnalyzer returns an Analyzer with the standard fallback profile. A nil
// completer is treated as llm.Unavailable.
func NewAnalyzer(c llm.Completer, opts ...Option) *Analyzer {
	if c == nil {
		c = llm.Unavailable{}
	}
	a := &Analyzer{
		Completer: c,
		Normalizer: llm.Normalizer{
			EnvelopeKeys: []string{"analysis"},
			Expect:       ExpectDocument,
		},
		Profile:     StandardProfile,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Available reports whether a remote completion service is configured.
func (a *Analyzer) Available() bool {
	return llm.IsAvailable(a.Completer)
}

// Analyze always returns a document satisfying the validated invariants.
func (a *Analyzer) Analyze(ctx context.Context, resume, job records.Record) Outcome {
	if a.cache == nil {
		return a.run(ctx, resume, job)
	}

	key := Fingerprint(resume, job)
	if o, ok := a.cache.get(key); ok {
		o.Cached = true
		metrics.ObserveGapAnalysis(string(o.Kind), "cache_hit", 0)
		return o
	}
	// The shared call outlives any one caller; each caller bounds its own wait.
	shared := context.WithoutCancel(ctx)
	ch := a.cache.group.DoChan(key, func() (any, error) {
		o := a.run(shared, resume, job)
		if !o.Degraded() {
			a.cache.put(key, o)
		}
		return o, nil
	})
	select {
	case res := <-ch:
		return res.Val.(Outcome)
	case <-ctx.Done():
		out := a.degrade(ReasonRemoteCall, ctx.Err(), resume, job)
		metrics.ObserveGapAnalysis(string(out.Kind), string(out.Reason), 0)
		return out
	}
}

func (a *Analyzer) run(ctx context.Context, resume, job records.Record) Outcome {
	started := time.Now()
	out := a.attempt(ctx, resume, job)
	metrics.ObserveGapAnalysis(string(out.Kind), string(out.Reason), time.Since(started))
	return out
}

func (a *Analyzer) attempt(ctx context.Context, resume, job records.Record) Outcome {
	if !a.Available() {
		return a.degrade(ReasonUnavailable, llm.ErrUnavailable, resume, job)
	}

	prompt := a.Prompts.Build(resume, job)
	completion, err := a.Completer.Complete(ctx, llm.Request{
		System:      prompt.System,
		User:        prompt.User,
		MaxTokens:   a.MaxTokens,
		Temperature: a.Temperature,
	})
	if err != nil {
		return a.degrade(ReasonFor(err), err, resume, job)
	}

	candidate, err := a.Normalizer.Normalize(completion.Content)
	if err != nil {
		return a.degrade(ReasonMalformed, err, resume, job)
	}

	doc, err := Validate(candidate, resume)
	if err != nil {
		return a.degrade(ReasonValidation, err, resume, job)
	}

	telemetry.Info("gap_analysis.complete", map[string]any{
		"model":    completion.Model,
		"attempts": completion.Attempts,
		"skills":   len(doc.SkillsToImprove),
	})
	return Outcome{Kind: KindSuccess, Model: completion.Model, Document: doc}
}

func (a *Analyzer) degrade(reason Reason, cause error, resume, job records.Record) Outcome {
	telemetry.Warn("gap_analysis.degraded", map[string]any{
		"reason":  string(reason),
		"profile": a.Profile.Name,
		"error":   cause,
	})
	return Outcome{
		Kind:     KindDegraded,
		Reason:   reason,
		Profile:  a.Profile.Name,
		Document: Fallback(resume, job, a.Profile),
		Cause:    cause,
	}
}

// Emergency answers without a completion service using EmergencyProfile.
// Routes call it when no client is configured.
func Emergency(resume, job records.Record) Outcome {
	telemetry.Warn("gap_analysis.degraded", map[string]any{
		"reason":  string(ReasonUnavailable),
		"profile": EmergencyProfile.Name,
	})
	metrics.ObserveGapAnalysis(string(KindDegraded), string(ReasonUnavailable), 0)
	return Outcome{
		Kind:     KindDegraded,
		Reason:   ReasonUnavailable,
		Profile:  EmergencyProfile.Name,
		Document: Fallback(resume, job, EmergencyProfile),
		Cause:    llm.ErrUnavailable,
	}
}
