package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	httpRequests    = newCounterVec("method", "status")
	gapAnalyses     = newCounterVec("kind", "reason")
	llmAttempts     = newCounterVec("model", "result")
	plansGenerated  = newCounterVec("source")
	rateLimited     = newCounterVec("group")
	analysisLatency = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
	httpLatency     = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000})
)

// ObserveHTTP records a completed HTTP request.
func ObserveHTTP(method string, status int, d time.Duration) {
	httpRequests.Inc(method, strconv.Itoa(status))
	httpLatency.Observe(durationMs(d))
}

// ObserveGapAnalysis records one analysis outcome. reason is empty for successes.
func ObserveGapAnalysis(kind, reason string, d time.Duration) {
	if reason == "" {
		reason = "none"
	}
	gapAnalyses.Inc(kind, reason)
	analysisLatency.Observe(durationMs(d))
}

// IncLLMAttempt records one model attempt in the completion fallback chain.
func IncLLMAttempt(model, result string) {
	llmAttempts.Inc(model, result)
}

// IncPlanGenerated records a roadmap plan by source (remote or fallback).
func IncPlanGenerated(source string) {
	plansGenerated.Inc(source)
}

// IncRateLimited records a request rejected by the rate limiter.
func IncRateLimited(group string) {
	rateLimited.Inc(group)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounterVec(&buf, "http_requests_total", "Total HTTP requests", httpRequests)
	writeHistogram(&buf, "http_request_duration_ms", "HTTP request duration in milliseconds", httpLatency.Snapshot())
	writeCounterVec(&buf, "gap_analysis_total", "Gap analyses by outcome", gapAnalyses)
	writeHistogram(&buf, "gap_analysis_duration_ms", "Gap analysis duration in milliseconds", analysisLatency.Snapshot())
	writeCounterVec(&buf, "llm_attempts_total", "Completion attempts by model and result", llmAttempts)
	writeCounterVec(&buf, "roadmap_plans_total", "Study plans by source", plansGenerated)
	writeCounterVec(&buf, "rate_limited_total", "Requests rejected by the rate limiter", rateLimited)
	return buf.String()
}

// Reset clears all series; used by tests.
func Reset() {
	for _, v := range []*counterVec{httpRequests, gapAnalyses, llmAttempts, plansGenerated, rateLimited} {
		v.reset()
	}
	analysisLatency.reset()
	httpLatency.reset()
}

type counterVec struct {
	mu     sync.Mutex
	labels []string
	values map[string]uint64
}

func newCounterVec(labels ...string) *counterVec {
	return &counterVec{labels: labels, values: make(map[string]uint64)}
}

func (v *counterVec) Inc(values ...string) {
	key := strings.Join(values, "\x00")
	v.mu.Lock()
	v.values[key]++
	v.mu.Unlock()
}

func (v *counterVec) reset() {
	v.mu.Lock()
	v.values = make(map[string]uint64)
	v.mu.Unlock()
}

func (v *counterVec) snapshot() ([]string, map[string]uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]uint64, len(v.values))
	keys := make([]string, 0, len(v.values))
	for k, n := range v.values {
		out[k] = n
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	if value < 0 {
		value = 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counts = make([]uint64, len(h.buckets))
	h.sum = 0
	h.count = 0
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounterVec(buf *bytes.Buffer, name, help string, v *counterVec) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys, values := v.snapshot()
	for _, key := range keys {
		parts := strings.Split(key, "\x00")
		pairs := make([]string, 0, len(parts))
		for i, label := range v.labels {
			val := ""
			if i < len(parts) {
				val = parts[i]
			}
			pairs = append(pairs, fmt.Sprintf("%s=%q", label, val))
		}
		fmt.Fprintf(buf, "%s{%s} %d\n", name, strings.Join(pairs, ","), values[key])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
