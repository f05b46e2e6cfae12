// Package openai implements llm.Completer against an OpenAI-compatible
// chat completions endpoint (Groq, OpenAI, local gateways).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"careergap/internal/llm"
	"careergap/internal/shared/metrics"
	"careergap/internal/shared/telemetry"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultTimeout = 60 * time.Second

	maxErrorBody = 2048
)

// ErrMissingAPIKey is returned by NewClient when no key is configured.
var ErrMissingAPIKey = errors.New("llm api key is required")

// Config configures a Client. Models is the ordered fallback chain, most
// capable first.
type Config struct {
	APIKey     string
	BaseURL    string
	Models     []string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client tries each configured model once, in order, until one answers 200.
// A 200 ends the chain even when its body is unusable.
type Client struct {
	apiKey     string
	endpoint   string
	models     []string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient validates cfg and constructs a Client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	models := make([]string, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	if len(models) == 0 {
		return nil, errors.New("at least one model is required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		endpoint:   base + "/chat/completions",
		models:     models,
		timeout:    timeout,
		httpClient: httpClient,
	}, nil
}

// Models returns the configured fallback chain.
func (c *Client) Models() []string {
	return append([]string(nil), c.models...)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
}

// Complete sends req to each model in turn. The first HTTP 200 wins and its
// content is returned as is, even when empty. A 200 envelope without a
// decodable choice is a *llm.MalformedResponseError and also ends the chain.
// Every other outcome is logged and the next model is tried. A cancelled ctx
// stops the chain.
func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Completion, error) {
	models := c.models
	if len(req.Models) > 0 {
		models = req.Models
	}

	payload := chatRequest{
		Messages:    buildMessages(req),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      false,
	}

	attempts := make([]llm.Attempt, 0, len(models))
	for i, model := range models {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, llm.Attempt{Model: model, Err: errors.Wrap(err, "chain aborted")})
			break
		}

		payload.Model = model
		started := time.Now()
		content, status, err := c.completeOnce(ctx, payload)
		var malformed *llm.MalformedResponseError
		if errors.As(err, &malformed) {
			metrics.IncLLMAttempt(model, "malformed")
			telemetry.Warn("llm.malformed_envelope", map[string]any{
				"model":   model,
				"attempt": i + 1,
				"error":   malformed.Err,
			})
			return llm.Completion{Model: model, Attempts: i + 1}, malformed
		}
		if err == nil {
			metrics.IncLLMAttempt(model, "ok")
			telemetry.Info("llm.completion", map[string]any{
				"model":       model,
				"attempt":     i + 1,
				"duration_ms": time.Since(started).Milliseconds(),
			})
			return llm.Completion{Content: content, Model: model, Attempts: i + 1}, nil
		}

		metrics.IncLLMAttempt(model, "error")
		telemetry.Warn("llm.attempt_failed", map[string]any{
			"model":       model,
			"attempt":     i + 1,
			"status":      status,
			"duration_ms": time.Since(started).Milliseconds(),
			"error":       err,
		})
		attempts = append(attempts, llm.Attempt{Model: model, Status: status, Err: err})
	}

	return llm.Completion{}, &llm.RemoteCallError{Attempts: attempts}
}

func (c *Client) completeOnce(ctx context.Context, payload chatRequest) (string, int, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return "", 0, errors.Wrap(err, "marshal chat request")
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", 0, errors.Wrap(err, "build chat request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return "", 0, errors.Wrapf(err, "model %s timed out after %s", payload.Model, c.timeout)
		}
		return "", 0, errors.Wrapf(err, "model %s request", payload.Model)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", resp.StatusCode, errors.Errorf("model %s http status %d: %s",
			payload.Model, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, errors.Wrapf(err, "model %s read body", payload.Model)
	}
	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", resp.StatusCode, &llm.MalformedResponseError{
			Snippet: llm.Snippet(string(raw)),
			Err:     errors.Wrapf(err, "model %s response parse", payload.Model),
		}
	}
	if len(parsed.Choices) == 0 {
		return "", resp.StatusCode, &llm.MalformedResponseError{
			Snippet: llm.Snippet(string(raw)),
			Err:     errors.Errorf("model %s response missing choices", payload.Model),
		}
	}
	content := parsed.Choices[0].Message.Content
	if parsed.Usage != nil {
		telemetry.Info("llm.usage", map[string]any{
			"model":             payload.Model,
			"prompt_tokens":     parsed.Usage.PromptTokens,
			"completion_tokens": parsed.Usage.CompletionTokens,
			"total_tokens":      parsed.Usage.TotalTokens,
		})
	}
	return content, resp.StatusCode, nil
}

func buildMessages(req llm.Request) []chatMessage {
	msgs := make([]chatMessage, 0, 2)
	if strings.TrimSpace(req.System) != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: req.System})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: req.User})
	return msgs
}

var _ llm.Completer = (*Client)(nil)
