package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careergap/internal/llm"
)

type recordedCall struct {
	Model string
	Body  map[string]any
	Auth  string
}

// fakeEndpoint answers per model: a status code, a delay before 200, or a
// raw 200 body.
type fakeEndpoint struct {
	mu     sync.Mutex
	calls  []recordedCall
	status map[string]int
	delay  map[string]time.Duration
	body   map[string]string
}

func (f *fakeEndpoint) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		model, _ := body["model"].(string)

		f.mu.Lock()
		f.calls = append(f.calls, recordedCall{Model: model, Body: body, Auth: r.Header.Get("Authorization")})
		status := f.status[model]
		delay := f.delay[model]
		raw, custom := f.body[model]
		f.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 && status != http.StatusOK {
			http.Error(w, `{"error":{"message":"overloaded"}}`, status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if custom {
			_, _ = w.Write([]byte(raw))
			return
		}
		_, _ = w.Write([]byte(`{"model":"` + model + `","choices":[{"message":{"role":"assistant","content":"answer from ` + model + `"}}],"usage":{"prompt_tokens":3,"completion_tokens":4,"total_tokens":7}}`))
	}
}

func (f *fakeEndpoint) models() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Model)
	}
	return out
}

func newTestClient(t *testing.T, f *fakeEndpoint, models []string, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL + "/", Models: models, Timeout: timeout})
	require.NoError(t, err)
	return c
}

func TestCompleteFallsThroughToThirdModel(t *testing.T) {
	f := &fakeEndpoint{status: map[string]int{"m1": 500, "m2": 500, "m3": 200}}
	c := newTestClient(t, f, []string{"m1", "m2", "m3"}, time.Second)

	got, err := c.Complete(context.Background(), llm.Request{System: "sys", User: "usr", MaxTokens: 2000, Temperature: 0.1})
	require.NoError(t, err)
	assert.Equal(t, "answer from m3", got.Content)
	assert.Equal(t, "m3", got.Model)
	assert.Equal(t, 3, got.Attempts)
	assert.Equal(t, []string{"m1", "m2", "m3"}, f.models())
}

func TestCompleteStopsAtFirstSuccess(t *testing.T) {
	f := &fakeEndpoint{status: map[string]int{}}
	c := newTestClient(t, f, []string{"m1", "m2"}, time.Second)

	got, err := c.Complete(context.Background(), llm.Request{User: "usr"})
	require.NoError(t, err)
	assert.Equal(t, "m1", got.Model)
	assert.Equal(t, []string{"m1"}, f.models())
}

func TestCompleteEmptyContentEndsChain(t *testing.T) {
	f := &fakeEndpoint{
		status: map[string]int{},
		body:   map[string]string{"m1": `{"choices":[{"message":{"content":""}}]}`},
	}
	c := newTestClient(t, f, []string{"m1", "m2"}, time.Second)

	got, err := c.Complete(context.Background(), llm.Request{User: "usr"})
	require.NoError(t, err)
	assert.Equal(t, "", got.Content)
	assert.Equal(t, "m1", got.Model)
	assert.Equal(t, 1, got.Attempts)
	assert.Equal(t, []string{"m1"}, f.models())
}

func TestCompleteUnusableEnvelopeIsMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no choices", body: `{"model":"m1","choices":[]}`},
		{name: "not json", body: `<html>gateway</html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeEndpoint{status: map[string]int{}, body: map[string]string{"m1": tt.body}}
			c := newTestClient(t, f, []string{"m1", "m2"}, time.Second)

			_, err := c.Complete(context.Background(), llm.Request{User: "usr"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, llm.ErrMalformed))
			assert.False(t, errors.Is(err, llm.ErrRemoteCall))

			var mErr *llm.MalformedResponseError
			require.True(t, errors.As(err, &mErr))
			assert.Equal(t, tt.body, mErr.Snippet)
			assert.Equal(t, []string{"m1"}, f.models())
		})
	}
}

func TestCompleteRequestShape(t *testing.T) {
	f := &fakeEndpoint{status: map[string]int{}}
	c := newTestClient(t, f, []string{"m1"}, time.Second)

	_, err := c.Complete(context.Background(), llm.Request{System: "sys", User: "usr", MaxTokens: 1500, Temperature: 0.1})
	require.NoError(t, err)

	require.Len(t, f.calls, 1)
	call := f.calls[0]
	assert.Equal(t, "Bearer test-key", call.Auth)
	assert.Equal(t, false, call.Body["stream"])
	assert.Equal(t, float64(1500), call.Body["max_tokens"])
	assert.InDelta(t, 0.1, call.Body["temperature"], 1e-9)
	msgs, ok := call.Body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, map[string]any{"role": "system", "content": "sys"}, msgs[0])
	assert.Equal(t, map[string]any{"role": "user", "content": "usr"}, msgs[1])
}

func TestCompleteTimeoutMovesToNextModel(t *testing.T) {
	f := &fakeEndpoint{status: map[string]int{}, delay: map[string]time.Duration{"slow": 2 * time.Second}}
	c := newTestClient(t, f, []string{"slow", "fast"}, 50*time.Millisecond)

	got, err := c.Complete(context.Background(), llm.Request{User: "usr"})
	require.NoError(t, err)
	assert.Equal(t, "fast", got.Model)
	assert.Equal(t, []string{"slow", "fast"}, f.models())
}

func TestCompleteAllFailAggregates(t *testing.T) {
	f := &fakeEndpoint{status: map[string]int{"m1": 500, "m2": 429}}
	c := newTestClient(t, f, []string{"m1", "m2"}, time.Second)

	_, err := c.Complete(context.Background(), llm.Request{User: "usr"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrRemoteCall))

	var rcErr *llm.RemoteCallError
	require.True(t, errors.As(err, &rcErr))
	require.Len(t, rcErr.Attempts, 2)
	assert.Equal(t, 500, rcErr.Attempts[0].Status)
	assert.Equal(t, 429, rcErr.Attempts[1].Status)
	assert.Contains(t, rcErr.Last().Error(), "429")
}

func TestCompleteRequestModelsOverride(t *testing.T) {
	f := &fakeEndpoint{status: map[string]int{}}
	c := newTestClient(t, f, []string{"m1", "m2"}, time.Second)

	got, err := c.Complete(context.Background(), llm.Request{User: "usr", Models: []string{"parser"}})
	require.NoError(t, err)
	assert.Equal(t, "parser", got.Model)
}

func TestCompleteCancelledContextStopsChain(t *testing.T) {
	f := &fakeEndpoint{status: map[string]int{}}
	c := newTestClient(t, f, []string{"m1", "m2"}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Complete(ctx, llm.Request{User: "usr"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, f.models())
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{Models: []string{"m"}})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewClient(Config{APIKey: "k", Models: []string{" ", ""}})
	assert.Error(t, err)

	c, err := NewClient(Config{APIKey: "k", Models: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL+"/chat/completions", c.endpoint)
	assert.Equal(t, DefaultTimeout, c.timeout)
	assert.Equal(t, []string{"a", "b"}, c.Models())
}
