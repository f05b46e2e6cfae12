// Package llm defines the remote completion contract and the deterministic
// reduction of free-form completions to JSON objects.
package llm

import (
	"context"
	"errors"
)

// Request is one chat completion request.
type Request struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
	// Models overrides the client's configured fallback chain when non-empty.
	Models []string
}

// Completion is the textual reply of the first model that answered.
type Completion struct {
	Content  string
	Model    string
	Attempts int
}

// Completer sends a prompt to a remote model.
type Completer interface {
	Complete(ctx context.Context, req Request) (Completion, error)
}

// ErrUnavailable is returned when no completion service is configured.
var ErrUnavailable = errors.New("llm: completion service not configured")

// Unavailable is the Completer used when no API key is configured.
type Unavailable struct{}

// Complete returns ErrUnavailable.
func (Unavailable) Complete(ctx context.Context, req Request) (Completion, error) {
	return Completion{}, ErrUnavailable
}

// IsAvailable reports whether c can reach a remote service.
func IsAvailable(c Completer) bool {
	if c == nil {
		return false
	}
	_, none := c.(Unavailable)
	return !none
}
