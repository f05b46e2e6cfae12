package llm

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// SnippetLimit bounds the raw text carried by MalformedResponseError.
const SnippetLimit = 500

var (
	// ErrRemoteCall matches a RemoteCallError via errors.Is.
	ErrRemoteCall = errors.New("remote completion failed")
	// ErrMalformed matches a MalformedResponseError via errors.Is.
	ErrMalformed = errors.New("malformed completion response")
)

// Attempt records one failed model call in the fallback chain.
type Attempt struct {
	Model  string
	Status int
	Err    error
}

// RemoteCallError is returned when every model in the chain failed.
type RemoteCallError struct {
	Attempts []Attempt
}

func (e *RemoteCallError) Error() string {
	if len(e.Attempts) == 0 {
		return "remote completion failed: no models attempted"
	}
	models := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		models = append(models, a.Model)
	}
	return fmt.Sprintf("remote completion failed after %d attempt(s) [%s]: %v",
		len(e.Attempts), strings.Join(models, ", "), e.Last())
}

// Last returns the error of the final attempt.
func (e *RemoteCallError) Last() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

func (e *RemoteCallError) Is(target error) bool { return target == ErrRemoteCall }

func (e *RemoteCallError) Unwrap() error { return e.Last() }

// MalformedResponseError is returned when no JSON object can be recovered.
type MalformedResponseError struct {
	Snippet string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed completion response: %v (raw: %q)", e.Err, e.Snippet)
}

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformed }

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Snippet returns at most SnippetLimit characters of raw.
func Snippet(raw string) string {
	if utf8.RuneCountInString(raw) <= SnippetLimit {
		return raw
	}
	runes := []rune(raw)
	return string(runes[:SnippetLimit])
}
