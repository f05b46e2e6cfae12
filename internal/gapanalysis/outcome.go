package gapanalysis

import (
	"errors"

	"careergap/internal/llm"
)

// Kind tags an Outcome.
type Kind string

const (
	KindSuccess  Kind = "success"
	KindDegraded Kind = "degraded"
)

// Reason explains a degraded outcome.
type Reason string

const (
	ReasonRemoteCall  Reason = "remote_call_failure"
	ReasonMalformed   Reason = "malformed_response"
	ReasonValidation  Reason = "validation_failure"
	ReasonUnavailable Reason = "llm_unavailable"
)

// Outcome is the result of one analysis: a remote document that passed
// validation, or a fallback document with the reason it was used.
type Outcome struct {
	Kind     Kind     `json:"kind"`
	Reason   Reason   `json:"reason,omitempty"`
	Model    string   `json:"model,omitempty"`
	Profile  string   `json:"fallbackProfile,omitempty"`
	Cached   bool     `json:"cached,omitempty"`
	Document Document `json:"analysis"`
	Cause    error    `json:"-"`
}

// Degraded reports whether the document came from the fallback generator.
func (o Outcome) Degraded() bool { return o.Kind == KindDegraded }

// ReasonFor classifies a pipeline error.
func ReasonFor(err error) Reason {
	var verr *ValidationError
	switch {
	case errors.Is(err, llm.ErrUnavailable):
		return ReasonUnavailable
	case errors.Is(err, llm.ErrMalformed):
		return ReasonMalformed
	case errors.As(err, &verr):
		return ReasonValidation
	default:
		return ReasonRemoteCall
	}
}
