package seo

import "fmt"

// OutcomeKind discriminates the result of attempting an operation on a unit.
type OutcomeKind string

const (
	OutcomeSuccess    OutcomeKind = "success"
	OutcomeValidation OutcomeKind = "validation_failure"
	OutcomeRemote     OutcomeKind = "remote_failure"
)

// Sentinel values reported as successful generation results when the model
// responded but its output could not be used verbatim. A sentinel outcome is
// still a success: the batch must not abort on it.
const (
	SentinelInvalidJSON        = "AI-error-invalid-json"
	SentinelAltTextUnavailable = "AI-generated alt text unavailable"
	SentinelTitleUnavailable   = "AI-generated title unavailable."
	SentinelDescUnavailable    = "AI-generated description unavailable."
)

// GeneratedText is the value side of a successful outcome. Only the fields
// relevant to the operation are populated.
type GeneratedText struct {
	AltText         string `json:"altText,omitempty"`
	MetaTitle       string `json:"metaTitle,omitempty"`
	MetaDescription string `json:"metaDescription,omitempty"`
	// Raw keeps the unparsed model response when Sentinel is set, so the
	// caller can surface what the model actually said.
	Raw      string `json:"raw,omitempty"`
	Sentinel bool   `json:"sentinel,omitempty"`
}

// Outcome is the tagged result of one operation on one unit.
type Outcome struct {
	Kind   OutcomeKind   `json:"kind"`
	Text   GeneratedText `json:"text,omitempty"`
	Reason string        `json:"reason,omitempty"`
}

func Success(text GeneratedText) Outcome {
	return Outcome{Kind: OutcomeSuccess, Text: text}
}

func ValidationFailure(reason string) Outcome {
	return Outcome{Kind: OutcomeValidation, Reason: reason}
}

func RemoteFailure(message string) Outcome {
	return Outcome{Kind: OutcomeRemote, Reason: message}
}

func RemoteFailuref(format string, args ...any) Outcome {
	return Outcome{Kind: OutcomeRemote, Reason: fmt.Sprintf(format, args...)}
}

// Failed reports whether the outcome should count as a failure for batch
// aggregation. Sentinel successes are not failures.
func (o Outcome) Failed() bool {
	return o.Kind != OutcomeSuccess
}
