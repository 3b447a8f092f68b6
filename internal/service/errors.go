package service

import (
	"errors"
	"fmt"
)

// UpstreamError is returned when the generation API could not be reached or
// answered with a non-success status. StatusCode is zero for network errors.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
	}
	msg := fmt.Sprintf("%s API request failed with status %d", e.Provider, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ParseError is returned when the model output does not decode into the
// recipe schema.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse recipes: %s: %v", e.Reason, e.Err)
	}
	return "failed to parse recipes: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrorKind names the class of a gateway failure.
type ErrorKind string

const (
	KindNone     ErrorKind = "ok"
	KindUpstream ErrorKind = "upstream"
	KindParse    ErrorKind = "parse"
	KindUnknown  ErrorKind = "unknown"
)

// Classify maps an error returned by the suggestion service onto its kind.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return KindUpstream
	}
	var parse *ParseError
	if errors.As(err, &parse) {
		return KindParse
	}
	return KindUnknown
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
