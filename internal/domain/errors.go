// Package domain contains the core business entities and types for PVS1
// ("Pathogenic Very Strong #1") sequence-variant classification, following
// the ACMG/AMP 2015 guidelines for sequence variant interpretation.
//
// Reference: Richards et al. (2015) Standards and guidelines for the
// interpretation of sequence variants. Genet Med. 17(5):405-24.
// Reference: Abou Tayoun et al. (2018) Recommendations for interpreting the
// loss of function PVS1 ACMG/AMP variant criterion. Hum Mutat. 39(11):1517-1524.
package domain

import (
	"fmt"
	"time"
)

// ErrorCode identifies the failure kind for a PVS1 classification attempt,
// per spec §7.
type ErrorCode string

const (
	ErrParseError         ErrorCode = "PARSE_ERROR"
	ErrInvalidPosition    ErrorCode = "INVALID_POSITION"
	ErrMissingData        ErrorCode = "MISSING_DATA"
	ErrInvalidAPIResponse ErrorCode = "INVALID_API_RESPONSE"
	ErrAlgorithmError     ErrorCode = "ALGORITHM_ERROR"
	ErrConnectionError    ErrorCode = "CONNECTION_ERROR"
	ErrCancelled          ErrorCode = "CANCELLED"
)

// ClassificationError is the single error type returned across the PVS1
// engine and its collaborators. All errors bubble to the top of the engine
// call; the engine never catches one and silently downgrades a verdict.
type ClassificationError struct {
	Code      ErrorCode
	Message   string
	Cause     error
	Timestamp time.Time
}

func (e *ClassificationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ClassificationError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is compare by code rather than by pointer identity.
func (e *ClassificationError) Is(target error) bool {
	other, ok := target.(*ClassificationError)
	if !ok {
		return false
	}
	return other.Code == e.Code
}

func newError(code ErrorCode, cause error, format string, args ...interface{}) *ClassificationError {
	return &ClassificationError{
		Code:      code,
		Message:   fmt.Sprintf(format, args...),
		Cause:     cause,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseError reports that an input string could not be parsed. The
// resolver also returns it from each local grammar that does not match,
// as the signal to try the next grammar (spec §4.1).
func NewParseError(input string, cause error) *ClassificationError {
	return newError(ErrParseError, cause, "could not parse variant %q", input)
}

// NewInvalidPositionError reports a coordinate invariant violation (spec §3).
func NewInvalidPositionError(format string, args ...interface{}) *ClassificationError {
	return newError(ErrInvalidPosition, nil, format, args...)
}

// NewMissingDataError reports an absent required upstream field (strand,
// exons, selected transcript, consequence) after C3/C4 ran.
func NewMissingDataError(format string, args ...interface{}) *ClassificationError {
	return newError(ErrMissingData, nil, format, args...)
}

// NewInvalidAPIResponseError reports an upstream payload present but unusable.
func NewInvalidAPIResponseError(cause error, format string, args ...interface{}) *ClassificationError {
	return newError(ErrInvalidAPIResponse, cause, format, args...)
}

// NewAlgorithmError reports an internal invariant inside a predicate being
// violated (e.g. a variant position outside every exon the engine believed
// it belonged to).
func NewAlgorithmError(format string, args ...interface{}) *ClassificationError {
	return newError(ErrAlgorithmError, nil, format, args...)
}

// NewConnectionError wraps a transport-level failure from a C3/C6 collaborator.
func NewConnectionError(cause error, format string, args ...interface{}) *ClassificationError {
	return newError(ErrConnectionError, cause, format, args...)
}

// NewCancelledError reports that an upstream cancellation token fired
// between predicates (spec §5); no verdict is emitted for this invocation.
func NewCancelledError(cause error) *ClassificationError {
	return newError(ErrCancelled, cause, "classification cancelled")
}

// AsAlgorithmError converts an InvalidAPIResponse raised inside a predicate
// into an AlgorithmError as it propagates out of C7, per spec §4.7:
// "InvalidAPIResponse inside a predicate is converted to AlgorithmError and
// propagated; the engine does not silently downgrade verdicts."
func AsAlgorithmError(err error) error {
	if ce, ok := err.(*ClassificationError); ok && ce.Code == ErrInvalidAPIResponse {
		return newError(ErrAlgorithmError, ce, "predicate failed on upstream response: %s", ce.Message)
	}
	return err
}
