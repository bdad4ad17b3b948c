// Package editerr defines the error taxonomy shared by every editing operation.
//
// Operations wrap one of the sentinel errors with context, for example
//
//	fmt.Errorf("%w: TOOL_RPM=140 exceeds 139.8", editerr.ErrParameterOutOfRange)
//
// and callers test with errors.Is or map the error to a short code with Classify.
package editerr

import "errors"

var (
	// ErrMalformedParameter: a recognized statement whose value cannot be parsed.
	ErrMalformedParameter = errors.New("malformed parameter")
	// ErrAnchorNotFound: no Z-height or progress line matches the requested anchor.
	ErrAnchorNotFound = errors.New("anchor not found")
	// ErrParameterOutOfRange: the value violates the kind's hard limit.
	ErrParameterOutOfRange = errors.New("parameter out of range")
	// ErrParameterNeedsConfirmation: the value is inside the hard limit but above the soft one.
	ErrParameterNeedsConfirmation = errors.New("parameter needs confirmation")
	// ErrParameterNotFound: the key, line or anchor-bound kind does not exist.
	ErrParameterNotFound = errors.New("parameter not found")
	// ErrIOFailure: reading the source or writing an artifact failed.
	ErrIOFailure = errors.New("io failure")
)

// Code is the short classification used in log fields and CLI output.
type Code string

const (
	CodeUnknown           Code = "unknown"
	CodeMalformed         Code = "malformed-parameter"
	CodeAnchorNotFound    Code = "anchor-not-found"
	CodeOutOfRange        Code = "out-of-range"
	CodeNeedsConfirmation Code = "needs-confirmation"
	CodeNotFound          Code = "not-found"
	CodeIO                Code = "io"
)

var codes = []struct {
	err  error
	code Code
}{
	{ErrParameterNeedsConfirmation, CodeNeedsConfirmation},
	{ErrParameterOutOfRange, CodeOutOfRange},
	{ErrMalformedParameter, CodeMalformed},
	{ErrAnchorNotFound, CodeAnchorNotFound},
	{ErrParameterNotFound, CodeNotFound},
	{ErrIOFailure, CodeIO},
}

// Classify maps err to its taxonomy code. Only sentinel matching is used.
func Classify(err error) Code {
	if err == nil {
		return CodeUnknown
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeUnknown
}

// NeedsConfirmation reports whether err is the soft limit failure that a caller may
// resolve by asking the operator and retrying with confirmation.
func NeedsConfirmation(err error) bool {
	return errors.Is(err, ErrParameterNeedsConfirmation)
}
