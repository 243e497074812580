// File: error.go
// Title: Core Error Implementation
// Description: Implements the Error type carrying a code, severity, source
//              line, details and a captured stack. Program faults found by the
//              interpreter render as one-line diagnostics; host faults keep
//              their cause chain for logging.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors
// - 2026-10-18 v0.2.0: Source lines, diagnostics, trimmed localization fields

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Error represents a structured error with context, codes, and metadata
type Error struct {
	message   string
	cause     error
	code      Code
	severity  Severity
	timestamp time.Time
	line      int

	details   map[string]interface{}
	operation string

	stackTrace []StackFrame
}

// StackFrame represents a single frame in the stack trace
type StackFrame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

const (
	// MaxErrorChainDepth limits how far RootCause walks a wrapped chain
	MaxErrorChainDepth = 15

	// MaxStackFrames limits the number of stack frames captured
	MaxStackFrames = 20
)

// New creates a new error with the given message
func New(message string) *Error {
	return &Error{
		message:    message,
		code:       CodeUnknown,
		severity:   SeverityMedium,
		timestamp:  time.Now(),
		stackTrace: captureStackTrace(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) *Error {
	e := New(fmt.Sprintf(format, args...))
	e.stackTrace = captureStackTrace(2)
	return e
}

// Wrap wraps an existing error with additional context. A nil cause yields nil.
func Wrap(cause error, message string) *Error {
	if cause == nil {
		return nil
	}

	e := &Error{
		message:    message,
		cause:      cause,
		code:       CodeUnknown,
		severity:   SeverityMedium,
		timestamp:  time.Now(),
		stackTrace: captureStackTrace(2),
	}

	// Inherit classification from a wrapped mdw error
	var inner *Error
	if errors.As(cause, &inner) {
		e.code = inner.code
		e.severity = inner.severity
		e.line = inner.line
	}
	return e
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying cause for errors.Is / errors.As
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.code == t.code && e.code != CodeUnknown
}

// WithCode sets the error code and derives the severity from it
func (e *Error) WithCode(code Code) *Error {
	e.code = code
	e.severity = GetSeverityFromCode(code)
	return e
}

// WithSeverity overrides the severity
func (e *Error) WithSeverity(severity Severity) *Error {
	e.severity = severity
	return e
}

// WithLine attaches the 1-based source line the fault was detected on
func (e *Error) WithLine(line int) *Error {
	e.line = line
	return e
}

// WithDetail adds a single detail
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.details == nil {
		e.details = make(map[string]interface{})
	}
	e.details[key] = value
	return e
}

// WithDetails merges multiple details
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// WithOperation records the operation that failed
func (e *Error) WithOperation(operation string) *Error {
	e.operation = operation
	return e
}

// Message returns the message without the cause
func (e *Error) Message() string { return e.message }

// Code returns the error code
func (e *Error) Code() Code { return e.code }

// Severity returns the severity
func (e *Error) Severity() Severity { return e.severity }

// Line returns the source line, or 0 when none was attached
func (e *Error) Line() int { return e.line }

// Operation returns the failed operation name
func (e *Error) Operation() string { return e.operation }

// Timestamp returns when the error was created
func (e *Error) Timestamp() time.Time { return e.timestamp }

// Cause returns the wrapped error
func (e *Error) Cause() error { return e.cause }

// Details returns a copy of the details map
func (e *Error) Details() map[string]interface{} {
	out := make(map[string]interface{}, len(e.details))
	for k, v := range e.details {
		out[k] = v
	}
	return out
}

// StackTrace returns the captured stack frames
func (e *Error) StackTrace() []StackFrame {
	return e.stackTrace
}

// RootCause follows the cause chain to its end
func (e *Error) RootCause() error {
	var current error = e
	for i := 0; i < MaxErrorChainDepth; i++ {
		next := errors.Unwrap(current)
		if next == nil {
			return current
		}
		current = next
	}
	return current
}

// Diagnostic renders the error the way the interpreter reports program faults:
//
//	Error at Line <n> : <message>
func (e *Error) Diagnostic() string {
	return fmt.Sprintf("Error at Line %d : %s", e.line, e.message)
}

// String returns a detailed multi-line representation for debugging
func (e *Error) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n", e.message)
	fmt.Fprintf(&b, "Code: %s\n", e.code)
	fmt.Fprintf(&b, "Severity: %s\n", e.severity)
	if e.line > 0 {
		fmt.Fprintf(&b, "Line: %d\n", e.line)
	}
	if e.operation != "" {
		fmt.Fprintf(&b, "Operation: %s\n", e.operation)
	}
	for k, v := range e.details {
		fmt.Fprintf(&b, "  %s: %v\n", k, v)
	}
	if e.cause != nil {
		fmt.Fprintf(&b, "Caused by: %v\n", e.cause)
	}
	if len(e.stackTrace) > 0 {
		b.WriteString("Stack trace:\n")
		for _, f := range e.stackTrace {
			fmt.Fprintf(&b, "  %s\n    %s:%d\n", f.Function, f.File, f.Line)
		}
	}
	return b.String()
}

// MarshalJSON implements json.Marshaler
func (e *Error) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"message":   e.message,
		"code":      e.code,
		"severity":  e.severity.String(),
		"timestamp": e.timestamp.Format(time.RFC3339),
	}
	if e.line > 0 {
		out["line"] = e.line
	}
	if e.operation != "" {
		out["operation"] = e.operation
	}
	if len(e.details) > 0 {
		out["details"] = e.details
	}
	if e.cause != nil {
		out["cause"] = e.cause.Error()
	}
	return json.Marshal(out)
}

func captureStackTrace(skip int) []StackFrame {
	pcs := make([]uintptr, MaxStackFrames)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	out := make([]StackFrame, 0, n)
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			out = append(out, StackFrame{
				Function: frame.Function,
				File:     frame.File,
				Line:     frame.Line,
			})
		}
		if !more {
			break
		}
	}
	return out
}

// HasCode reports whether any error in the chain carries code
func HasCode(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode returns the code of the first *Error in the chain, or CodeUnknown
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return CodeUnknown
}

// GetSeverity returns the severity of the first *Error in the chain
func GetSeverity(err error) Severity {
	var e *Error
	if errors.As(err, &e) {
		return e.severity
	}
	return SeverityMedium
}

// LineOf returns the source line of the first *Error in the chain, or 0
func LineOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.line
	}
	return 0
}

// Diagnostic renders any error in diagnostic form. Errors without a
// structured line report line 0.
func Diagnostic(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Diagnostic()
	}
	return fmt.Sprintf("Error at Line 0 : %v", err)
}
