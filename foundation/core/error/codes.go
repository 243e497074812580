// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across kthxbye. Interpreter codes
//              mirror the diagnostic taxonomy of the LOLCODE recognizer;
//              infrastructure codes cover configuration, storage and I/O.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-18 v0.2.0: Interpreter taxonomy codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// Interpreter codes
	CodeStructural              Code = "STRUCTURAL"
	CodeUnrecognizedStatement   Code = "UNRECOGNIZED_STATEMENT"
	CodeUnrecognizedOperand     Code = "UNRECOGNIZED_OPERAND"
	CodeUnknownVariable         Code = "UNKNOWN_VARIABLE"
	CodeUninitializedVariable   Code = "UNINITIALIZED_VARIABLE"
	CodeDivisionByZero          Code = "DIVISION_BY_ZERO"
	CodeIllegalNesting          Code = "ILLEGAL_NESTING"
	CodeMissingOperand          Code = "MISSING_OPERAND"
	CodeMissingSeparator        Code = "MISSING_SEPARATOR"
	CodeUnterminatedControlFlow Code = "UNTERMINATED_CONTROL_FLOW"
	CodeTypeMismatch            Code = "TYPE_MISMATCH"
	CodeInputError              Code = "INPUT_ERROR"
	CodeNestingTooDeep          Code = "NESTING_TOO_DEEP"

	// Configuration and storage
	CodeConfigError  Code = "CONFIG_ERROR"
	CodeStorageError Code = "STORAGE_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput,
		CodeStructural, CodeUnrecognizedStatement, CodeUnrecognizedOperand,
		CodeUnknownVariable, CodeUninitializedVariable, CodeDivisionByZero,
		CodeIllegalNesting, CodeMissingOperand, CodeMissingSeparator,
		CodeUnterminatedControlFlow, CodeTypeMismatch, CodeInputError, CodeNestingTooDeep,
		CodeConfigError, CodeStorageError:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeStructural, CodeUnrecognizedStatement, CodeUnrecognizedOperand,
		CodeMissingOperand, CodeMissingSeparator, CodeIllegalNesting,
		CodeUnterminatedControlFlow, CodeNestingTooDeep:
		return "syntax"
	case CodeUnknownVariable, CodeUninitializedVariable, CodeDivisionByZero,
		CodeTypeMismatch, CodeInputError:
		return "semantic"
	case CodeConfigError:
		return "configuration"
	case CodeStorageError:
		return "storage"
	default:
		return "generic"
	}
}

// IsProgramError reports whether the code describes a fault in the
// interpreted program rather than in the host.
func (c Code) IsProgramError() bool {
	cat := c.Category()
	return cat == "syntax" || cat == "semantic"
}

// HTTPStatus returns the appropriate HTTP status code for this error code
func (c Code) HTTPStatus() int {
	switch {
	case c == CodeNotFound:
		return 404
	case c == CodeInvalidInput, c.IsProgramError():
		return 422
	default:
		return 500
	}
}
