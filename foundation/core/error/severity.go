// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors so that loggers can pick
//              an appropriate level when reporting them.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-10-18 v0.2.0: Severity mapping for interpreter codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow is a fault in the interpreted program. The host is fine.
	SeverityLow Severity = iota

	// SeverityMedium is the default for errors without a more specific code
	SeverityMedium

	// SeverityHigh marks host faults such as storage or configuration errors
	SeverityHigh

	// SeverityCritical marks internal invariant violations
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch {
	case code == CodeInternal:
		return SeverityCritical
	case code == CodeStorageError, code == CodeConfigError:
		return SeverityHigh
	case code.IsProgramError():
		return SeverityLow
	default:
		return SeverityMedium
	}
}
