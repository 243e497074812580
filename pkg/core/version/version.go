// ============================================================================
// kthxbye - LOLCODE Interpreter
// ============================================================================
//
// Package:     version
// Description: Central version management for the binary and its
//              components
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import "fmt"

// Version constants
const (
	// Application version
	App = "1.0.0"

	// Component versions
	Interpreter = "1.0.0"
	History     = "1.0.0"
	Server      = "1.0.0"
)

// Build metadata, set via -ldflags at release time
var (
	Commit    = "dev"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "interpreter":
		return Interpreter
	case "history":
		return History
	case "server":
		return Server
	default:
		return App
	}
}

// String returns the full version line shown by `kthxbye version`
func String() string {
	return fmt.Sprintf("kthxbye %s (commit %s, built %s)", App, Commit, BuildDate)
}
