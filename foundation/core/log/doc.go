// File: doc.go
// Title: Log Package Documentation
// Description: Structured logging for kthxbye.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial documentation
// - 2026-10-18 v0.2.0: Default output moved to stderr

/*
Package log provides leveled, structured logging with JSON, text, console
and logfmt output.

Loggers are immutable: every With* method returns a configured copy, so a
component can derive its own logger without affecting others.

	logger := log.NewWithConfig(log.Config{Level: log.LevelDebug, Format: log.FormatConsole})
	scan := logger.WithField("component", "scanner")
	scan.Debug("line scanned", log.Fields{"line": 3, "tokens": 5})

Program output of the interpreter goes to stdout, so loggers write to
stderr unless told otherwise.
*/
package log
