// File: doc.go
// Title: Error Package Documentation
// Description: Structured errors with codes, severity and source lines.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial documentation
// - 2026-10-18 v0.2.0: Source line support for interpreter diagnostics

/*
Package error provides the structured error type used throughout kthxbye.

Every error carries a Code, a Severity derived from that code, optional
details and, for faults in an interpreted program, the source line the
fault was detected on:

	err := mdwerror.New("separator AN not found.").
		WithCode(mdwerror.CodeMissingSeparator).
		WithLine(4)

	fmt.Println(err.Diagnostic()) // Error at Line 4 : separator AN not found.

Errors wrap causes and cooperate with errors.Is / errors.As.
*/
package error
