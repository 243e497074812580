// File: doc.go
// Title: String Utilities Documentation
// Description: Package documentation for stringx.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial documentation
// - 2026-10-18 v0.2.0: Reduced to text layout helpers

// Package stringx provides the small rune-aware string helpers used for
// table layout and source handling.
package stringx
