// File: stringx_test.go
// Title: String Utility Tests
// Description: Tests for stringx helpers.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial tests
// - 2026-10-18 v0.2.0: Line splitting cases

package stringx

import (
	"reflect"
	"testing"
)

func TestIsBlank(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{" \t\n", true},
		{" x ", false},
	}
	for _, tt := range tests {
		if got := IsBlank(tt.in); got != tt.want {
			t.Errorf("IsBlank(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := FirstNonBlank("", "  ", "a", "b"); got != "a" {
		t.Errorf("FirstNonBlank() = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		max    int
		want   string
	}{
		{"VISIBLE", 10, "VISIBLE"},
		{"VISIBLE", 5, "VI..."},
		{"äöüäöü", 4, "ä..."},
		{"abc", 2, "ab"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max, "..."); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestPad(t *testing.T) {
	if got := PadRight("HAI", 6, '.'); got != "HAI..." {
		t.Errorf("PadRight() = %q", got)
	}
	if got := PadLeft("7", 3, ' '); got != "  7" {
		t.Errorf("PadLeft() = %q", got)
	}
	if got := PadRight("KTHXBYE", 3, ' '); got != "KTHXBYE" {
		t.Errorf("PadRight() must not shorten, got %q", got)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"HAI\nKTHXBYE\n", []string{"HAI", "KTHXBYE"}},
		{"HAI\r\nKTHXBYE", []string{"HAI", "KTHXBYE"}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"a\rb", []string{"a", "b"}},
	}
	for _, tt := range tests {
		if got := SplitLines(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitLines(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
