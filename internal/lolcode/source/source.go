// ============================================================================
// kthxbye - LOLCODE Interpreter
// ============================================================================
//
// Package:     source
// Description: Reads program text from files and streams and splits it
//              into lines. Non-UTF-8 input is decoded as ISO-8859-1.
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package source

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
	"github.com/msto63/kthxbye/foundation/utils/stringx"
)

// Program is a loaded program text
type Program struct {
	Name  string
	Text  string
	Lines []string
}

// FromString wraps text already in memory
func FromString(name, text string) *Program {
	return &Program{Name: name, Text: text, Lines: stringx.SplitLines(text)}
}

// Read loads a program from r
func Read(name string, r io.Reader) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, mdwerror.Wrap(err, "read program").
			WithCode(mdwerror.CodeInvalidInput).
			WithDetail("name", name)
	}
	text, err := Decode(data)
	if err != nil {
		return nil, mdwerror.Wrap(err, "decode program").
			WithCode(mdwerror.CodeInvalidInput).
			WithDetail("name", name)
	}
	return FromString(name, text), nil
}

// ReadFile loads a program from path
func ReadFile(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		code := mdwerror.CodeInvalidInput
		if errors.Is(err, fs.ErrNotExist) {
			code = mdwerror.CodeNotFound
		}
		return nil, mdwerror.Wrap(err, "open program").
			WithCode(code).
			WithDetail("path", path)
	}
	defer f.Close()
	return Read(filepath.Base(path), f)
}

// Decode returns data as a string, decoding it as ISO-8859-1 when it is
// not valid UTF-8
func Decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
