// Copyright 2015 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package diag implements the leveled diagnostic sink described in spec
// §4.2: a mutable verbosity threshold, validation error codes, and a
// last-error indicator (the threshold and the last error are held per
// Sink), in the same accumulate-and-report style the teacher uses for its
// own []error result lists.
package diag

import "fmt"

// Level is a diagnostic severity.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelVerbose
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelVerbose:
		return "verbose"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel accepts either a level name or its numeric index (the CLI's
// "verb" command in spec §6 takes either form).
func ParseLevel(s string) (Level, bool) {
	switch s {
	case "error", "0":
		return LevelError, true
	case "warning", "1":
		return LevelWarning, true
	case "verbose", "2":
		return LevelVerbose, true
	case "debug", "3":
		return LevelDebug, true
	}
	return 0, false
}

// Code identifies the specific validation failure behind an Error, per
// spec §4.2's catalogue of codes.
type Code int

const (
	CodeNone Code = iota
	CodeMissingArgument
	CodeUnknownStatement
	CodeTooManyOccurrences
	CodeInvalidArgumentValue
	CodeUnresolvablePrefix
	CodeDuplicateKey
	CodeKeyNotLeaf
	CodeKeyTypeEmpty
	CodeKeyConfigMismatch
	CodeMissingKey
	CodeDuplicateEnumName
	CodeDuplicateEnumValue
	CodeWhitespaceInEnumName
	CodeDuplicateModule
	CodeMalformedXML
	CodeIOError
	CodeDuplicateIdentifier
	CodeCyclicReference
	CodeInvalidArgumentToUses
)

var codeNames = map[Code]string{
	CodeNone:                  "none",
	CodeMissingArgument:       "missing-required-argument",
	CodeUnknownStatement:      "unknown-statement",
	CodeTooManyOccurrences:    "too-many-occurrences",
	CodeInvalidArgumentValue:  "invalid-argument-value",
	CodeUnresolvablePrefix:    "unresolvable-prefix",
	CodeDuplicateKey:          "duplicate-key",
	CodeKeyNotLeaf:            "key-is-not-a-leaf",
	CodeKeyTypeEmpty:          "key-type-is-empty",
	CodeKeyConfigMismatch:     "key-config-mismatch",
	CodeMissingKey:            "missing-key",
	CodeDuplicateEnumName:     "duplicate-enum-name",
	CodeDuplicateEnumValue:    "duplicate-enum-value",
	CodeWhitespaceInEnumName:  "whitespace-in-enum-name",
	CodeDuplicateModule:       "duplicate-module",
	CodeMalformedXML:         "malformed-xml",
	CodeIOError:               "io-error",
	CodeDuplicateIdentifier:   "duplicate-identifier",
	CodeCyclicReference:       "cyclic-reference",
	CodeInvalidArgumentToUses: "invalid-argument-to-uses",
}

func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return "unknown-code"
}

// Error is a single diagnostic, carrying a validation Code, a formatted
// message and the source line it was attributed to (0 if unknown).
type Error struct {
	Code Code
	Msg  string
	Line int
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Code, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Errorf builds an *Error with code and a formatted message attributed to
// line (0 if there is no meaningful source position).
func Errorf(code Code, line int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...), Line: line}
}

// Sink accumulates diagnostics at or above its threshold and records the
// most recent error, mirroring libyang's process-local "last error"
// indicator but scoped per-Sink so a rewrite need not rely on global
// mutable state (see spec §9, "Global state").
type Sink struct {
	Threshold Level
	errors    []*Error
	warnings  []*Error
	last      *Error
}

// NewSink returns a Sink that reports warning level and above, matching
// the default verbosity of the tools built on this library.
func NewSink() *Sink {
	return &Sink{Threshold: LevelWarning}
}

// Report records diagnostic e.  Errors are always recorded irrespective of
// threshold since they represent failures the caller must observe via
// LastError; warnings/verbose/debug are dropped below Threshold.
func (s *Sink) Report(level Level, e *Error) {
	if level == LevelError {
		s.errors = append(s.errors, e)
		s.last = e
		return
	}
	if level > s.Threshold {
		return
	}
	s.warnings = append(s.warnings, e)
}

// Errorf is shorthand for Report(LevelError, Errorf(code, line, format, args...)).
func (s *Sink) Errorf(code Code, line int, format string, args ...interface{}) *Error {
	e := Errorf(code, line, format, args...)
	s.Report(LevelError, e)
	return e
}

// Warnf is shorthand for Report(LevelWarning, ...).
func (s *Sink) Warnf(code Code, line int, format string, args ...interface{}) {
	s.Report(LevelWarning, Errorf(code, line, format, args...))
}

// Errors returns every error reported to s, in report order.
func (s *Sink) Errors() []*Error { return s.errors }

// HasErrors reports whether any error-level diagnostic was reported.
func (s *Sink) HasErrors() bool { return len(s.errors) > 0 }

// LastError returns the most recently reported error, or nil.
func (s *Sink) LastError() *Error { return s.last }

// Reset clears all accumulated diagnostics and the last-error indicator,
// but keeps Threshold.
func (s *Sink) Reset() {
	s.errors = nil
	s.warnings = nil
	s.last = nil
}
