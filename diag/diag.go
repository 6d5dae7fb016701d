// Package diag implements the error-kind catalog and per-context
// diagnostics list described in spec.md §7.
package diag

import (
	"errors"
	"fmt"

	"golang.org/x/text/message"
)

// Kind enumerates the error kinds of spec.md §7.
type Kind uint8

const (
	KindParseError Kind = iota
	KindTypeMismatch
	KindIncompatibleTypes
	KindInvalidLValue
	KindInvalidSemantic
	KindMissingSemantic
	KindInvalidReservation
	KindOverlappingReservations
	KindInvalidWriteMask
	KindInternalCompilerError
	KindUnimplemented
	KindOutOfMemory
	KindInvalidShader
)

func (k Kind) String() string {
	switch k {
	case KindParseError:
		return "ParseError"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindIncompatibleTypes:
		return "IncompatibleTypes"
	case KindInvalidLValue:
		return "InvalidLValue"
	case KindInvalidSemantic:
		return "InvalidSemantic"
	case KindMissingSemantic:
		return "MissingSemantic"
	case KindInvalidReservation:
		return "InvalidReservation"
	case KindOverlappingReservations:
		return "OverlappingReservations"
	case KindInvalidWriteMask:
		return "InvalidWriteMask"
	case KindInternalCompilerError:
		return "InternalCompilerError"
	case KindUnimplemented:
		return "Unimplemented"
	case KindOutOfMemory:
		return "OutOfMemory"
	case KindInvalidShader:
		return "InvalidShader"
	default:
		return "Unknown"
	}
}

// Location identifies where in the source a diagnostic applies.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.File == "" && l.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Note is a secondary annotation attached to a Diagnostic, e.g. "first
// bound here" pointing at a prior declaration (spec.md §7).
type Note struct {
	Location Location
	Message  string
}

// Diagnostic is one reported error or warning.
type Diagnostic struct {
	Kind     Kind
	Location Location
	Message  string
	Notes    []Note
}

func (d *Diagnostic) Error() string {
	if loc := d.Location.String(); loc != "" {
		return fmt.Sprintf("%s: %s: %s", loc, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// ErrOutOfMemory is returned immediately and propagated without
// continuing compilation, per spec.md §7 ("OOM propagates immediately").
var ErrOutOfMemory = errors.New("diag: out of memory")

// Result is the per-context result code and diagnostics list (spec.md
// §7): compilation continues accumulating diagnostics as long as the IR
// stays structurally sound, so multiple errors can be reported in one
// pass.
type Result struct {
	diagnostics []*Diagnostic
	fatal       bool
}

// NewResult creates an empty, non-fatal diagnostics accumulator.
func NewResult() *Result {
	return &Result{}
}

// Report records a diagnostic. KindInternalCompilerError and
// KindOutOfMemory latch Fatal, per spec.md §7's result-code-latch policy;
// all other kinds are recoverable and compilation continues.
func (r *Result) Report(d *Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
	if d.Kind == KindInternalCompilerError || d.Kind == KindOutOfMemory {
		r.fatal = true
	}
}

// Errorf is a convenience wrapper around Report for simple, note-free
// diagnostics.
func (r *Result) Errorf(kind Kind, loc Location, format string, args ...any) {
	r.Report(&Diagnostic{Kind: kind, Location: loc, Message: fmt.Sprintf(format, args...)})
}

// Fatal reports whether a later pass should bail without attempting
// further work, per spec.md §7: "passes check for the result-code latch
// and bail".
func (r *Result) Fatal() bool {
	return r.fatal
}

// HasErrors reports whether any diagnostic was recorded.
func (r *Result) HasErrors() bool {
	return len(r.diagnostics) > 0
}

// Diagnostics returns all recorded diagnostics in report order.
func (r *Result) Diagnostics() []*Diagnostic {
	return r.diagnostics
}

// Summary renders a locale-formatted count of the diagnostics recorded,
// e.g. "1 error" or "12 errors", using golang.org/x/text/message the way
// a production compiler driver formats a build summary.
func (r *Result) Summary() string {
	p := message.NewPrinter(message.MatchLanguage("en"))
	n := len(r.diagnostics)
	if n == 1 {
		return p.Sprintf("%d error", n)
	}
	return p.Sprintf("%d errors", n)
}
