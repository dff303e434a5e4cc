// Package diagnostic renders evaluator-level info/warn/error messages,
// mirroring the teacher's use of github.com/sirupsen/logrus for
// progress/diagnostic output (pkg/util/perfstats.go).
package diagnostic

import "github.com/Logicalshift/safas/pkg/source"

// Level identifies the severity of a diagnostic.
type Level int

const (
	// Info is an informational message, e.g. from `(print ...)`.
	Info Level = iota
	// Warn is a non-fatal message, e.g. from `(warn ...)`.
	Warn
	// Error is a fatal message.
	Error
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is a single {level, message, span} event, per spec.md §6's
// external interface contract.
type Diagnostic struct {
	Level   Level
	Message string
	File    *source.File
	Span    *source.Span
}

// Sink receives diagnostics as the evaluator runs. Implementations must not
// block or panic; the evaluator treats Emit as fire-and-forget.
type Sink interface {
	Emit(d Diagnostic)
}

// NopSink discards every diagnostic, used by tests that only care about
// evaluation results.
type NopSink struct{}

// Emit implements Sink.
func (NopSink) Emit(Diagnostic) {}
