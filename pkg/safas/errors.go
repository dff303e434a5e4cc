package safas

import (
	"fmt"

	"github.com/Logicalshift/safas/pkg/source"
)

// Kind identifies one of spec.md §7's error categories.
type Kind int

const (
	// ParseErrorKind is raised by the reader.
	ParseErrorKind Kind = iota
	// UnknownNameKind is raised when a lookup fails to find a binding.
	UnknownNameKind
	// ArityErrorKind is raised when a function or syntax rule receives the
	// wrong number of arguments.
	ArityErrorKind
	// TypeErrorKind is raised when an operand has the wrong kind for an
	// operation.
	TypeErrorKind
	// WidthErrorKind is raised when an emitted value does not fit its
	// declared width.
	WidthErrorKind
	// RedefinitionKind is raised on a duplicate def/label in one frame.
	RedefinitionKind
	// PatternMatchFailureKind is raised when no syntax rule matches a form.
	PatternMatchFailureKind
	// UnresolvedLabelKind is raised when the label resolver reaches a fixed
	// point with holes still outstanding.
	UnresolvedLabelKind
	// CycleInImportKind is raised when module imports form a cycle.
	CycleInImportKind
	// IOErrorKind is raised by the source provider.
	IOErrorKind
	// UserErrorKind is raised by `(error msg)`.
	UserErrorKind
)

func (k Kind) String() string {
	switch k {
	case ParseErrorKind:
		return "ParseError"
	case UnknownNameKind:
		return "UnknownName"
	case ArityErrorKind:
		return "ArityError"
	case TypeErrorKind:
		return "TypeError"
	case WidthErrorKind:
		return "WidthError"
	case RedefinitionKind:
		return "Redefinition"
	case PatternMatchFailureKind:
		return "PatternMatchFailure"
	case UnresolvedLabelKind:
		return "UnresolvedLabel"
	case CycleInImportKind:
		return "CycleInImport"
	case IOErrorKind:
		return "IOError"
	case UserErrorKind:
		return "UserError"
	default:
		return "Error"
	}
}

// Error is the single error type used throughout the evaluator. It carries a
// Kind for programmatic discrimination (tests compare Kind directly) and an
// optional source span for diagnostics.
type Error struct {
	Kind    Kind
	Msg     string
	Span    *source.Span
	File    *source.File
	wrapped error
}

// Errorf constructs an Error of the given kind with no source span.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// ErrorfAt constructs an Error of the given kind at a given file/span.
func ErrorfAt(kind Kind, file *source.File, span source.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Span: &span, File: file}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.File != nil && e.Span != nil {
		line := e.File.FindLine(*e.Span)
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.File.Name(), line.Number(), line.Column(e.Span.Start()), e.Kind, e.Msg)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap supports errors.Is/errors.As against a wrapped cause, e.g. an
// underlying IOError from a source provider.
func (e *Error) Unwrap() error { return e.wrapped }

// Wrap attaches an underlying cause to this error.
func (e *Error) Wrap(cause error) *Error {
	e.wrapped = cause
	return e
}
