package report

import (
	"errors"
	"fmt"
)

// TextSpan represents a range or "span" of source text. Text spans are
// inclusive on both sides: the starting position is the position of the first
// character in the span and the ending position is the position of the last
// character in the span.  The line and column numbers are zero-indexed.
type TextSpan struct {
	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int
}

// NewSpanOver returns a new text span which spans over and between the two
// given text spans.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	if start == nil {
		return end
	} else if end == nil {
		return start
	}

	return &TextSpan{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// -----------------------------------------------------------------------------

// Kind classifies a compile error.
type Kind int

// Enumeration of error kinds.
const (
	Syntax Kind = iota
	UnboundIdentifier
	Redeclared
	NotAConstant
	DivisionByZero
	NonConstantArrayBound
	NonConstantGlobalInitializer
	InvalidInitializer
	InvalidAssignment
	BreakOutsideLoop
	ContinueOutsideLoop
	ArityOrTypeMismatch
	RegisterPoolExhausted
	MalformedIR
)

var kindNames = map[Kind]string{
	Syntax:                       "Syntax",
	UnboundIdentifier:            "Name",
	Redeclared:                   "Definition",
	NotAConstant:                 "Constant",
	DivisionByZero:               "Constant",
	NonConstantArrayBound:        "Array Bound",
	NonConstantGlobalInitializer: "Initializer",
	InvalidInitializer:           "Initializer",
	InvalidAssignment:            "Assignment",
	BreakOutsideLoop:             "Loop",
	ContinueOutsideLoop:          "Loop",
	ArityOrTypeMismatch:          "Call",
	RegisterPoolExhausted:        "Register",
	MalformedIR:                  "IR",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "Unknown"
}

// -----------------------------------------------------------------------------

// CompileError is an error that occurs while processing a single compilation
// unit.  The file is known by whoever catches the error so it isn't stored.
type CompileError struct {
	// The kind of the error.
	Kind Kind

	// The error message.
	Message string

	// The span over which the error occurs.  This may be nil for errors that
	// don't correspond to source text (eg. backend errors).
	Span *TextSpan
}

func (ce *CompileError) Error() string {
	if ce.Span == nil {
		return ce.Message
	}

	return fmt.Sprintf("%d:%d: %s", ce.Span.StartLine+1, ce.Span.StartCol+1, ce.Message)
}

// Raise creates a new compile error.  It is meant to be thrown with `panic`
// and caught by a deferred call to Catch.
func Raise(kind Kind, span *TextSpan, msg string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(msg, args...), Span: span}
}

// Catch recovers any compile error thrown by a `panic` during a stage of
// compilation and stores it in `err`.  Any other panic is rethrown: those are
// bugs in the compiler, not errors in the input.
// NB: This function must ALWAYS be deferred.
func Catch(err *error) {
	if x := recover(); x != nil {
		if cerr, ok := x.(*CompileError); ok {
			*err = cerr
		} else {
			panic(x)
		}
	}
}

// IsKind returns whether err is a compile error of the given kind.
func IsKind(err error, kind Kind) bool {
	var cerr *CompileError
	if errors.As(err, &cerr) {
		return cerr.Kind == kind
	}

	return false
}
