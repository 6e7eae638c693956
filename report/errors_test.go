package report

import (
	"errors"
	"fmt"
	"testing"
)

func raiseUnbound() (err error) {
	defer Catch(&err)

	panic(Raise(UnboundIdentifier, &TextSpan{StartLine: 2, StartCol: 4}, "undefined symbol `%s`", "x"))
}

func TestCatchConvertsRaise(t *testing.T) {
	err := raiseUnbound()
	if err == nil {
		t.Fatal("expected an error")
	}

	if !IsKind(err, UnboundIdentifier) {
		t.Fatalf("expected UnboundIdentifier, got %v", err)
	}

	if err.Error() != "3:5: undefined symbol `x`" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestCatchRethrowsOtherPanics(t *testing.T) {
	defer func() {
		if x := recover(); x == nil {
			t.Fatal("expected the panic to propagate")
		}
	}()

	func() (err error) {
		defer Catch(&err)
		panic("boom")
	}()
}

func TestIsKindWrapped(t *testing.T) {
	err := fmt.Errorf("lowering: %w", Raise(BreakOutsideLoop, nil, "break outside loop"))
	if !IsKind(err, BreakOutsideLoop) {
		t.Fatal("expected wrapped error to match")
	}

	if IsKind(errors.New("plain"), BreakOutsideLoop) {
		t.Fatal("plain errors have no kind")
	}
}

func TestNewSpanOver(t *testing.T) {
	span := NewSpanOver(&TextSpan{StartLine: 1, StartCol: 2}, &TextSpan{EndLine: 3, EndCol: 4})
	if span.StartLine != 1 || span.StartCol != 2 || span.EndLine != 3 || span.EndCol != 4 {
		t.Fatalf("bad span: %+v", span)
	}
}
