package pipes

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(NewConversionError("x")); got != KindConversion {
		t.Fatalf("got %v, want KindConversion", got)
	}
	if got := KindOf(NewValidationError("x")); got != KindValidation {
		t.Fatalf("got %v, want KindValidation", got)
	}
	if got := KindOf(errors.New("x")); got != 0 {
		t.Fatalf("plain error should have no kind, got %v", got)
	}
	if got := KindOf(nil); got != 0 {
		t.Fatalf("nil should have no kind, got %v", got)
	}
	// classification survives wrapping by callers
	wrapped := fmt.Errorf("while handling request: %w", NewConversionError("x"))
	if got := KindOf(wrapped); got != KindConversion {
		t.Fatalf("got %v, want classification through wrap", got)
	}
}

func TestWrapConversion_NoDoubleWrap(t *testing.T) {
	original := NewConversionError("cannot convert 'x' to a number")
	if got := wrapConversion("query", original); got.(*Error) != original {
		t.Fatalf("classified error must be re-raised unchanged, got %v", got)
	}

	plain := errors.New("boom")
	err := wrapConversion("query", plain)
	if KindOf(err) != KindConversion {
		t.Fatalf("got %v, want conversion classification", err)
	}
	if err.Error() != "Failed to validate query: boom" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, plain) {
		t.Fatalf("cause should stay reachable")
	}

	err = wrapConversion("", plain)
	if err.Error() != "Failed to validate argument: boom" {
		t.Fatalf("missing kind should fall back to a generic label, got %q", err.Error())
	}
}

func TestWrapValidation_HidesCause(t *testing.T) {
	original := NewValidationError("name: name is required")
	if got := wrapValidation(original); got.(*Error) != original {
		t.Fatalf("classified error must be re-raised unchanged, got %v", got)
	}

	err := wrapValidation(errors.New("reflect: internal detail"))
	if KindOf(err) != KindValidation {
		t.Fatalf("got %v, want validation classification", err)
	}
	if err.Error() != "Validation failed" {
		t.Fatalf("cause must not leak into the message, got %q", err.Error())
	}
}
