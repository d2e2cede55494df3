package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestWrapAndIsCode(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap("persistence_failure", "failed to persist faq records", cause)

	if !IsCode(err, "persistence_failure") {
		t.Fatal("expected code to match")
	}
	if IsCode(err, "invalid_input") {
		t.Fatal("unexpected code match")
	}
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause to unwrap")
	}
	if got := err.Error(); got != "failed to persist faq records: disk full" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap("invalid_input", "no question provided", nil)
	if got := err.Error(); got != "no question provided" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestCodeThroughWrapping(t *testing.T) {
	err := Wrap("duplicate_question", "question already exists", nil)
	wrapped := fmt.Errorf("add faq: %w", err)

	if got := Code(wrapped); got != "duplicate_question" {
		t.Fatalf("unexpected code: %q", got)
	}
	if got := Code(stderrors.New("plain")); got != "" {
		t.Fatalf("expected empty code, got %q", got)
	}
}
