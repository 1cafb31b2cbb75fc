package faults

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsCategory(t *testing.T) {
	t.Parallel()

	err := NewTypedError(NotFoundError, "resource not found", nil)
	if !IsCategory(err, NotFoundError) {
		t.Fatalf("expected not-found category match")
	}
	if IsCategory(err, ConflictError) {
		t.Fatalf("expected conflict category mismatch")
	}

	wrapped := errors.New("wrap: " + err.Error())
	if IsCategory(wrapped, NotFoundError) {
		t.Fatalf("plain wrapped string error must not match typed category")
	}

	joined := errors.Join(err, errors.New("other"))
	if !IsCategory(joined, NotFoundError) {
		t.Fatalf("expected category match through errors.Join")
	}
}

func TestCategoryOf(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("fetch servers: %w", NewTypedError(TransportError, "service unreachable", cause))

	category, ok := CategoryOf(err)
	if !ok || category != TransportError {
		t.Fatalf("expected TransportError, got %q ok=%t", category, ok)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to stay reachable through Unwrap")
	}
	if got := err.Error(); got != "fetch servers: service unreachable: dial tcp: connection refused" {
		t.Fatalf("unexpected message %q", got)
	}

	if _, ok := CategoryOf(errors.New("plain")); ok {
		t.Fatalf("expected untyped error to report no category")
	}
}
