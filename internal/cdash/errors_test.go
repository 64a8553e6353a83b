package cdash

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Message(t *testing.T) {
	err := Errorf(KindNotFound, "build %d not found", 42)
	want := "NotFound: build 42 not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"taxonomy error", Errorf(KindAuthenticationFailed, "token rejected"), KindAuthenticationFailed},
		{"wrapped taxonomy error", fmt.Errorf("tool failed: %w", Errorf(KindInvalidArguments, "project is required")), KindInvalidArguments},
		{"plain error", errors.New("boom"), KindUpstreamUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	err := Errorf(KindMalformedResponse, "bad body")
	if !IsKind(err, KindMalformedResponse) {
		t.Error("IsKind() = false for matching kind")
	}
	if IsKind(err, KindNotFound) {
		t.Error("IsKind() = true for non-matching kind")
	}
}

func TestNormalize_PassesThroughTaxonomyErrors(t *testing.T) {
	orig := Errorf(KindNotFound, "no such project")
	norm := Normalize(fmt.Errorf("outer: %w", orig))
	if norm.Kind != KindNotFound {
		t.Errorf("Normalize() kind = %v, want %v", norm.Kind, KindNotFound)
	}
}

func TestNormalize_FoldsUnknownErrors(t *testing.T) {
	cause := errors.New("connection reset")
	norm := Normalize(cause)
	if norm.Kind != KindUpstreamUnavailable {
		t.Errorf("Normalize() kind = %v, want %v", norm.Kind, KindUpstreamUnavailable)
	}
	if !errors.Is(norm, cause) {
		t.Error("Normalize() lost the original cause")
	}
}

func TestWrapErrorf_Unwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := WrapErrorf(KindUpstreamUnavailable, cause, "request failed")
	if !errors.Is(err, cause) {
		t.Error("errors.Is() = false for wrapped cause")
	}
}
