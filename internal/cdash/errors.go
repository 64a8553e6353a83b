package cdash

import (
	"errors"
	"fmt"
)

// Kind classifies every failure a tool invocation can surface.
// The set is closed: anything unexpected is folded into
// KindUpstreamUnavailable at the dispatch boundary.
type Kind string

const (
	// KindInvalidArguments marks a caller error. It is raised before any
	// network request is issued.
	KindInvalidArguments Kind = "InvalidArguments"

	// KindAuthenticationFailed marks a 401/403 from the dashboard.
	KindAuthenticationFailed Kind = "AuthenticationFailed"

	// KindNotFound marks an unknown project, build, or test.
	KindNotFound Kind = "NotFound"

	// KindUpstreamUnavailable marks network failures, timeouts, and 5xx
	// responses from the dashboard.
	KindUpstreamUnavailable Kind = "UpstreamUnavailable"

	// KindMalformedResponse marks a 2xx response whose body fails JSON
	// decoding or lacks an expected top-level key.
	KindMalformedResponse Kind = "MalformedResponse"
)

// Error is the domain error carried through the client, shapers, and tool
// dispatch. Message is safe to surface to the calling agent: it never
// contains the bearer token or internal stack information.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// Errorf builds a taxonomy error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapErrorf builds a taxonomy error that retains its cause.
func WrapErrorf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf extracts the taxonomy kind from err. Errors that do not carry a
// kind are treated as UpstreamUnavailable so that no failure escapes the
// taxonomy.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUpstreamUnavailable
}

// IsKind reports whether err carries the given taxonomy kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Normalize guarantees err is a taxonomy error. Known taxonomy errors pass
// through unchanged; anything else becomes UpstreamUnavailable with the
// original message attached.
func Normalize(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return WrapErrorf(KindUpstreamUnavailable, err, "unexpected failure: %v", err)
}
