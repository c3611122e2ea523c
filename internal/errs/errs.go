// Package errs defines the Sync Core's error kind taxonomy and the
// exit-code mapping used at the CLI boundary. Adapted from the teacher's
// internal/cli/errors.go ExitCodeError, simplified to the spec's two exit
// codes (§6: 0 success, 1 failure) instead of the teacher's five-code
// scheme, since the Sync Core only needs to distinguish "worked" from
// "didn't."
package errs

import "fmt"

// Kind is one of the error kinds named in spec §7.
type Kind string

const (
	AuthFailed      Kind = "auth_failed"
	PermissionDenied Kind = "permission_denied"
	NotFound        Kind = "not_found"
	RateLimited     Kind = "rate_limited"
	TransportFailed Kind = "transport_failed"
	SchemaMismatch  Kind = "schema_mismatch"
	ConfigInvalid   Kind = "config_invalid"
	ParseFailed     Kind = "parse_failed"
	Conflict        Kind = "conflict"
	InvalidState    Kind = "invalid_state"
)

// SyncError wraps an underlying error with its kind, letting callers branch
// on Kind() without parsing a message string.
type SyncError struct {
	Kind Kind
	Err  error
}

func New(kind Kind, format string, args ...any) *SyncError {
	return &SyncError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func Wrap(kind Kind, err error) *SyncError {
	if err == nil {
		return nil
	}
	return &SyncError{Kind: kind, Err: err}
}

func (e *SyncError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// ExitCode maps an error to the CLI exit code from spec §6: 0 for nil
// (including "nothing to do"), 1 for everything else. The Sync Core itself
// never calls os.Exit; this is consulted only by the cmd/ entrypoint.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// KindOf extracts the Kind from err if it (or something it wraps) is a
// *SyncError, otherwise returns the empty Kind.
func KindOf(err error) Kind {
	var se *SyncError
	for err != nil {
		if s, ok := err.(*SyncError); ok {
			se = s
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if se == nil {
		return ""
	}
	return se.Kind
}
