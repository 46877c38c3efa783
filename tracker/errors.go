package tracker

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

var (
	// ErrChannelNotAllowed rejects a submission posted outside the
	// configured channels. User-caused, surfaced verbatim.
	ErrChannelNotAllowed = errors.New("links are not accepted in this channel")

	// ErrEmptyLink rejects a submission with no link text.
	ErrEmptyLink = errors.New("submission link is empty")

	// ErrSessionQuarantined means the guild record failed validation and
	// refuses writes until an administrator resets the session.
	ErrSessionQuarantined = errors.New("session is quarantined, reset required")

	// ErrStoreTimeout is a bounded persistence call running out of time.
	ErrStoreTimeout = errors.New("store timed out")

	// ErrStoreUnavailable is any other transient persistence failure.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// IsRetryable reports whether err is a transient store failure worth
// retrying at the command-surface boundary. The guild lock is released
// before a caller sees this, so retrying never holds it.
func IsRetryable(err error) bool {
	return stderrors.Is(err, ErrStoreTimeout) || stderrors.Is(err, ErrStoreUnavailable)
}

// IsUserError reports whether err should be shown to the invoking user
// as-is instead of being logged as a system failure.
func IsUserError(err error) bool {
	return stderrors.Is(err, ErrChannelNotAllowed) ||
		stderrors.Is(err, ErrEmptyLink) ||
		stderrors.Is(err, ErrSessionQuarantined)
}
