package handler

import (
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/enryu8191/Creator-Bot/tracker"
)

const maxStoreRetries = 3

// WithStoreRetry runs fn, retrying transient store failures with exponential
// backoff. The tracker releases its guild lock before returning, so waiting
// here never blocks other operations on the guild. Anything that is not a
// transient store error fails immediately.
func WithStoreRetry(fn func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxElapsedTime = 10 * time.Second

	return backoff.Retry(func() error {
		err := fn()
		if err != nil && !tracker.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithMaxRetries(policy, maxStoreRetries))
}
