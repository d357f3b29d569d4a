package services

import (
	"github.com/cenkalti/backoff/v4"
)

// DefaultMaxAttempts bounds how often a workflow operation is re-run on
// transient store failures.
const DefaultMaxAttempts = 3

// WithRetries runs op up to DefaultMaxAttempts times. Business-rule
// failures are never retried; the last error is returned once the
// attempt budget is exhausted.
func WithRetries(op func() error) error {
	return WithMaxRetries(op, DefaultMaxAttempts)
}

// WithMaxRetries is WithRetries with an explicit attempt cap.
func WithMaxRetries(op func() error, maxAttempts uint64) error {
	if maxAttempts == 0 {
		maxAttempts = 1
	}
	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if IsBusinessError(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.Retry(wrapped, backoff.WithMaxRetries(&backoff.ZeroBackOff{}, maxAttempts-1))
}
