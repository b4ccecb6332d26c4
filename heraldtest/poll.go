// Package heraldtest provides test utilities
// for code built around a herald hub.
package heraldtest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// ErrPollTimeout is returned by [Poll] when the condition
// did not hold within the configured number of attempts.
var ErrPollTimeout = errors.New("poll timed out awaiting condition")

// PollConfig adjusts how [Poll] waits.
// The zero value is ready to use.
type PollConfig struct {
	// Delay between checks of the condition.
	// Zero or negative means the default of 10ms.
	Interval time.Duration

	// How many times to check the condition before giving up.
	// Zero or negative means the default of 500.
	MaxAttempts int
}

const (
	defaultPollInterval    = 10 * time.Millisecond
	defaultPollMaxAttempts = 500
)

func (c PollConfig) withDefaults() PollConfig {
	if c.Interval <= 0 {
		c.Interval = defaultPollInterval
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultPollMaxAttempts
	}
	return c
}

// Poll repeatedly evaluates cond,
// checking immediately and then once per configured interval,
// until it reports true or the attempts run out.
//
// It returns nil as soon as cond holds,
// and [ErrPollTimeout] otherwise.
// Poll never panics on failure,
// so callers may treat the timeout as a recoverable condition;
// use [RequirePoll] to fail a test instead.
func Poll(cond func() bool, cfg PollConfig) error {
	cfg = cfg.withDefaults()

	for range cfg.MaxAttempts {
		if cond() {
			return nil
		}

		time.Sleep(cfg.Interval)
	}

	return ErrPollTimeout
}

// RequirePoll fails t if cond does not hold
// within cfg's configured attempts.
func RequirePoll(t testing.TB, cond func() bool, cfg PollConfig) {
	t.Helper()

	require.NoError(t, Poll(cond, cfg))
}
